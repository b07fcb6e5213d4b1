package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Source identifies where a batch of merge candidates came from.
type Source string

const (
	SourceImport Source = "import"
	SourceRemote Source = "remote"
)

// ServiceConfig holds the collaborators of a Service.
type ServiceConfig struct {
	Logger   *slog.Logger
	Notifier Notifier
	OnIndex  IndexListener
}

// Service handles the business logic for the record collection.
//
// A Service is not safe for concurrent use: every call must come from the
// same goroutine (the engine event loop), which is what keeps mutations
// free of locks.
type Service struct {
	store    Store
	coll     *Collection
	filter   string
	outbox   []Record
	codecs   map[string]Codec
	logger   *slog.Logger
	notifier Notifier
	onIndex  IndexListener
}

// NewService creates a new Service backed by store.
func NewService(store Store, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &Service{
		store:    store,
		coll:     NewCollection(),
		filter:   FilterAll,
		codecs:   make(map[string]Codec),
		logger:   logger,
		notifier: notifier,
		onIndex:  cfg.OnIndex,
	}
}

// RegisterCodec makes a serialization format available to Import and Export.
func (s *Service) RegisterCodec(format string, c Codec) {
	s.codecs[format] = c
}

// Bootstrap loads the persisted collection and filter.
//
// An empty store is seeded with DefaultRecords, which are persisted right away.
// A corrupt store is treated the same way, overwriting the corrupt slot.
func (s *Service) Bootstrap(ctx context.Context) error {
	records, ok, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, ErrCorruptData):
		s.logger.Warn("persisted collection is corrupt, restoring defaults", "error", err)
		ok = false
	case err != nil:
		return fmt.Errorf("failed to load collection: %w", err)
	}

	if ok {
		s.coll.Initialize(records)
	} else {
		s.coll.Initialize(DefaultRecords())
		if err := s.store.Save(ctx, s.coll.Records()); err != nil {
			return fmt.Errorf("failed to persist default collection: %w", err)
		}
	}

	filter, ok, err := s.store.LoadFilter(ctx)
	if err != nil {
		s.logger.Warn("failed to load selected category", "error", err)
	}
	if ok && filter != "" {
		s.filter = filter
	}

	pending, err := s.store.LoadOutbox(ctx)
	if err != nil {
		s.logger.Warn("failed to load push outbox, starting empty", "error", err)
	}
	s.outbox = pending

	s.logger.Debug("collection loaded", "records", s.coll.Len(), "filter", s.filter, "outbox", len(s.outbox))
	s.refreshIndex()
	return nil
}

// Add validates and appends a user-supplied record, then queues it in the
// outbox for the next push. Invalid input returns ErrValidation and a failed
// save returns the error; both leave the collection untouched.
// Duplicates of existing records are accepted.
func (s *Service) Add(ctx context.Context, text, category string) (Record, error) {
	r, err := NewRecord(text, category)
	if err != nil {
		return Record{}, err
	}

	n := s.coll.Len()
	s.coll.Add(r)
	if err := s.persist(ctx); err != nil {
		s.coll.truncate(n)
		return Record{}, err
	}

	s.outbox = append(s.outbox, r)
	if err := s.store.SaveOutbox(ctx, s.outbox); err != nil {
		s.logger.Warn("failed to persist push outbox", "error", err)
	}
	s.notifier.Notify("Quote added successfully!")
	return r, nil
}

// PendingLen returns how many added records wait to be pushed.
func (s *Service) PendingLen() int {
	return len(s.outbox)
}

// TakePending empties the outbox and returns its records for a push.
// The outbox slot is cleared first; if that fails the records stay queued.
func (s *Service) TakePending(ctx context.Context) ([]Record, error) {
	if len(s.outbox) == 0 {
		return nil, nil
	}
	if err := s.store.SaveOutbox(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to clear push outbox: %w", err)
	}
	batch := s.outbox
	s.outbox = nil
	return batch, nil
}

// Merge appends the structurally novel candidates.
// When anything was added the collection is persisted, the index refreshed and
// the notifier told how many records arrived. Otherwise nothing observable happens.
func (s *Service) Merge(ctx context.Context, src Source, candidates []Record) (MergeResult, error) {
	n := s.coll.Len()
	res := s.coll.BulkMerge(candidates)
	if res.Added == 0 {
		return res, nil
	}

	if err := s.persist(ctx); err != nil {
		s.coll.truncate(n)
		return MergeResult{}, err
	}

	switch src {
	case SourceRemote:
		s.notifier.Notify(fmt.Sprintf("%d new quote(s) synced from server", res.Added))
	default:
		s.notifier.Notify(fmt.Sprintf("%d quote(s) imported successfully", res.Added))
	}
	return res, nil
}

// Import decodes data with the named codec and merges the result.
// A payload that is not a sequence of records returns ErrFormat and merges nothing.
func (s *Service) Import(ctx context.Context, format string, data []byte) (MergeResult, error) {
	c, err := s.codec(format)
	if err != nil {
		return MergeResult{}, err
	}

	candidates, err := c.Decode(data)
	if err != nil {
		return MergeResult{}, err
	}

	for i := range candidates {
		if err := candidates[i].Validate(); err != nil {
			return MergeResult{}, fmt.Errorf("%w: item %d: %v", ErrFormat, i, err)
		}
	}

	return s.Merge(ctx, SourceImport, candidates)
}

// Export renders the whole collection with the named codec.
func (s *Service) Export(format string) ([]byte, error) {
	c, err := s.codec(format)
	if err != nil {
		return nil, err
	}
	return c.Encode(s.coll.Records())
}

// Random draws a record matching filter and records it in the session slot.
// An empty filter means the currently selected one.
func (s *Service) Random(ctx context.Context, filter string) (Record, bool) {
	if filter == "" {
		filter = s.filter
	}

	r, ok := s.coll.PickRandom(filter)
	if !ok {
		return Record{}, false
	}

	if err := s.store.SaveLast(ctx, r); err != nil {
		s.logger.Debug("failed to record last quote", "error", err)
	}
	return r, true
}

// SetFilter selects a category (or FilterAll) and persists the choice.
func (s *Service) SetFilter(ctx context.Context, value string) error {
	if value == "" {
		value = FilterAll
	}
	s.filter = value
	return s.store.SaveFilter(ctx, value)
}

// Filter returns the currently selected category filter.
func (s *Service) Filter() string {
	return s.filter
}

// Categories returns the distinct categories in first-seen order.
func (s *Service) Categories() []string {
	return s.coll.CategoriesInOrder()
}

// Records returns the records in the given category (every record for "" or FilterAll).
func (s *Service) Records(filter string) []Record {
	return s.coll.Filter(filter)
}

// Len returns the number of records in the collection.
func (s *Service) Len() int {
	return s.coll.Len()
}

// Close performs the final save at shutdown.
func (s *Service) Close(ctx context.Context) error {
	return s.store.Save(ctx, s.coll.Records())
}

// persist writes the collection and then refreshes the category index.
func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.coll.Records()); err != nil {
		return fmt.Errorf("failed to persist collection: %w", err)
	}
	s.refreshIndex()
	return nil
}

func (s *Service) refreshIndex() {
	if s.onIndex != nil {
		s.onIndex(s.coll.CategoriesInOrder())
	}
}

func (s *Service) codec(format string) (Codec, error) {
	if format == "" {
		format = "json"
	}
	c, ok := s.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrFormat, format)
	}
	return c, nil
}
