// Package store implements core.Store on top of key/value slots.
//
// The collection lives in the "quotes" slot as a JSON array, the selected
// filter in "selectedCategory" as a plain string, records added locally and
// not yet pushed in "outbox" as a JSON array. The most recently displayed
// record goes to "lastQuote" in the session backend, which may be a
// process-lifetime memory store or the data backend itself.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/introspection"

	"github.com/aretw0/quotebook/pkg/codec"
	"github.com/aretw0/quotebook/pkg/core"
)

// Store implements core.Store.
type Store struct {
	slots   core.Slots
	session core.Slots
	codec   codec.JSON
}

// New creates a store. session may be nil, in which case SaveLast is a no-op.
func New(slots, session core.Slots) *Store {
	return &Store{slots: slots, session: session}
}

// Load implements core.Store.
func (s *Store) Load(ctx context.Context) ([]core.Record, bool, error) {
	data, ok, err := s.slots.Get(ctx, core.SlotQuotes)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s slot: %w", core.SlotQuotes, err)
	}
	if !ok || len(data) == 0 {
		return nil, false, nil
	}

	records, err := s.codec.Decode(data)
	if err != nil {
		if errors.Is(err, core.ErrFormat) {
			return nil, false, fmt.Errorf("%w: %s slot: %v", core.ErrCorruptData, core.SlotQuotes, err)
		}
		return nil, false, err
	}
	return records, true, nil
}

// Save implements core.Store.
func (s *Store) Save(ctx context.Context, records []core.Record) error {
	data, err := s.codec.Encode(records)
	if err != nil {
		return fmt.Errorf("failed to serialize collection: %w", err)
	}
	return s.slots.Put(ctx, core.SlotQuotes, data)
}

// LoadFilter implements core.Store.
func (s *Store) LoadFilter(ctx context.Context) (string, bool, error) {
	data, ok, err := s.slots.Get(ctx, core.SlotSelectedCategory)
	if err != nil || !ok {
		return "", false, err
	}
	return string(data), true, nil
}

// SaveFilter implements core.Store.
func (s *Store) SaveFilter(ctx context.Context, value string) error {
	return s.slots.Put(ctx, core.SlotSelectedCategory, []byte(value))
}

// SaveLast implements core.Store.
func (s *Store) SaveLast(ctx context.Context, r core.Record) error {
	if s.session == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.session.Put(ctx, core.SlotLastQuote, data)
}

// LoadOutbox implements core.Store. An absent slot is an empty outbox.
func (s *Store) LoadOutbox(ctx context.Context) ([]core.Record, error) {
	data, ok, err := s.slots.Get(ctx, core.SlotOutbox)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s slot: %w", core.SlotOutbox, err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}

	records, err := s.codec.Decode(data)
	if errors.Is(err, core.ErrFormat) {
		return nil, fmt.Errorf("%w: %s slot: %v", core.ErrCorruptData, core.SlotOutbox, err)
	}
	return records, err
}

// SaveOutbox implements core.Store.
func (s *Store) SaveOutbox(ctx context.Context, records []core.Record) error {
	data, err := s.codec.Encode(records)
	if err != nil {
		return fmt.Errorf("failed to serialize outbox: %w", err)
	}
	return s.slots.Put(ctx, core.SlotOutbox, data)
}

// LoadLast returns the record written by SaveLast, if any.
func (s *Store) LoadLast(ctx context.Context) (core.Record, bool, error) {
	if s.session == nil {
		return core.Record{}, false, nil
	}
	data, ok, err := s.session.Get(ctx, core.SlotLastQuote)
	if err != nil || !ok {
		return core.Record{}, false, err
	}
	var r core.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return core.Record{}, false, fmt.Errorf("%w: %s slot: %v", core.ErrCorruptData, core.SlotLastQuote, err)
	}
	return r, true, nil
}

// ComponentType implements introspection.Component.
// It reports the slot backend so the service state names the real storage.
func (s *Store) ComponentType() string {
	if comp, ok := s.slots.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return "store"
}

var _ core.Store = (*Store)(nil)
