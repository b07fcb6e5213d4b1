package core

import "context"

// Slot keys used by the store.
const (
	SlotQuotes           = "quotes"
	SlotSelectedCategory = "selectedCategory"
	SlotLastQuote        = "lastQuote"
	SlotOutbox           = "outbox"
)

// Slots defines the contract for a durable key/value backend.
// Adhering to this interface keeps the core independent of the storage
// mechanism (files, SQLite, memory).
type Slots interface {
	// Get returns the value of a slot. The boolean is false when the slot is empty.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put replaces the whole value of a slot. Implementations must never leave a partial write.
	Put(ctx context.Context, key string, value []byte) error

	// Initialize ensures the underlying storage is ready (mkdir, schema migration).
	Initialize(ctx context.Context) error
}

// Store is the persistent store of the record collection.
type Store interface {
	// Load returns the stored collection. The boolean is false when nothing is stored.
	// A slot that is present but unparseable yields ErrCorruptData.
	Load(ctx context.Context) ([]Record, bool, error)

	// Save serializes and overwrites the collection slot.
	Save(ctx context.Context, records []Record) error

	// LoadFilter returns the last selected category filter.
	LoadFilter(ctx context.Context) (string, bool, error)

	// SaveFilter overwrites the filter slot.
	SaveFilter(ctx context.Context, value string) error

	// SaveLast records the most recently displayed record in the session slot.
	SaveLast(ctx context.Context, r Record) error

	// LoadOutbox returns the records added locally that were not yet pushed.
	LoadOutbox(ctx context.Context) ([]Record, error)

	// SaveOutbox overwrites the outbox slot.
	SaveOutbox(ctx context.Context, records []Record) error
}

// Codec converts between a record sequence and its serialized form.
type Codec interface {
	// Decode parses data and returns ErrFormat when it is not a sequence of records.
	Decode(data []byte) ([]Record, error)
	// Encode renders records in a human-readable (pretty-printed) form.
	Encode(records []Record) ([]byte, error)
}
