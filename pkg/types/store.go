package types

import (
	"context"
	"errors"
	"fmt"
)

// Store provides durable, collection-keyed storage plus the sync queue.
// Callers open a store, access collections by name, and close when done.
type Store interface {
	// Open initializes the underlying storage. Idempotent: opening an
	// already-open store succeeds without effect. Collection and Queue
	// open lazily, so an explicit Open is optional.
	Open() error

	// Close releases storage resources. Idempotent: multiple calls succeed.
	Close() error

	// Collection returns the Collection for the given name.
	// Returns ErrCollectionNotFound if the name is not a standard collection.
	Collection(name string) (Collection, error)

	// Queue returns the durable sync queue.
	Queue() (Queue, error)
}

// Collection provides keyed CRUD for a single entity collection. All
// operations on one collection are linearizable with respect to each other.
type Collection interface {
	// Get retrieves the document with the given ID.
	// Returns ErrNotFound if no document exists with that ID.
	Get(ctx context.Context, id string) (Document, error)

	// GetAll returns every document in the collection.
	GetAll(ctx context.Context) ([]Document, error)

	// Put creates or updates a document keyed by its "id" field.
	// Returns ErrInvalidID if the document has no id.
	Put(ctx context.Context, doc Document) error

	// Delete removes the document with the given ID. Deleting an absent
	// ID succeeds: removal is the desired end state either way.
	Delete(ctx context.Context, id string) error

	// FindByBarcode returns documents whose "barcode" field equals code,
	// served from the collection's secondary index.
	FindByBarcode(ctx context.Context, code string) ([]Document, error)
}

// Queue is the durable FIFO log of mutations pending remote replay.
type Queue interface {
	// Enqueue appends an operation, assigning the next monotonic sequence
	// number. Returns the assigned sequence.
	Enqueue(ctx context.Context, op QueuedOperation) (int64, error)

	// All returns every queued operation in ascending sequence order.
	All(ctx context.Context) ([]QueuedOperation, error)

	// RemoveThrough deletes every operation with sequence <= seq. Used when
	// a drain aborts partway so the queue keeps exactly the not-yet-replayed
	// suffix.
	RemoveThrough(ctx context.Context, seq int64) error

	// Clear removes every queued operation.
	Clear(ctx context.Context) error

	// Len returns the number of queued operations.
	Len(ctx context.Context) (int, error)
}

// Store lifecycle and operation errors.
var (
	ErrStoreClosed        = errors.New("store is closed")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidID          = errors.New("invalid entity ID")
)

// StorageError wraps a failure of the underlying storage engine. Storage
// failures are fatal to the calling operation: a write whose durability
// cannot be confirmed must not be treated as queued.
type StorageError struct {
	Op  string // The failed operation, e.g. "put products".
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError for operation op.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
