package types

import "time"

// Operation kinds for queued mutations.
const (
	OpCreate = "CREATE"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// validOpKinds is the set of recognized operation kinds.
var validOpKinds = map[string]bool{
	OpCreate: true,
	OpUpdate: true,
	OpDelete: true,
}

// ValidOpKind reports whether kind is a recognized operation kind.
func ValidOpKind(kind string) bool {
	return validOpKinds[kind]
}

// QueuedOperation is one pending mutation in the sync queue. Operations for
// the same entity must be replayed in Sequence order; a DELETE must never be
// replayed before the CREATE it follows. Queued operations are never mutated
// in place: they are appended by the gateway and discarded by the syncer once
// the replay is confirmed.
type QueuedOperation struct {
	Sequence   int64     `json:"sequence"`   // Assigned by the store, monotonic.
	Kind       string    `json:"kind"`       // OpCreate, OpUpdate, or OpDelete.
	Collection string    `json:"collection"` // Target collection name.
	Payload    Document  `json:"payload"`    // Full entity for CREATE/UPDATE, at least {id} for DELETE.
	EnqueuedAt time.Time `json:"enqueuedAt"` // Timestamp of enqueue.
}
