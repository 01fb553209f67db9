package types

// SyncEvent is a discrete, typed state transition emitted by the sync
// manager. Observers subscribe to these instead of string-keyed callbacks.
type SyncEvent interface {
	syncEvent()
}

// QueueDrained is emitted after a drain replays every queued operation and
// clears the queue.
type QueueDrained struct {
	Count int // Number of operations replayed.
}

// DrainAborted is emitted when a replay fails and the drain stops. The queue
// retains the failed operation and everything after it.
type DrainAborted struct {
	Sequence int64 // Sequence of the operation that failed.
	Err      error
}

// EntitySynced is emitted after one queued operation replays successfully.
type EntitySynced struct {
	Collection string
	ID         string
	Kind       string
}

func (QueueDrained) syncEvent() {}
func (DrainAborted) syncEvent() {}
func (EntitySynced) syncEvent() {}
