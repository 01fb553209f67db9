package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// queue implements types.Queue over the sync_queue table. Sequence numbers
// come from the AUTOINCREMENT primary key, so they are monotonic even across
// clears.
type queue struct {
	store *Store
}

// Enqueue appends an operation and returns its assigned sequence.
func (q *queue) Enqueue(ctx context.Context, op types.QueuedOperation) (int64, error) {
	payload, err := json.Marshal(op.Payload)
	if err != nil {
		return 0, types.NewStorageError("encode queue payload", err)
	}

	enqueuedAt := op.EnqueuedAt
	if enqueuedAt.IsZero() {
		enqueuedAt = time.Now().UTC()
	}

	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	if !q.store.opened {
		return 0, types.ErrStoreClosed
	}

	res, err := q.store.db.ExecContext(ctx,
		`INSERT INTO sync_queue (kind, collection, payload, enqueued_at)
         VALUES (?, ?, ?, ?)`,
		op.Kind, op.Collection, string(payload), enqueuedAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, types.NewStorageError("enqueue", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, types.NewStorageError("enqueue", err)
	}
	return seq, nil
}

// All returns every queued operation in ascending sequence order.
func (q *queue) All(ctx context.Context) ([]types.QueuedOperation, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()
	if !q.store.opened {
		return nil, types.ErrStoreClosed
	}

	rows, err := q.store.db.QueryContext(ctx,
		`SELECT seq, kind, collection, payload, enqueued_at
         FROM sync_queue ORDER BY seq ASC`)
	if err != nil {
		return nil, types.NewStorageError("read queue", err)
	}
	defer rows.Close()

	var ops []types.QueuedOperation
	for rows.Next() {
		var (
			op         types.QueuedOperation
			payload    string
			enqueuedAt string
		)
		if err := rows.Scan(&op.Sequence, &op.Kind, &op.Collection, &payload, &enqueuedAt); err != nil {
			return nil, types.NewStorageError("scan queue", err)
		}
		if err := json.Unmarshal([]byte(payload), &op.Payload); err != nil {
			return nil, types.NewStorageError("decode queue payload", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, enqueuedAt); err == nil {
			op.EnqueuedAt = ts
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStorageError("scan queue", err)
	}
	return ops, nil
}

// RemoveThrough deletes every operation with sequence <= seq.
func (q *queue) RemoveThrough(ctx context.Context, seq int64) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	if !q.store.opened {
		return types.ErrStoreClosed
	}

	_, err := q.store.db.ExecContext(ctx,
		"DELETE FROM sync_queue WHERE seq <= ?", seq)
	if err != nil {
		return types.NewStorageError("remove queue prefix", err)
	}
	return nil
}

// Clear removes every queued operation in one statement.
func (q *queue) Clear(ctx context.Context) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	if !q.store.opened {
		return types.ErrStoreClosed
	}

	_, err := q.store.db.ExecContext(ctx, "DELETE FROM sync_queue")
	if err != nil {
		return types.NewStorageError("clear queue", err)
	}
	return nil
}

// Len returns the number of queued operations.
func (q *queue) Len(ctx context.Context) (int, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()
	if !q.store.opened {
		return 0, types.ErrStoreClosed
	}

	var n int
	err := q.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sync_queue").Scan(&n)
	if err != nil {
		return 0, types.NewStorageError("count queue", err)
	}
	return n, nil
}
