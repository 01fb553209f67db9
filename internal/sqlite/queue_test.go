package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/mesh-intelligence/tillsync/pkg/types"
)

func testQueue(t *testing.T) types.Queue {
	t.Helper()
	s := newTestStore(t)
	q, err := s.Queue()
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	return q
}

func enqueueN(t *testing.T, q types.Queue, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	var seqs []int64
	for i := 0; i < n; i++ {
		seq, err := q.Enqueue(ctx, types.QueuedOperation{
			Kind:       types.OpCreate,
			Collection: types.ProductsCollection,
			Payload:    types.Document{"id": string(rune('a' + i))},
		})
		if err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}
	return seqs
}

func TestEnqueueAssignsMonotonicSequences(t *testing.T) {
	q := testQueue(t)
	seqs := enqueueN(t, q, 5)

	for i := 1; i < len(seqs); i++ {
		if seqs[i] <= seqs[i-1] {
			t.Fatalf("sequences not monotonic: %v", seqs)
		}
	}
}

func TestAllReturnsFIFOOrder(t *testing.T) {
	ctx := context.Background()
	q := testQueue(t)

	kinds := []string{types.OpCreate, types.OpUpdate, types.OpDelete}
	for _, kind := range kinds {
		if _, err := q.Enqueue(ctx, types.QueuedOperation{
			Kind:       kind,
			Collection: types.OrdersCollection,
			Payload:    types.Document{"id": "o1"},
		}); err != nil {
			t.Fatalf("enqueue %s: %v", kind, err)
		}
	}

	ops, err := q.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("got %d operations, want 3", len(ops))
	}
	for i, kind := range kinds {
		if ops[i].Kind != kind {
			t.Fatalf("position %d: got %s, want %s", i, ops[i].Kind, kind)
		}
	}
	if ops[0].Payload.ID() != "o1" {
		t.Fatalf("payload not preserved: %v", ops[0].Payload)
	}
}

func TestEnqueueStampsTime(t *testing.T) {
	ctx := context.Background()
	q := testQueue(t)

	before := time.Now().UTC().Add(-time.Second)
	if _, err := q.Enqueue(ctx, types.QueuedOperation{
		Kind:       types.OpCreate,
		Collection: types.ProductsCollection,
		Payload:    types.Document{"id": "p1"},
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ops, err := q.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if ops[0].EnqueuedAt.Before(before) {
		t.Fatalf("enqueued_at %v not stamped", ops[0].EnqueuedAt)
	}
}

func TestRemoveThroughKeepsSuffix(t *testing.T) {
	ctx := context.Background()
	q := testQueue(t)
	seqs := enqueueN(t, q, 5)

	// Drop the first three replayed operations; the failed one and
	// everything after it must survive.
	if err := q.RemoveThrough(ctx, seqs[2]); err != nil {
		t.Fatalf("remove through: %v", err)
	}

	ops, err := q.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d operations, want 2", len(ops))
	}
	if ops[0].Sequence != seqs[3] || ops[1].Sequence != seqs[4] {
		t.Fatalf("wrong suffix survived: %+v", ops)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	q := testQueue(t)
	enqueueN(t, q, 3)

	if err := q.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, err := q.Len(ctx)
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d after clear, want 0", n)
	}
}

func TestSequencesSurviveClear(t *testing.T) {
	ctx := context.Background()
	q := testQueue(t)
	first := enqueueN(t, q, 3)
	if err := q.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	second := enqueueN(t, q, 1)
	if second[0] <= first[2] {
		t.Fatalf("sequence %d reused after clear (last was %d)", second[0], first[2])
	}
}

func TestLen(t *testing.T) {
	ctx := context.Background()
	q := testQueue(t)

	n, err := q.Len(ctx)
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 0 {
		t.Fatalf("empty queue: got %d, want 0", n)
	}

	enqueueN(t, q, 4)
	n, err = q.Len(ctx)
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 4 {
		t.Fatalf("got %d, want 4", n)
	}
}
