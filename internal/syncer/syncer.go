// Package syncer drains the durable sync queue against the remote service
// whenever connectivity allows, then pulls authoritative reference state.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mesh-intelligence/tillsync/internal/connectivity"
	"github.com/mesh-intelligence/tillsync/pkg/metrics"
	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// Remote is the slice of the remote service the syncer needs: the three
// replay verbs plus listings for the reconciliation pull.
type Remote interface {
	List(ctx context.Context, collection string) ([]types.Document, error)
	Create(ctx context.Context, collection string, doc types.Document) (types.Document, error)
	Update(ctx context.Context, collection, id string, doc types.Document) (types.Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// pullCollections are the reference collections fetched after a successful
// drain.
var pullCollections = []string{
	types.ProductsCollection,
	types.CategoriesCollection,
}

// Syncer replays queued mutations in FIFO order. One drain runs at a time:
// the in-progress flag is checked-and-set atomically, so concurrent triggers
// coalesce into a no-op. Failures abort the drain and leave the queue
// retryable; the remote service is expected to treat resubmission of an
// operation with the same id as an overwrite, not a duplicate.
type Syncer struct {
	store    types.Store
	remote   Remote
	probe    connectivity.Probe
	interval time.Duration
	clock    func() time.Time
	logger   *slog.Logger

	inProgress atomic.Bool
	kick       chan struct{}
	events     chan types.SyncEvent

	mu       sync.Mutex
	lastSync time.Time
}

// New creates a Syncer. interval is the wall-clock period between
// opportunistic drains while online.
func New(store types.Store, remote Remote, probe connectivity.Probe, interval time.Duration, logger *slog.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		store:    store,
		remote:   remote,
		probe:    probe,
		interval: interval,
		clock:    time.Now,
		logger:   logger,
		kick:     make(chan struct{}, 1),
		events:   make(chan types.SyncEvent, 32),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures optional Syncer dependencies.
type Option func(*Syncer)

// WithClock injects a clock for deterministic timestamps in tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Syncer) { s.clock = clock }
}

// Events returns the typed event stream. Events are sent non-blocking; slow
// consumers miss events rather than stalling a drain.
func (s *Syncer) Events() <-chan types.SyncEvent {
	return s.events
}

// Syncing reports whether a drain is currently running.
func (s *Syncer) Syncing() bool {
	return s.inProgress.Load()
}

// LastSync returns the completion time of the last fully successful drain,
// or the zero time if none has succeeded yet.
func (s *Syncer) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// Kick requests an opportunistic drain without blocking. Used by the
// gateway right after it queues a mutation while the device reports online.
func (s *Syncer) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run drains on three triggers until ctx is cancelled: the periodic
// interval, offline-to-online transitions, and explicit kicks.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.attempt(ctx)
		case online := <-s.probe.Changes():
			if online {
				metrics.Online.Set(1)
				s.attempt(ctx)
			} else {
				metrics.Online.Set(0)
			}
		case <-s.kick:
			s.attempt(ctx)
		}
	}
}

// attempt runs SyncNow and logs the outcome; trigger paths never propagate
// drain failures.
func (s *Syncer) attempt(ctx context.Context) {
	if err := s.SyncNow(ctx); err != nil {
		s.logger.Warn("sync attempt failed", "error", err)
	}
}

// SyncNow runs one drain immediately. Returns nil without doing anything
// when the device is offline or a drain is already in progress.
func (s *Syncer) SyncNow(ctx context.Context) error {
	if !s.probe.Online() {
		return nil
	}
	if !s.inProgress.CompareAndSwap(false, true) {
		return nil
	}
	defer s.inProgress.Store(false)

	return s.drain(ctx)
}

// drain replays the whole queue in enqueue order, removes the replayed
// entries, and pulls reference state. The first failed replay aborts:
// already-replayed entries are removed, everything from the failure point
// onward stays queued for the next trigger. Removal is bounded to the
// replayed prefix on every path, so an operation enqueued concurrently with
// the drain stays queued until it is replayed itself.
func (s *Syncer) drain(ctx context.Context) error {
	start := s.clock()

	q, err := s.store.Queue()
	if err != nil {
		return err
	}
	ops, err := q.All(ctx)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		return s.pull(ctx)
	}

	s.logger.Info("draining sync queue", "pending", len(ops))

	var lastReplayed int64
	for i, op := range ops {
		if err := s.replay(ctx, op); err != nil {
			metrics.OperationsReplayed.WithLabelValues(op.Kind, op.Collection, "error").Inc()
			metrics.Drains.WithLabelValues("aborted").Inc()
			s.logger.Error("replay failed, aborting drain",
				"seq", op.Sequence, "kind", op.Kind, "collection", op.Collection, "error", err)

			if i > 0 {
				if rmErr := q.RemoveThrough(ctx, lastReplayed); rmErr != nil {
					s.logger.Error("failed to trim replayed prefix", "error", rmErr)
				}
			}
			s.refreshQueueGauge(ctx, q)
			s.emit(types.DrainAborted{Sequence: op.Sequence, Err: err})
			return fmt.Errorf("replay seq %d: %w", op.Sequence, err)
		}

		lastReplayed = op.Sequence
		metrics.OperationsReplayed.WithLabelValues(op.Kind, op.Collection, "sent").Inc()
		s.emit(types.EntitySynced{Collection: op.Collection, ID: op.Payload.ID(), Kind: op.Kind})
	}

	if err := q.RemoveThrough(ctx, lastReplayed); err != nil {
		return err
	}
	s.refreshQueueGauge(ctx, q)

	s.emit(types.QueueDrained{Count: len(ops)})
	s.logger.Info("sync queue drained", "count", len(ops),
		"duration_ms", s.clock().Sub(start).Milliseconds())

	if err := s.pull(ctx); err != nil {
		metrics.Drains.WithLabelValues("pull_failed").Inc()
		return err
	}
	metrics.Drains.WithLabelValues("success").Inc()
	metrics.DrainDuration.Observe(s.clock().Sub(start).Seconds())
	return nil
}

// replay submits one queued operation with the same verb semantics the
// gateway would have used online, mirroring any echoed entity locally.
func (s *Syncer) replay(ctx context.Context, op types.QueuedOperation) error {
	switch op.Kind {
	case types.OpCreate:
		doc, err := s.remote.Create(ctx, op.Collection, op.Payload)
		if err != nil {
			return err
		}
		return s.mirror(ctx, op.Collection, doc)
	case types.OpUpdate:
		doc, err := s.remote.Update(ctx, op.Collection, op.Payload.ID(), op.Payload)
		if err != nil {
			return err
		}
		return s.mirror(ctx, op.Collection, doc)
	case types.OpDelete:
		return s.remote.Delete(ctx, op.Collection, op.Payload.ID())
	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

// pull fetches the authoritative listing of each reference collection and
// upserts every record locally. Remote wins unconditionally; records absent
// from the pull are not pruned.
func (s *Syncer) pull(ctx context.Context) error {
	for _, name := range pullCollections {
		docs, err := s.remote.List(ctx, name)
		if err != nil {
			return fmt.Errorf("pull %s: %w", name, err)
		}
		col, err := s.store.Collection(name)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := col.Put(ctx, doc); err != nil {
				return err
			}
		}
		s.logger.Debug("reconciled collection", "collection", name, "count", len(docs))
	}

	s.mu.Lock()
	s.lastSync = s.clock()
	s.mu.Unlock()
	return nil
}

// mirror upserts a remote echo into the local store. Echoes without an id
// are ignored.
func (s *Syncer) mirror(ctx context.Context, collection string, doc types.Document) error {
	if doc == nil || doc.ID() == "" {
		return nil
	}
	col, err := s.store.Collection(collection)
	if err != nil {
		return err
	}
	return col.Put(ctx, doc)
}

func (s *Syncer) refreshQueueGauge(ctx context.Context, q types.Queue) {
	if n, err := q.Len(ctx); err == nil {
		metrics.QueuePending.Set(float64(n))
	}
}

// emit sends an event without blocking.
func (s *Syncer) emit(ev types.SyncEvent) {
	select {
	case s.events <- ev:
	default:
	}
}
