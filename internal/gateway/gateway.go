// Package gateway routes every data operation either to the remote service
// (online, mirroring results locally) or to the local store plus the sync
// queue (offline). Connectivity failures are absorbed into offline
// semantics; storage failures propagate.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// Methods accepted by Execute.
const (
	MethodRead   = "READ"
	MethodCreate = "CREATE"
	MethodUpdate = "UPDATE"
	MethodDelete = "DELETE"
)

// ErrUnknownMethod is returned by Execute for methods outside the verb set.
var ErrUnknownMethod = errors.New("unknown gateway method")

// Remote is the slice of the remote service the gateway needs.
type Remote interface {
	List(ctx context.Context, collection string) ([]types.Document, error)
	Get(ctx context.Context, collection, id string) (types.Document, error)
	Create(ctx context.Context, collection string, doc types.Document) (types.Document, error)
	Update(ctx context.Context, collection, id string, doc types.Document) (types.Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// Probe reports the device's current connectivity state.
type Probe interface {
	Online() bool
}

// DeletionAck acknowledges a delete.
type DeletionAck struct {
	Success bool `json:"success"`
}

// Result is the union shape returned by Execute: exactly one field is set
// depending on the method and addressing.
type Result struct {
	Document  types.Document   `json:"document,omitempty"`
	Documents []types.Document `json:"documents,omitempty"`
	Ack       *DeletionAck     `json:"ack,omitempty"`
}

// Gateway is the offline-aware request layer. All dependencies are injected;
// the gateway holds no hidden global state.
type Gateway struct {
	store  types.Store
	remote Remote
	probe  Probe
	clock  func() time.Time
	logger *slog.Logger

	// onEnqueue is invoked after a mutation is queued while the device
	// still reports itself online, so the syncer can attempt an immediate
	// drain. May be nil.
	onEnqueue func()

	// mu serializes each local-write-plus-enqueue pair so a concurrent
	// drain never observes one half of an offline mutation.
	mu sync.Mutex
}

// New creates a Gateway. clock may be nil (defaults to time.Now); onEnqueue
// may be nil.
func New(store types.Store, remote Remote, probe Probe, logger *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		store:  store,
		remote: remote,
		probe:  probe,
		clock:  time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Option configures optional Gateway dependencies.
type Option func(*Gateway)

// WithClock injects a clock, for deterministic timestamps in tests.
func WithClock(clock func() time.Time) Option {
	return func(g *Gateway) { g.clock = clock }
}

// WithEnqueueHook injects the callback fired after an enqueue while online.
func WithEnqueueHook(hook func()) Option {
	return func(g *Gateway) { g.onEnqueue = hook }
}

// Execute dispatches one operation by method. For READ, a non-empty id
// returns a single document and an empty id returns the full listing.
func (g *Gateway) Execute(ctx context.Context, collection, method, id string, body types.Document) (Result, error) {
	switch method {
	case MethodRead:
		if id == "" {
			docs, err := g.List(ctx, collection)
			return Result{Documents: docs}, err
		}
		doc, err := g.Get(ctx, collection, id)
		return Result{Document: doc}, err
	case MethodCreate:
		doc, err := g.Create(ctx, collection, body)
		return Result{Document: doc}, err
	case MethodUpdate:
		doc, err := g.Update(ctx, collection, id, body)
		return Result{Document: doc}, err
	case MethodDelete:
		ack, err := g.Delete(ctx, collection, id)
		return Result{Ack: ack}, err
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// List returns every document in a collection: from the remote service when
// online (mirroring each into the local store), from the local store
// otherwise.
func (g *Gateway) List(ctx context.Context, collection string) ([]types.Document, error) {
	if g.probe.Online() {
		docs, err := g.remote.List(ctx, collection)
		if err == nil {
			if err := g.mirrorAll(ctx, collection, docs); err != nil {
				return nil, err
			}
			return docs, nil
		}
		g.logger.Warn("remote list failed, serving local", "collection", collection, "error", err)
	}

	col, err := g.store.Collection(collection)
	if err != nil {
		return nil, err
	}
	return col.GetAll(ctx)
}

// Get returns a single document by ID. Offline absence yields ErrNotFound.
func (g *Gateway) Get(ctx context.Context, collection, id string) (types.Document, error) {
	if g.probe.Online() {
		doc, err := g.remote.Get(ctx, collection, id)
		if err == nil {
			if err := g.mirror(ctx, collection, doc); err != nil {
				return nil, err
			}
			return doc, nil
		}
		g.logger.Warn("remote get failed, serving local", "collection", collection, "id", id, "error", err)
	}

	col, err := g.store.Collection(collection)
	if err != nil {
		return nil, err
	}
	return col.Get(ctx, id)
}

// Create persists a new entity. Offline (or on remote failure) the entity
// gets a synthesized offline id, synced:false, a creation timestamp, and a
// CREATE queue entry.
func (g *Gateway) Create(ctx context.Context, collection string, body types.Document) (types.Document, error) {
	if g.probe.Online() {
		doc, err := g.remote.Create(ctx, collection, body)
		if err == nil {
			if err := g.mirror(ctx, collection, doc); err != nil {
				return nil, err
			}
			return doc, nil
		}
		g.logger.Warn("remote create failed, queueing offline", "collection", collection, "error", err)
	}

	doc := body.Clone()
	if doc == nil {
		doc = types.Document{}
	}
	doc.SetID(g.newOfflineID())
	doc.SetSynced(false)
	doc["createdAt"] = g.clock().UTC().Format(time.RFC3339)

	if err := g.applyAndEnqueue(ctx, collection, types.OpCreate, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update merges body onto the local record (or accepts body as given when
// the record is absent locally), stamps synced:false and an update
// timestamp, and queues an UPDATE.
func (g *Gateway) Update(ctx context.Context, collection, id string, body types.Document) (types.Document, error) {
	if g.probe.Online() {
		doc, err := g.remote.Update(ctx, collection, id, body)
		if err == nil {
			if err := g.mirror(ctx, collection, doc); err != nil {
				return nil, err
			}
			return doc, nil
		}
		g.logger.Warn("remote update failed, queueing offline", "collection", collection, "id", id, "error", err)
	}

	col, err := g.store.Collection(collection)
	if err != nil {
		return nil, err
	}

	existing, err := col.Get(ctx, id)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	merged := existing.Merge(body)
	merged.SetID(id)
	merged.SetSynced(false)
	merged["updatedAt"] = g.clock().UTC().Format(time.RFC3339)

	if err := g.applyAndEnqueue(ctx, collection, types.OpUpdate, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete removes an entity. Offline, the removal is queued as a DELETE
// carrying the id.
func (g *Gateway) Delete(ctx context.Context, collection, id string) (*DeletionAck, error) {
	col, err := g.store.Collection(collection)
	if err != nil {
		return nil, err
	}

	if g.probe.Online() {
		err := g.remote.Delete(ctx, collection, id)
		if err == nil {
			if err := col.Delete(ctx, id); err != nil {
				return nil, err
			}
			return &DeletionAck{Success: true}, nil
		}
		g.logger.Warn("remote delete failed, queueing offline", "collection", collection, "id", id, "error", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := col.Delete(ctx, id); err != nil {
		return nil, err
	}
	if err := g.enqueueLocked(ctx, collection, types.OpDelete, types.Document{"id": id}); err != nil {
		return nil, err
	}
	return &DeletionAck{Success: true}, nil
}

// FindByBarcode looks a product up by scanned code in the local store.
// Point-of-sale lookups stay local: the barcode index is mirrored on every
// pull, and a till cannot block on the network mid-scan.
func (g *Gateway) FindByBarcode(ctx context.Context, code string) ([]types.Document, error) {
	col, err := g.store.Collection(types.ProductsCollection)
	if err != nil {
		return nil, err
	}
	return col.FindByBarcode(ctx, code)
}

// mirror upserts a remote result into the local store so it stays readable
// offline. Storage failures propagate.
func (g *Gateway) mirror(ctx context.Context, collection string, doc types.Document) error {
	if doc == nil || doc.ID() == "" {
		return nil
	}
	col, err := g.store.Collection(collection)
	if err != nil {
		return err
	}
	return col.Put(ctx, doc)
}

// mirrorAll upserts every document from a remote listing.
func (g *Gateway) mirrorAll(ctx context.Context, collection string, docs []types.Document) error {
	col, err := g.store.Collection(collection)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if doc.ID() == "" {
			continue
		}
		if err := col.Put(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// applyAndEnqueue performs the local upsert and the queue append as one
// serialized step.
func (g *Gateway) applyAndEnqueue(ctx context.Context, collection, kind string, doc types.Document) error {
	col, err := g.store.Collection(collection)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := col.Put(ctx, doc); err != nil {
		return err
	}
	return g.enqueueLocked(ctx, collection, kind, doc)
}

// enqueueLocked appends to the sync queue. Caller holds g.mu.
func (g *Gateway) enqueueLocked(ctx context.Context, collection, kind string, payload types.Document) error {
	q, err := g.store.Queue()
	if err != nil {
		return err
	}

	seq, err := q.Enqueue(ctx, types.QueuedOperation{
		Kind:       kind,
		Collection: collection,
		Payload:    payload,
		EnqueuedAt: g.clock().UTC(),
	})
	if err != nil {
		return err
	}

	g.logger.Debug("queued offline mutation", "seq", seq, "kind", kind, "collection", collection)

	// The device may still report itself online when a single remote call
	// failed; let the syncer try to drain right away.
	if g.onEnqueue != nil && g.probe.Online() {
		g.onEnqueue()
	}
	return nil
}

// newOfflineID synthesizes a locally-unique id marked as offline-origin.
func (g *Gateway) newOfflineID() string {
	return fmt.Sprintf("offline_%d_%s", g.clock().UnixMilli(), uuid.NewString()[:8])
}
