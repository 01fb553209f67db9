// Package status exposes the engine's observable state to the UI layer:
// connectivity, sync progress, pending-mutation count, and last successful
// sync. Purely observational; the only action it offers is force-sync, which
// delegates to the sync manager.
package status

import (
	"context"
	"time"

	"github.com/mesh-intelligence/tillsync/internal/connectivity"
	"github.com/mesh-intelligence/tillsync/pkg/metrics"
	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// Syncer is the slice of the sync manager the observer needs.
type Syncer interface {
	Syncing() bool
	LastSync() time.Time
	SyncNow(ctx context.Context) error
}

// Status is one snapshot of the engine's observable state.
type Status struct {
	Online   bool      `json:"online"`
	Syncing  bool      `json:"syncing"`
	Pending  int       `json:"pending"`
	LastSync time.Time `json:"lastSync,omitzero"`
}

// Observer assembles status snapshots from the probe, the syncer, and the
// queue.
type Observer struct {
	probe  connectivity.Probe
	syncer Syncer
	store  types.Store
}

// New creates an Observer.
func New(probe connectivity.Probe, syncer Syncer, store types.Store) *Observer {
	return &Observer{probe: probe, syncer: syncer, store: store}
}

// Snapshot reads the current state. The pending count is read fresh from
// the queue on every call.
func (o *Observer) Snapshot(ctx context.Context) (Status, error) {
	st := Status{
		Online:   o.probe.Online(),
		Syncing:  o.syncer.Syncing(),
		LastSync: o.syncer.LastSync(),
	}

	q, err := o.store.Queue()
	if err != nil {
		return st, err
	}
	pending, err := q.Len(ctx)
	if err != nil {
		return st, err
	}
	st.Pending = pending
	metrics.QueuePending.Set(float64(pending))

	return st, nil
}

// ForceSync starts a drain immediately. A drain already in progress, or an
// offline device, makes this a no-op.
func (o *Observer) ForceSync(ctx context.Context) error {
	return o.syncer.SyncNow(ctx)
}
