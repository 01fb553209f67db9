// Package tillsync wires the offline synchronization engine together: the
// durable store, the remote client, the connectivity probe, the gateway, the
// sync manager, and the status observer. The App is the composition root;
// every dependency is constructed explicitly so tests can substitute fakes.
package tillsync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/tillsync/internal/connectivity"
	"github.com/mesh-intelligence/tillsync/internal/gateway"
	"github.com/mesh-intelligence/tillsync/internal/remote"
	"github.com/mesh-intelligence/tillsync/internal/sqlite"
	"github.com/mesh-intelligence/tillsync/internal/status"
	"github.com/mesh-intelligence/tillsync/internal/syncer"
	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// App owns one fully wired engine instance.
type App struct {
	Config   types.Config
	Store    types.Store
	Remote   *remote.Client
	Probe    *connectivity.Pinger
	Gateway  *gateway.Gateway
	Syncer   *syncer.Syncer
	Observer *status.Observer

	logger *slog.Logger
}

// New builds an App from config. The store opens lazily; Run starts the
// probe and the sync loop.
func New(cfg types.Config, logger *slog.Logger) (*App, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := sqlite.New(cfg)
	client := remote.NewClient(cfg.RemoteURL, cfg.AuthToken, cfg.RemoteTimeout)
	probe := connectivity.NewPinger(cfg.ProbeURL, cfg.ProbeInterval, logger)

	sync := syncer.New(store, client, probe, cfg.SyncInterval, logger)
	gw := gateway.New(store, client, probe, logger,
		gateway.WithEnqueueHook(sync.Kick))
	observer := status.New(probe, sync, store)

	return &App{
		Config:   cfg,
		Store:    store,
		Remote:   client,
		Probe:    probe,
		Gateway:  gw,
		Syncer:   sync,
		Observer: observer,
		logger:   logger,
	}, nil
}

// Run starts the connectivity probe and the sync loop, blocking until ctx
// is cancelled.
func (a *App) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.Probe.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.Syncer.Run(ctx)
	}()
	wg.Wait()
}

// Logger returns the logger the App was built with.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
