// Package connectivity reports whether the remote service is reachable.
// The probe is an injected capability so tests can simulate transitions
// deterministically instead of depending on a real network stack.
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Probe exposes the current online state and a channel of transitions.
type Probe interface {
	// Online reports the current connectivity state.
	Online() bool

	// Changes delivers the new state after each offline/online transition.
	// The channel carries only transitions, never repeats of the current
	// state.
	Changes() <-chan bool
}

// Pinger probes a health URL on a fixed interval and reports reachability.
// A successful HEAD request (any status) counts as online; a transport
// error or timeout counts as offline.
type Pinger struct {
	url      string
	interval time.Duration
	http     *http.Client
	logger   *slog.Logger

	online  atomic.Bool
	mu      sync.Mutex
	changes chan bool
}

// NewPinger creates a Pinger for url checked every interval. The initial
// state is online; the first failed check flips it.
func NewPinger(url string, interval time.Duration, logger *slog.Logger) *Pinger {
	p := &Pinger{
		url:      url,
		interval: interval,
		http:     &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
		changes:  make(chan bool, 8),
	}
	p.online.Store(true)
	return p
}

// Online reports the last observed state.
func (p *Pinger) Online() bool {
	return p.online.Load()
}

// Changes returns the transition channel.
func (p *Pinger) Changes() <-chan bool {
	return p.changes
}

// Run checks the health URL until ctx is cancelled.
func (p *Pinger) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.check(ctx)
		}
	}
}

func (p *Pinger) check(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.set(false)
		return
	}

	resp, err := p.http.Do(req)
	if err != nil {
		p.set(false)
		return
	}
	resp.Body.Close()
	p.set(true)
}

// set records the new state and broadcasts a transition if it changed.
// The send never blocks; when the channel is full the transition is dropped.
func (p *Pinger) set(online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.online.Swap(online) == online {
		return
	}
	if p.logger != nil {
		p.logger.Info("connectivity changed", "online", online)
	}
	select {
	case p.changes <- online:
	default:
	}
}

// Manual is a Probe driven by explicit SetOnline calls, for tests and for
// running the engine in forced-offline mode.
type Manual struct {
	mu      sync.Mutex
	online  bool
	changes chan bool
}

// NewManual creates a Manual probe with the given initial state.
func NewManual(online bool) *Manual {
	return &Manual{
		online:  online,
		changes: make(chan bool, 8),
	}
}

// Online reports the current state.
func (m *Manual) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Changes returns the transition channel.
func (m *Manual) Changes() <-chan bool {
	return m.changes
}

// SetOnline sets the state and broadcasts a transition if it changed.
func (m *Manual) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online == online {
		return
	}
	m.online = online
	select {
	case m.changes <- online:
	default:
	}
}
