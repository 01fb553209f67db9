// Package metrics exposes Prometheus instrumentation for the sync engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsReplayed tracks queued mutations replayed against the
	// remote service, labeled by kind, collection, and outcome.
	OperationsReplayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tillsync_operations_replayed_total",
		Help: "Total number of queued operations replayed against the remote service",
	}, []string{"kind", "collection", "status"})

	// Drains counts drain attempts by result: success (replay and pull both
	// completed), aborted (a replay failed), or pull_failed (replay completed
	// but the reconciliation pull did not).
	Drains = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tillsync_drains_total",
		Help: "Total number of sync queue drain attempts",
	}, []string{"result"})

	// DrainDuration measures how long a full drain takes, including the
	// reconciliation pull.
	DrainDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tillsync_drain_duration_seconds",
		Help:    "Duration of sync queue drains in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// QueuePending tracks the current sync queue length. This is the
	// primary indicator of offline backlog.
	QueuePending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tillsync_queue_pending",
		Help: "Current number of mutations pending remote replay",
	})

	// Online provides a binary 0/1 signal for remote reachability.
	Online = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tillsync_online",
		Help: "Current connectivity state (1 for online, 0 for offline)",
	})
)
