package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var namespace = "shopmirror"
var subsystem = "shopstore"

var (
	// StartupTime stores how long the startup took (in seconds)
	StartupTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "startup_seconds",
			Help:      "Seconds taken by the startup",
		},
	)

	// HTTPRequestDuration stores the processing time for every API request
	HTTPRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request processing time for every request",
	})

	// LedgerPendingOps stores the number of operations awaiting replication
	LedgerPendingOps = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "ledger_pending_operations",
		Help:      "Number of ledger operations not yet applied to the secondary store",
	})

	// DrainCycleDuration stores the processing time of each drain cycle
	DrainCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "drain_cycle_duration_seconds",
		Help:      "Time taken by each ledger drain cycle",
	})

	// DrainAppliedTotal stores the number of operations confirmed by the
	// secondary store, partitioned by kind and entity
	DrainAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "drain_applied_operations_total",
		Help:      "Number of ledger operations applied to the secondary store",
	}, []string{"kind", "entity"})

	// DrainFailedTotal stores the number of failed replication attempts
	DrainFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "drain_failed_operations_total",
		Help:      "Number of replication attempts rejected or failed by the secondary store",
	})

	// SnapshotBytes stores the size of the last full snapshot write
	SnapshotBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "snapshot_bytes",
		Help:      "Total bytes written by the last whole-state snapshot",
	})
)
