package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Event metrics
	EventsProcessed    *prometheus.CounterVec
	EventErrors        *prometheus.CounterVec
	ProcessingDuration *prometheus.HistogramVec

	// Ledger metrics
	SnapshotsCreated  *prometheus.CounterVec
	AnomaliesRecorded prometheus.Counter

	// Indexer metrics
	LastIndexedBlock prometheus.Gauge
	ChainHead        prometheus.Gauge
	LogsFetched      prometheus.Counter
	BatchDuration    prometheus.Histogram

	// Reconciliation metrics
	ReconcileRuns     prometheus.Counter
	ReconcileFailures prometheus.Counter
	ConservationDrift prometheus.Gauge

	// Database metrics
	DBRetries *prometheus.CounterVec

	// RPC metrics
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	// Redis metrics
	BlockTimeCache *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Event metrics
		EventsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billingledger_events_processed_total",
				Help: "Total number of contract events applied to the ledger",
			},
			[]string{"kind"},
		),
		EventErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billingledger_event_errors_total",
				Help: "Total number of events that failed to apply",
			},
			[]string{"kind"},
		),
		ProcessingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "billingledger_event_duration_seconds",
				Help:    "Duration of applying one event, retries included",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"kind"},
		),

		// Ledger metrics
		SnapshotsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billingledger_daily_snapshots_created_total",
				Help: "Total number of daily snapshots created",
			},
			[]string{"scope"},
		),
		AnomaliesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billingledger_anomalies_recorded_total",
			Help: "Total number of rejected removals recorded",
		}),

		// Indexer metrics
		LastIndexedBlock: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "billingledger_last_indexed_block",
			Help: "Last block whose logs were fully processed",
		}),
		ChainHead: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "billingledger_chain_head_block",
			Help: "Latest block number reported by the RPC node",
		}),
		LogsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billingledger_logs_fetched_total",
			Help: "Total number of contract logs fetched",
		}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "billingledger_batch_duration_seconds",
			Help:    "Duration of one indexer batch",
			Buckets: prometheus.DefBuckets,
		}),

		// Reconciliation metrics
		ReconcileRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billingledger_reconcile_runs_total",
			Help: "Total number of conservation checks",
		}),
		ReconcileFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billingledger_reconcile_failures_total",
			Help: "Total number of conservation checks that found drift or failed",
		}),
		ConservationDrift: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "billingledger_conservation_drift",
			Help: "Global balance minus the sum of account balances at the last check",
		}),

		// Database metrics
		DBRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billingledger_db_retries_total",
				Help: "Total number of retried database transactions",
			},
			[]string{"code"},
		),

		// RPC metrics
		RPCRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billingledger_rpc_requests_total",
				Help: "Total number of RPC requests",
			},
			[]string{"method", "status"},
		),
		RPCDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "billingledger_rpc_duration_seconds",
				Help:    "Duration of RPC requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),

		// Redis metrics
		BlockTimeCache: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billingledger_block_time_cache_total",
				Help: "Block timestamp cache lookups",
			},
			[]string{"result"},
		),
	}
}
