// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. Construct
// it once per process; promauto registers against the default registry
// and a second registration panics.
type Metrics struct {
	// Sweep metrics
	SweepsCompleted       *prometheus.CounterVec
	SweepDuration         prometheus.Histogram
	CombinationsEvaluated prometheus.Counter
	CombinationErrors     prometheus.Counter
	ActiveRuns            prometheus.Gauge

	// Result cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Ingest metrics
	GamesIngested         prometheus.Counter
	AlignedPointsIngested prometheus.Counter

	// Push delivery metrics
	ProgressSubscribers prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "hoops_edge_lab"
	}

	return &Metrics{
		SweepsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Total number of finished sweep runs by status",
		}, []string{"status"}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Sweep execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		}),
		CombinationsEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "combinations_evaluated_total",
			Help:      "Total number of combinations evaluated successfully",
		}),
		CombinationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "combination_errors_total",
			Help:      "Total number of combinations omitted due to errors",
		}),
		ActiveRuns: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "active_runs",
			Help:      "Number of sweep runs currently executing",
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "result_cache",
			Name:      "hits_total",
			Help:      "Total number of sweeps served from the result cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "result_cache",
			Name:      "misses_total",
			Help:      "Total number of sweeps computed fresh",
		}),

		GamesIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "games_total",
			Help:      "Total number of games loaded into storage",
		}),
		AlignedPointsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "aligned_points_total",
			Help:      "Total number of aligned points loaded into storage",
		}),

		ProgressSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "progress",
			Name:      "subscribers",
			Help:      "Number of attached progress subscribers",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
