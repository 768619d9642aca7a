package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus collectors
type Metrics struct {
	JobsProcessed *prometheus.CounterVec
	QueueDepth    prometheus.Gauge
	JobDuration   prometheus.Histogram
	HTTPRequests  *prometheus.CounterVec
}

// New creates and registers the collectors
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JobsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracesim",
			Name:      "jobs_processed_total",
			Help:      "Number of simulation jobs processed by the engine.",
		}, []string{"status"}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "tracesim",
			Name:      "queue_depth",
			Help:      "Number of jobs waiting in the queue.",
		}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tracesim",
			Name:      "job_duration_seconds",
			Help:      "Time spent processing one simulation job.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracesim",
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests handled.",
		}, []string{"code"}),
	}
}

// Job processing statuses
const (
	StatusOK    = "ok"
	StatusError = "error"
)
