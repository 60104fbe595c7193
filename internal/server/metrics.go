package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/copyleftdev/powell/internal/optimization"
)

// Metrics holds the collectors describing minimization jobs.
type Metrics struct {
	started     prometheus.Counter
	finished    *prometheus.CounterVec
	running     prometheus.Gauge
	sweeps      prometheus.Histogram
	evaluations prometheus.Histogram
	duration    *prometheus.HistogramVec
}

// NewMetrics registers the minimization collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		started: f.NewCounter(prometheus.CounterOpts{
			Namespace: "powell",
			Name:      "minimizations_started_total",
			Help:      "Minimization jobs accepted.",
		}),
		finished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "powell",
			Name:      "minimizations_finished_total",
			Help:      "Minimization jobs that reached a terminal state, by outcome.",
		}, []string{"outcome"}),
		running: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "powell",
			Name:      "minimizations_running",
			Help:      "Minimization jobs currently holding a worker.",
		}),
		sweeps: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "powell",
			Name:      "minimization_sweeps",
			Help:      "Sweeps over the direction set per finished minimization.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		}),
		evaluations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "powell",
			Name:      "minimization_evaluations",
			Help:      "Objective evaluations per finished minimization.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 16),
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "powell",
			Name:      "minimization_duration_seconds",
			Help:      "Wall time of minimization jobs, by objective.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"objective"}),
	}
}

func (m *Metrics) observeResult(objective string, res *optimization.Result, seconds float64) {
	m.sweeps.Observe(float64(res.Iterations))
	m.evaluations.Observe(float64(res.Evaluations))
	m.duration.WithLabelValues(objective).Observe(seconds)
	m.finished.WithLabelValues(res.Status.String()).Inc()
}
