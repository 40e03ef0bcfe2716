package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkerMetrics instruments the background job worker.
type WorkerMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	claimed  prometheus.Counter
}

func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	m := &WorkerMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leanchem",
			Subsystem: "worker",
			Name:      "job_duration_seconds",
			Help:      "Time spent processing a job.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leanchem",
			Subsystem: "worker",
			Name:      "job_success_total",
			Help:      "Jobs that completed successfully.",
		}, []string{"job"}),
		failure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leanchem",
			Subsystem: "worker",
			Name:      "job_failure_total",
			Help:      "Jobs that ended in failure.",
		}, []string{"job"}),
		claimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leanchem",
			Subsystem: "worker",
			Name:      "jobs_claimed_total",
			Help:      "Jobs claimed from the queue.",
		}),
	}
	reg.MustRegister(m.duration, m.success, m.failure, m.claimed)
	return m
}

func (m *WorkerMetrics) ObserveDuration(job string, d time.Duration) {
	m.duration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *WorkerMetrics) IncSuccess(job string) {
	m.success.WithLabelValues(job).Inc()
}

func (m *WorkerMetrics) IncFailure(job string) {
	m.failure.WithLabelValues(job).Inc()
}

func (m *WorkerMetrics) IncClaimed() {
	m.claimed.Inc()
}
