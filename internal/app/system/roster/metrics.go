package roster

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts roster operations by outcome. A nil *Metrics is valid and
// records nothing, which keeps tests free of registry plumbing.
type Metrics struct {
	ops       *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics creates the roster collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtside",
			Subsystem: "roster",
			Name:      "operations_total",
			Help:      "Roster operations by operation and result code.",
		}, []string{"op", "result"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtside",
			Subsystem: "roster",
			Name:      "version_conflicts_total",
			Help:      "Conditional writes rejected because the meetup changed underneath.",
		}, []string{"op"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courtside",
			Subsystem: "roster",
			Name:      "operation_duration_seconds",
			Help:      "Wall time of roster operations including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(m.ops, m.conflicts, m.duration)
	return m
}

func (m *Metrics) observe(op string, err error, noop bool, took time.Duration) {
	if m == nil {
		return
	}
	result := Code(err)
	if err == nil && noop {
		result = "noop"
	}
	m.ops.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(took.Seconds())
}

func (m *Metrics) conflict(op string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(op).Inc()
}
