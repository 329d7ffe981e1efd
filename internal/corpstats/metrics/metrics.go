package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for roster reconciliation.
type Metrics struct {
	// Reconciliation results by outcome and removal reason
	SyncOutcome *prometheus.CounterVec

	// Full reconciliation latency, lock wait excluded
	SyncLatency prometheus.Histogram

	// Roster churn applied by committed reconciliations
	MembersAdded   prometheus.Counter
	MembersRemoved prometheus.Counter

	// Owner notifications that could not be delivered
	NotificationsFailed prometheus.Counter

	// Snapshots currently stored, refreshed after SyncAll
	Snapshots prometheus.Gauge
}

// New creates a new Metrics instance with all reconciliation metrics registered.
func New() *Metrics {
	return &Metrics{
		SyncOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "corpstats_sync_outcomes_total",
			Help: "Total reconciliation outcomes by result and removal reason",
		}, []string{"outcome", "reason"}), // outcome: "updated", "removed", "error"

		SyncLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "corpstats_sync_duration_seconds",
			Help:    "Duration of one snapshot reconciliation including upstream fetches",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		MembersAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corpstats_members_added_total",
			Help: "Total roster rows inserted by reconciliation",
		}),

		MembersRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corpstats_members_removed_total",
			Help: "Total roster rows deleted by reconciliation",
		}),

		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corpstats_notifications_failed_total",
			Help: "Total owner notifications that failed to send",
		}),

		Snapshots: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "corpstats_snapshots",
			Help: "Number of stored corporation snapshots",
		}),
	}
}

// IncrementOutcome records a reconciliation outcome.
func (m *Metrics) IncrementOutcome(outcome, reason string) {
	if m != nil {
		m.SyncOutcome.WithLabelValues(outcome, reason).Inc()
	}
}

// ObserveSyncLatency records the duration of one reconciliation.
func (m *Metrics) ObserveSyncLatency(d time.Duration) {
	if m != nil {
		m.SyncLatency.Observe(d.Seconds())
	}
}

// AddChurn records members inserted and deleted by one commit.
func (m *Metrics) AddChurn(added, removed int) {
	if m != nil {
		m.MembersAdded.Add(float64(added))
		m.MembersRemoved.Add(float64(removed))
	}
}

// IncrementNotificationsFailed records a notification delivery failure.
func (m *Metrics) IncrementNotificationsFailed() {
	if m != nil {
		m.NotificationsFailed.Inc()
	}
}

// SetSnapshots records the number of stored snapshots.
func (m *Metrics) SetSnapshots(n int) {
	if m != nil {
		m.Snapshots.Set(float64(n))
	}
}
