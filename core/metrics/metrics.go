package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for the sync engine and the event intake
var (
	SyncPassesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freight_sync_passes_total",
			Help: "Total number of sync passes by outcome",
		},
		[]string{"outcome"},
	)

	SyncRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freight_sync_records_total",
			Help: "Total number of records handled by a sync pass, by stage and result",
		},
		[]string{"stage", "result"},
	)

	SyncPassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "freight_sync_pass_duration_seconds",
			Help:    "Duration of sync passes",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freight_events_total",
			Help: "Total number of tracking events handled, by source and result",
		},
		[]string{"source", "result"},
	)

	TrackingPointsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "freight_tracking_points_total",
			Help: "Total number of live tracking points received",
		},
	)
)

var registerOnce sync.Once

// Register registers all Prometheus metrics with the default registry.
// Calling it more than once is a no-op.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(SyncPassesTotal)
		prometheus.MustRegister(SyncRecordsTotal)
		prometheus.MustRegister(SyncPassDuration)
		prometheus.MustRegister(EventsTotal)
		prometheus.MustRegister(TrackingPointsTotal)
	})
}
