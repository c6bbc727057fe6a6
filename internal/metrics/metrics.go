package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider metrics
var (
	// ProviderRequestsTotal tracks outbound provider calls
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_provider_requests_total",
			Help: "Total number of weather and geocoding provider requests",
		},
		[]string{"provider", "operation", "status"},
	)

	// ProviderRequestDuration tracks the duration of provider calls
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_provider_request_duration_seconds",
			Help:    "Duration of provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)
)

// Orchestration metrics
var (
	// FetchCyclesTotal counts fetch cycles by outcome (complete, partial, stale)
	FetchCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetch_cycles_total",
			Help: "Total number of fetch cycles by outcome",
		},
		[]string{"outcome"},
	)

	// FetchCycleDuration tracks how long a join-all fetch cycle takes
	FetchCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weather_fetch_cycle_duration_seconds",
			Help:    "Duration of fetch cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Loading is 1 while the latest fetch cycle is outstanding
	Loading = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weather_loading",
			Help: "1 while the latest fetch cycle is outstanding",
		},
	)

	// TimelineEntries is the size of the last timeline built per widget
	TimelineEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weather_timeline_entries",
			Help: "Number of entries in the last timeline built for a widget",
		},
		[]string{"widget"},
	)
)

// RecordProviderCall records one provider request
func RecordProviderCall(provider, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ProviderRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordFetchCycle records a finished fetch cycle
func RecordFetchCycle(outcome string, duration time.Duration) {
	FetchCyclesTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		FetchCycleDuration.Observe(duration.Seconds())
	}
}

// SetLoading mirrors the orchestrator loading flag
func SetLoading(loading bool) {
	if loading {
		Loading.Set(1)
		return
	}
	Loading.Set(0)
}

// SetTimelineEntries records the size of a widget timeline
func SetTimelineEntries(widget string, n int) {
	TimelineEntries.WithLabelValues(widget).Set(float64(n))
}
