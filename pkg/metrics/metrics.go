package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Completion cache lookups, labeled by result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_cache_lookups_total",
			Help: "Completion cache lookups by result",
		},
		[]string{"result"}, // result: hit, miss, error
	)

	// Reminder timer resolutions.
	ReminderDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_dispatches_total",
			Help: "Reminder timer resolutions by outcome",
		},
		[]string{"outcome"}, // outcome: sent, completed, duplicate, failed
	)

	// Daily habit set generation runs.
	HabitSetGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_set_generations_total",
			Help: "Daily habit set generation runs by result",
		},
		[]string{"result"}, // result: created, exists, failed
	)

	// HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Queries exceeding the slow-query threshold.
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_total",
			Help: "Total number of queries exceeding the slow-query threshold",
		},
	)
)

func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

func RecordReminderDispatch(outcome string) {
	ReminderDispatches.WithLabelValues(outcome).Inc()
}

func RecordHabitSetGeneration(result string) {
	HabitSetGenerations.WithLabelValues(result).Inc()
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}
