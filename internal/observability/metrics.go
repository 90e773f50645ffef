package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videotube_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "videotube_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RelationToggles counts toggles by target kind and resulting state.
	RelationToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videotube_relation_toggles_total",
		Help: "Total number of like and subscription toggles",
	}, []string{"kind", "state"})

	// MediaOperations counts media store calls by operation, backend and outcome.
	MediaOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videotube_media_operations_total",
		Help: "Total number of media store operations",
	}, []string{"operation", "backend", "outcome"})

	// EventsPublished counts published domain events by broker and outcome.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videotube_events_published_total",
		Help: "Total number of domain events handed to the broker",
	}, []string{"broker", "subject", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// Outcome labels an error for counters.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
