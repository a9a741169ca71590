// Package metrics registers the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ObservationsIngested counts raw observation rows accepted by the
	// ingest API.
	ObservationsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackboard_observations_ingested_total",
		Help: "Raw observation rows accepted by the ingest API.",
	})

	// AggregationRuns counts full pipeline computations (cache misses).
	AggregationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackboard_aggregation_runs_total",
		Help: "Full aggregation pipeline computations.",
	})

	// AggregationCacheHits counts pipeline invocations served from the
	// content-addressed cache.
	AggregationCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackboard_aggregation_cache_hits_total",
		Help: "Aggregation results served from the memoization cache.",
	})

	// RequestDuration observes HTTP request latency per route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trackboard_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
