package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LookupsTotal tracks lookups by resolved network, kind and outcome
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainlens_lookups_total",
			Help: "Total number of lookups served",
		},
		[]string{"network", "kind", "status"},
	)

	// LookupLatency tracks end-to-end lookup latency
	LookupLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chainlens_lookup_latency_seconds",
			Help:    "Lookup latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"network"},
	)

	// UpstreamCallsTotal tracks calls to third-party providers
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainlens_upstream_calls_total",
			Help: "Total number of upstream provider calls",
		},
		[]string{"provider", "endpoint"},
	)

	// UpstreamErrorsTotal tracks failed provider calls
	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainlens_upstream_errors_total",
			Help: "Total number of upstream provider errors",
		},
		[]string{"provider", "error_type"},
	)

	// UpstreamLatency tracks provider call latency
	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chainlens_upstream_latency_seconds",
			Help:    "Upstream provider latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "endpoint"},
	)

	// PriceCacheTotal tracks price cache hits and misses
	PriceCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainlens_price_cache_total",
			Help: "Price cache lookups by result",
		},
		[]string{"result"},
	)

	// CommentsPosted tracks accepted comments per storage backend
	CommentsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainlens_comments_posted_total",
			Help: "Total number of accepted comments",
		},
		[]string{"storage"},
	)

	// CommentsRejected tracks rejected comment submissions
	CommentsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainlens_comments_rejected_total",
			Help: "Total number of rejected comment submissions",
		},
		[]string{"reason"},
	)

	// DBConnectionPoolUsage tracks the percentage of open postgres connections
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainlens_db_connection_pool_usage_percent",
			Help: "Percentage of the postgres connection pool in use",
		},
	)
)
