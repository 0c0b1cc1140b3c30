// Public domain.

// Package metrics holds the prometheus instrumentation of the matcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IndexBuildsTotal counts catalog index builds by mode.
	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skymatch_index_builds_total",
			Help: "Total number of catalog index builds",
		},
		[]string{"mode"},
	)

	// IndexReuseTotal counts operations served by an already built index.
	IndexReuseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skymatch_index_reuse_total",
			Help: "Total number of operations that reused a cached catalog index",
		},
		[]string{"mode"},
	)

	// IndexBuildSeconds measures catalog index build time.
	IndexBuildSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skymatch_index_build_seconds",
			Help:    "Time spent building catalog indexes",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		},
	)

	// IndexPoints is the size of the most recently built index.
	IndexPoints = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skymatch_index_points",
			Help: "Number of catalog points in the most recently built index",
		},
		[]string{"mode"},
	)

	// OperationsTotal counts match and search operations.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skymatch_operations_total",
			Help: "Total number of matcher operations",
		},
		[]string{"op", "mode"},
	)

	// OperationErrorsTotal counts operations rejected during validation.
	OperationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skymatch_operation_errors_total",
			Help: "Total number of matcher operations that failed validation",
		},
		[]string{"op"},
	)

	// OperationSeconds measures operation time including any index build.
	OperationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skymatch_operation_seconds",
			Help:    "Matcher operation latency",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 12),
		},
		[]string{"op"},
	)

	// QueryPointsTotal counts query points processed.
	QueryPointsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skymatch_query_points_total",
			Help: "Total number of query points processed",
		},
		[]string{"op"},
	)

	// BruteForceTotal counts operations answered by a linear scan.
	BruteForceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skymatch_brute_force_total",
			Help: "Total number of operations answered by brute force scan",
		},
		[]string{"op"},
	)

	// PairsFoundTotal counts pairs returned by radius searches.
	PairsFoundTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skymatch_search_pairs_total",
			Help: "Total number of pairs returned by radius searches",
		},
	)

	// DegenerateQueriesTotal counts single point radius searches.
	DegenerateQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skymatch_degenerate_queries_total",
			Help: "Total number of radius searches with a single point query",
		},
	)
)
