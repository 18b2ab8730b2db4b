package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Filtering Prometheus metrics.
var (
	FilterRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insurefilter",
			Name:      "filter_requests_total",
			Help:      "Total number of filtering requests",
		},
		[]string{"outcome"}, // "match" / "no_match" / "skipped" / "error"
	)

	FilterDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insurefilter",
			Name:      "filter_duration_seconds",
			Help:      "Filtering duration in seconds, store call included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"backend"},
	)

	FilterClauseGroups = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "insurefilter",
			Name:      "filter_clause_groups",
			Help:      "Clause-groups in the compiled filter",
			Buckets:   []float64{0, 1, 2, 3, 4},
		},
	)

	FilterRecordsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "insurefilter",
			Name:      "filter_records_returned",
			Help:      "Records returned per filtering request",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

var registerFiltering sync.Once

// RegisterFilteringMetrics registers Prometheus filtering metrics with the
// default registry. Repeated calls are no-ops.
func RegisterFilteringMetrics() {
	registerFiltering.Do(func() {
		prometheus.MustRegister(FilterRequestsTotal)
		prometheus.MustRegister(FilterDuration)
		prometheus.MustRegister(FilterClauseGroups)
		prometheus.MustRegister(FilterRecordsReturned)
	})
}
