// Package metrics holds the Prometheus collectors for recommendation and
// catalog build activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tatrec_recommend_duration_seconds",
			Help:    "Duration of a recommendation from image load to resolved paths",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tatrec_recommend_errors_total",
			Help: "Total number of failed recommendations by stage",
		},
		[]string{"stage"}, // "load", "forward", "capture", "query"
	)

	IndexQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tatrec_index_queries_total",
			Help: "Total number of index queries by distance function",
		},
		[]string{"distance"},
	)

	QueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tatrec_query_results",
			Help:    "Number of matches returned by an index query",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	CatalogEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tatrec_catalog_entries_indexed_total",
			Help: "Total number of catalog entries added to an index",
		},
	)
)

// RecordRecommend observes one recommendation. A non-empty stage marks a failure.
func RecordRecommend(duration time.Duration, stage string) {
	RecommendDuration.Observe(duration.Seconds())
	if stage != "" {
		RecommendErrors.WithLabelValues(stage).Inc()
	}
}

// RecordQuery counts an index query and the number of matches it returned.
func RecordQuery(distance string, results int) {
	IndexQueries.WithLabelValues(distance).Inc()
	QueryResults.Observe(float64(results))
}

// RecordCatalogBuild counts entries added by a catalog build.
func RecordCatalogBuild(entries int) {
	CatalogEntries.Add(float64(entries))
}

// WriteFile dumps every registered metric in text exposition format.
func WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
