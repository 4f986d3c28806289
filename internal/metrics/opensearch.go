package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// OpenSearch Prometheus metrics.
var (
	OpenSearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "osconnect",
			Name:      "opensearch_requests_total",
			Help:      "Total number of OpenSearch requests",
		},
		[]string{"operation", "status"},
	)

	OpenSearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "osconnect",
			Name:      "opensearch_request_duration_seconds",
			Help:      "OpenSearch request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	OpenSearchHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "osconnect",
			Name:      "opensearch_hits_returned_total",
			Help:      "Total documents returned by OpenSearch queries",
		},
		[]string{"operation"},
	)

	ExportRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "osconnect",
			Name:      "export_records_total",
			Help:      "Total records written to CSV exports",
		},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
			httpResponseBytes,
			OpenSearchRequestsTotal,
			OpenSearchRequestDuration,
			OpenSearchHitsTotal,
			ExportRecordsTotal,
		)
	})
}
