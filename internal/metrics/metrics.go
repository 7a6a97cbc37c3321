// Package metrics exposes Prometheus collectors for table queries and
// mutations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation labels.
const (
	OpFind    = "find"
	OpCount   = "count"
	OpExport  = "export"
	OpPreview = "preview"
	OpDelete  = "delete"
)

var (
	// QueriesTotal counts engine operations.
	// Labels: table, operation, outcome (ok, invalid, error)
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablekit_operations_total",
			Help: "Total number of table engine operations",
		},
		[]string{"table", "operation", "outcome"},
	)

	// DurationSeconds tracks operation duration distribution.
	// Labels: table, operation
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tablekit_operation_duration_seconds",
			Help:    "Table engine operation duration distribution",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"table", "operation"},
	)

	// RowsDeleted counts removed records.
	// Labels: table, mode (one, ids, filter)
	RowsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablekit_rows_deleted_total",
			Help: "Total number of records removed by delete operations",
		},
		[]string{"table", "mode"},
	)

	// CollectionSize tracks the current number of records per table.
	CollectionSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tablekit_collection_size",
			Help: "Current number of records in each table",
		},
		[]string{"table"},
	)

	// PageRequests counts find requests by page bucket.
	// Labels: table, page_range (1-10, 11-50, 51-100, 100+)
	PageRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablekit_page_requests_total",
			Help: "Total number of page requests by page range",
		},
		[]string{"table", "page_range"},
	)
)

// Outcome labels for RecordOperation.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// RecordOperation records one engine operation and its duration.
func RecordOperation(table, operation, outcome string, duration time.Duration) {
	QueriesTotal.WithLabelValues(table, operation, outcome).Inc()
	DurationSeconds.WithLabelValues(table, operation).Observe(duration.Seconds())
}

// RecordPage records which page bucket a find request hit.
func RecordPage(table string, page int) {
	PageRequests.WithLabelValues(table, pageRangeBucket(page)).Inc()
}

// RecordDeleted adds n removed records for table and mode.
func RecordDeleted(table, mode string, n int) {
	if n <= 0 {
		return
	}
	RowsDeleted.WithLabelValues(table, mode).Add(float64(n))
}

// SetCollectionSize updates the size gauge for table.
func SetCollectionSize(table string, n int) {
	CollectionSize.WithLabelValues(table).Set(float64(n))
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// pageRangeBucket returns the page range bucket for a given page number.
func pageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
