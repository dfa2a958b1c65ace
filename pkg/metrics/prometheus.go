package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the document pipeline
type Metrics struct {
	DocumentsProcessed prometheus.Counter
	Classifications    *prometheus.CounterVec
	RecordsExtracted   *prometheus.CounterVec
	BatchesCommitted   prometheus.Counter
	PlacesLookups      *prometheus.CounterVec
	ProcessingTime     prometheus.Histogram
	ErrorsCount        *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		DocumentsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_processed_total",
			Help:      "The total number of processed travel documents",
		}),
		Classifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Classification results by document type",
		}, []string{"type"}),
		RecordsExtracted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_extracted_total",
			Help:      "Extracted child records by kind",
		}, []string{"kind"}),
		BatchesCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_committed_total",
			Help:      "The total number of committed persistence batches",
		}),
		PlacesLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "places_lookups_total",
			Help:      "Place resolver lookups by outcome",
		}, []string{"outcome"}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_processing_time_seconds",
			Help:      "Time taken to process documents",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
