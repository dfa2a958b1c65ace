package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
	"tripdocs-service/pkg/metrics"
)

// FlightDocumentHandler extracts, enriches and persists flight legs for
// documents classified as flight documents
type FlightDocumentHandler struct {
	extractor *FlightExtractor
	enricher  *Enricher
	batch     repository.TripBatchWriter
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewFlightDocumentHandler creates a new flight document handler
func NewFlightDocumentHandler(
	extractor *FlightExtractor,
	enricher *Enricher,
	batch repository.TripBatchWriter,
	m *metrics.Metrics,
	log logger.Logger,
) *FlightDocumentHandler {
	return &FlightDocumentHandler{
		extractor: extractor,
		enricher:  enricher,
		batch:     batch,
		metrics:   m,
		logger:    log,
	}
}

// CanHandle covers flight documents
func (h *FlightDocumentHandler) CanHandle(docType string) bool {
	return docType == entity.TypeFlight
}

// Process runs extraction, per-leg enrichment and the atomic batch write.
// A failed leg is dropped without blocking the others; a failed batch
// commit is logged and absorbed so the classification result survives.
func (h *FlightDocumentHandler) Process(ctx context.Context, doc *entity.TravelDocument, image entity.DocumentImage) (map[string]interface{}, error) {
	rawFlights, bookingReference, err := h.extractor.Extract(ctx, image)
	if err != nil {
		// Upstream model failure: no data, the run still persists the
		// classification result
		h.logger.Warn("Flight extraction unavailable",
			"tripId", doc.TripID, "documentId", doc.DocumentID, "error", err)
		h.metrics.ErrorsCount.WithLabelValues("flight_extract").Inc()
		rawFlights = nil
	}

	runID := uuid.NewString()
	legs := make([]*entity.FlightLeg, 0, len(rawFlights))
	for i, raw := range rawFlights {
		leg, err := h.enricher.EnrichFlight(ctx, raw, i, bookingReference)
		if err != nil {
			h.logger.Warn("Dropping flight segment",
				"tripId", doc.TripID, "documentId", doc.DocumentID,
				"segment", i, "error", err)
			continue
		}
		legs = append(legs, leg)
	}

	extracted := map[string]interface{}{
		"flight_count":  len(legs),
		"ingest_run_id": runID,
	}
	if bookingReference != "" {
		extracted["booking_reference"] = bookingReference
	}

	if len(legs) == 0 {
		return extracted, nil
	}

	batch := &entity.TripBatch{
		TripID:       doc.TripID,
		DocumentID:   doc.DocumentID,
		DocType:      entity.TypeFlight,
		ClassifiedAt: time.Now(),
		Flights:      legs,
		IngestRunID:  runID,
	}
	if err := h.batch.CommitBatch(ctx, batch); err != nil {
		h.logger.Error("Failed to commit flight batch",
			"tripId", doc.TripID, "documentId", doc.DocumentID,
			"legs", len(legs), "error", err)
		h.metrics.ErrorsCount.WithLabelValues("flight_batch").Inc()
		extracted["persisted"] = false
		return extracted, nil
	}

	h.metrics.RecordsExtracted.WithLabelValues("flight").Add(float64(len(legs)))
	h.metrics.BatchesCommitted.Inc()
	h.logger.Info("Flight batch committed",
		"tripId", doc.TripID, "documentId", doc.DocumentID,
		"legs", len(legs), "ingestRunId", runID)
	return extracted, nil
}
