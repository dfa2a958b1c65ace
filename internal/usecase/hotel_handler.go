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

// HotelDocumentHandler extracts, enriches and persists accommodation
// records for documents classified as hotel documents
type HotelDocumentHandler struct {
	extractor *HotelExtractor
	enricher  *Enricher
	batch     repository.TripBatchWriter
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewHotelDocumentHandler creates a new hotel document handler
func NewHotelDocumentHandler(
	extractor *HotelExtractor,
	enricher *Enricher,
	batch repository.TripBatchWriter,
	m *metrics.Metrics,
	log logger.Logger,
) *HotelDocumentHandler {
	return &HotelDocumentHandler{
		extractor: extractor,
		enricher:  enricher,
		batch:     batch,
		metrics:   m,
		logger:    log,
	}
}

// CanHandle covers hotel documents
func (h *HotelDocumentHandler) CanHandle(docType string) bool {
	return docType == entity.TypeHotel
}

// Process runs extraction, per-record enrichment and the atomic batch
// write, with the same isolation policy as the flight handler
func (h *HotelDocumentHandler) Process(ctx context.Context, doc *entity.TravelDocument, image entity.DocumentImage) (map[string]interface{}, error) {
	rawStays, bookingReference, err := h.extractor.Extract(ctx, image)
	if err != nil {
		h.logger.Warn("Hotel extraction unavailable",
			"tripId", doc.TripID, "documentId", doc.DocumentID, "error", err)
		h.metrics.ErrorsCount.WithLabelValues("hotel_extract").Inc()
		rawStays = nil
	}

	runID := uuid.NewString()
	stays := make([]*entity.Accommodation, 0, len(rawStays))
	for i, raw := range rawStays {
		stay, err := h.enricher.EnrichAccommodation(ctx, raw, i, bookingReference)
		if err != nil {
			h.logger.Warn("Dropping accommodation record",
				"tripId", doc.TripID, "documentId", doc.DocumentID,
				"record", i, "error", err)
			continue
		}
		stays = append(stays, stay)
	}

	extracted := map[string]interface{}{
		"accommodation_count": len(stays),
		"ingest_run_id":       runID,
	}
	if bookingReference != "" {
		extracted["booking_reference"] = bookingReference
	}

	if len(stays) == 0 {
		return extracted, nil
	}

	batch := &entity.TripBatch{
		TripID:         doc.TripID,
		DocumentID:     doc.DocumentID,
		DocType:        entity.TypeHotel,
		ClassifiedAt:   time.Now(),
		Accommodations: stays,
		IngestRunID:    runID,
	}
	if err := h.batch.CommitBatch(ctx, batch); err != nil {
		h.logger.Error("Failed to commit accommodation batch",
			"tripId", doc.TripID, "documentId", doc.DocumentID,
			"records", len(stays), "error", err)
		h.metrics.ErrorsCount.WithLabelValues("hotel_batch").Inc()
		extracted["persisted"] = false
		return extracted, nil
	}

	h.metrics.RecordsExtracted.WithLabelValues("accommodation").Add(float64(len(stays)))
	h.metrics.BatchesCommitted.Inc()
	h.logger.Info("Accommodation batch committed",
		"tripId", doc.TripID, "documentId", doc.DocumentID,
		"records", len(stays), "ingestRunId", runID)
	return extracted, nil
}
