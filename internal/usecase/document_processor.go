package usecase

import (
	"context"
	"time"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
	"tripdocs-service/pkg/metrics"
)

// DocumentProcessor is the ingest trigger: it sequences classification,
// extraction, enrichment and persistence for one newly created travel
// document. Its top-level contract is "never fails": every pipeline error
// is logged and recorded on the document, none propagate, so the poll loop
// cannot enter a re-invocation storm.
type DocumentProcessor struct {
	docRepo    repository.DocumentRepository
	fetcher    repository.DocumentFetcher
	classifier *Classifier
	router     DocumentRouter
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewDocumentProcessor creates a new document processor
func NewDocumentProcessor(
	docRepo repository.DocumentRepository,
	fetcher repository.DocumentFetcher,
	classifier *Classifier,
	router DocumentRouter,
	m *metrics.Metrics,
	log logger.Logger,
) *DocumentProcessor {
	return &DocumentProcessor{
		docRepo:    docRepo,
		fetcher:    fetcher,
		classifier: classifier,
		router:     router,
		metrics:    m,
		logger:     log,
	}
}

// ProcessDocument runs the full pipeline for one document
func (p *DocumentProcessor) ProcessDocument(ctx context.Context, doc *entity.TravelDocument) {
	start := time.Now()
	defer func() {
		p.metrics.DocumentsProcessed.Inc()
		p.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	}()

	log := p.logger.With("tripId", doc.TripID, "documentId", doc.DocumentID)

	fileName := doc.EffectiveFileName()
	if fileName == "" || doc.DownloadURL == "" {
		log.Warn("Document missing file name or download URL, aborting")
		p.markProcessed(ctx, doc, entity.StatusFailed, "missing file name or download url", nil)
		return
	}

	if err := p.docRepo.UpdateStatus(ctx, doc.TripID, doc.DocumentID, entity.StatusProcessing, time.Now()); err != nil {
		log.Error("Failed to claim document", "error", err)
		return
	}

	image, err := p.fetcher.Fetch(ctx, doc.DownloadURL)
	if err != nil {
		log.Error("Failed to fetch document content", "error", err)
		p.metrics.ErrorsCount.WithLabelValues("fetch").Inc()
		p.markProcessed(ctx, doc, entity.StatusFailed, err.Error(), nil)
		return
	}

	label, err := p.classifier.Classify(ctx, image, fileName)
	if err != nil {
		log.Error("Classification failed", "error", err)
		p.metrics.ErrorsCount.WithLabelValues("classify").Inc()
		p.markProcessed(ctx, doc, entity.StatusFailed, err.Error(), nil)
		return
	}
	p.metrics.Classifications.WithLabelValues(label).Inc()
	log.Info("Document classified", "type", label, "fileName", fileName)

	// Only non-"other" results update the stored type: a document already
	// correctly typed is never overwritten with "other". Best-effort; the
	// batch write repeats this update atomically with the child records.
	if label != entity.TypeOther && label != doc.Type {
		if err := p.docRepo.UpdateType(ctx, doc.TripID, doc.DocumentID, label, time.Now()); err != nil {
			log.Error("Failed to update document type", "type", label, "error", err)
			p.metrics.ErrorsCount.WithLabelValues("update_type").Inc()
		}
	}

	handler := p.router.GetHandler(label)
	if handler == nil {
		// Terminal for passport, visa, other and the rest: nothing to extract
		p.markProcessed(ctx, doc, entity.StatusSkipped, "", map[string]interface{}{
			"type":   label,
			"reason": "no_extraction_for_type",
		})
		return
	}

	extracted, err := handler.Process(ctx, doc, image)
	if err != nil {
		log.Error("Document handler failed", "type", label, "error", err)
		p.metrics.ErrorsCount.WithLabelValues("handle").Inc()
		p.markProcessed(ctx, doc, entity.StatusFailed, err.Error(), extracted)
		return
	}

	if extracted == nil {
		extracted = map[string]interface{}{}
	}
	extracted["type"] = label
	p.markProcessed(ctx, doc, entity.StatusCompleted, "", extracted)
	log.Info("Document processed", "type", label)
}

// ProcessPendingDocuments processes documents that are new or were missed
func (p *DocumentProcessor) ProcessPendingDocuments(ctx context.Context, limit int) error {
	docs, err := p.docRepo.FindPending(ctx, limit)
	if err != nil {
		p.logger.Error("Failed to find pending documents", "error", err)
		return err
	}

	if len(docs) == 0 {
		return nil
	}

	p.logger.Info("Processing pending documents", "count", len(docs))
	for _, doc := range docs {
		p.ProcessDocument(ctx, doc)
	}
	return nil
}

func (p *DocumentProcessor) markProcessed(ctx context.Context, doc *entity.TravelDocument, status, errorDetail string, extracted map[string]interface{}) {
	if err := p.docRepo.MarkProcessed(ctx, doc.TripID, doc.DocumentID, status, errorDetail, extracted); err != nil {
		p.logger.Error("Failed to record processing outcome",
			"tripId", doc.TripID, "documentId", doc.DocumentID,
			"status", status, "error", err)
	}
}
