package repository

import (
	"context"
	"time"

	"tripdocs-service/internal/domain/entity"
)

// DocumentRepository manages the travel document collection
type DocumentRepository interface {
	// FindByID finds a document by trip and document id
	FindByID(ctx context.Context, tripID, documentID string) (*entity.TravelDocument, error)

	// FindPending finds documents awaiting processing, oldest first
	FindPending(ctx context.Context, limit int) ([]*entity.TravelDocument, error)

	// UpdateStatus updates the processing status and, when moving to
	// PROCESSING, the started time
	UpdateStatus(ctx context.Context, tripID, documentID, status string, startedAt time.Time) error

	// UpdateType updates the classified document type and timestamp
	UpdateType(ctx context.Context, tripID, documentID, docType string, classifiedAt time.Time) error

	// MarkProcessed records the terminal outcome of a processing run
	MarkProcessed(ctx context.Context, tripID, documentID, status, errorDetail string, extractedData map[string]interface{}) error

	// ResetStaleProcessing returns documents stuck in PROCESSING to PENDING
	ResetStaleProcessing(ctx context.Context) error
}
