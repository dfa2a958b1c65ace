package usecase

import (
	"context"

	"tripdocs-service/internal/domain/entity"
)

// DocumentHandler processes one classified document type (flight, hotel).
// Process returns run metadata for the parent document's extracted_data
// field; it only errors when nothing at all could be persisted.
type DocumentHandler interface {
	// CanHandle determines if this handler covers the given document type
	CanHandle(docType string) bool

	// Process extracts, enriches and persists the document's child records
	Process(ctx context.Context, doc *entity.TravelDocument, image entity.DocumentImage) (map[string]interface{}, error)
}

// DocumentRouter routes a classified document to the appropriate handler
type DocumentRouter interface {
	// Register registers a handler for specific document types
	Register(handler DocumentHandler)

	// GetHandler returns the handler for a document type, or nil
	GetHandler(docType string) DocumentHandler
}
