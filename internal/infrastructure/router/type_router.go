package router

import (
	"tripdocs-service/internal/usecase"
	"tripdocs-service/pkg/logger"
)

// TypeRouter routes classified documents to extraction handlers based on
// their taxonomy label
type TypeRouter struct {
	handlers []usecase.DocumentHandler
	logger   logger.Logger
}

// NewTypeRouter creates a new document type router
func NewTypeRouter(logger logger.Logger) *TypeRouter {
	return &TypeRouter{
		handlers: make([]usecase.DocumentHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler for specific document types
func (r *TypeRouter) Register(handler usecase.DocumentHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Info("Registered document handler", "handler", handler)
}

// GetHandler returns the appropriate handler for a document type
func (r *TypeRouter) GetHandler(docType string) usecase.DocumentHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(docType) {
			return handler
		}
	}
	return nil
}
