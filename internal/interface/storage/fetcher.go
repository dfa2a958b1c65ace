package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
)

// Upload pipeline caps documents well below this; the limit guards against
// a misbehaving URL, not legitimate documents.
const maxDocumentBytes = 20 << 20

// HTTPDocumentFetcher downloads document content from pre-signed URLs
type HTTPDocumentFetcher struct {
	client *http.Client
	logger logger.Logger
}

// NewHTTPDocumentFetcher creates a new document fetcher
func NewHTTPDocumentFetcher(log logger.Logger) repository.DocumentFetcher {
	return &HTTPDocumentFetcher{
		client: &http.Client{Timeout: 60 * time.Second},
		logger: log,
	}
}

// Fetch downloads the document and determines its MIME type
func (f *HTTPDocumentFetcher) Fetch(ctx context.Context, downloadURL string) (entity.DocumentImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return entity.DocumentImage{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return entity.DocumentImage{}, fmt.Errorf("failed to download document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.DocumentImage{}, fmt.Errorf("document download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return entity.DocumentImage{}, fmt.Errorf("failed to read document body: %w", err)
	}
	if len(data) > maxDocumentBytes {
		return entity.DocumentImage{}, fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}

	mimeType := resp.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimeTypeFromURL(downloadURL)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	f.logger.Debug("Fetched document", "bytes", len(data), "mimeType", mimeType)
	return entity.DocumentImage{Data: data, MIMEType: mimeType}, nil
}

func mimeTypeFromURL(downloadURL string) string {
	// Signed URLs carry the object path before the query string
	trimmed := downloadURL
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	switch strings.ToLower(path.Ext(trimmed)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	}
	return ""
}
