package repository

import (
	"context"

	"tripdocs-service/internal/domain/entity"
)

// VisionModel is the generative vision capability: given a prompt and a
// document image, it returns the model's text. Single request/response, no
// streaming.
type VisionModel interface {
	Generate(ctx context.Context, prompt string, image entity.DocumentImage) (string, error)
}

// DocumentFetcher downloads a document's content from its download URL
type DocumentFetcher interface {
	Fetch(ctx context.Context, downloadURL string) (entity.DocumentImage, error)
}
