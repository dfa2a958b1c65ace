package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/pkg/logger"
)

// AnthropicVisionModel implements the VisionModel capability over the
// Anthropic messages API
type AnthropicVisionModel struct {
	client anthropic.Client
	model  string
	logger logger.Logger
}

// NewAnthropicVisionModel creates a vision model client
func NewAnthropicVisionModel(apiKey, model string, log logger.Logger) *AnthropicVisionModel {
	return &AnthropicVisionModel{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: log,
	}
}

// Generate sends the prompt and image and returns the model's text
func (m *AnthropicVisionModel) Generate(ctx context.Context, prompt string, image entity.DocumentImage) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image.Data)

	// PDFs go through the document block; everything else is an image
	content := anthropic.NewImageBlockBase64(image.MIMEType, encoded)
	if image.MIMEType == "application/pdf" {
		content = anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: encoded})
	}

	message, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(content, anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision model error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			m.logger.Debug("Vision model response",
				"size", len(block.Text),
				"tokensIn", message.Usage.InputTokens,
				"tokensOut", message.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in vision model response")
}
