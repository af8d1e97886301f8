// File: internal/infra/adapters/image/gemini_adapter.go
package image

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"telegram-image-bot/internal/domain/fault"
	"telegram-image-bot/internal/domain/ports/adapter"
)

var _ adapter.ImageServiceAdapter = (*GeminiAdapter)(nil)

// GeminiAdapter implements adapter.ImageServiceAdapter using the official SDK
// against the Imagen generation endpoint.
type GeminiAdapter struct {
	client *genai.Client
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

func (g *GeminiAdapter) GenerateImage(ctx context.Context, model, prompt string) ([]byte, error) {
	resp, err := g.client.Models.GenerateImages(ctx, model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, structuredGemini(err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 ||
		resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, fault.ErrEmptyResult
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

func structuredGemini(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &fault.StatusError{Service: "gemini", Code: apiErr.Code, Body: apiErr.Message}
	}
	return err
}
