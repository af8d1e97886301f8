// File: internal/infra/adapters/image/openai_adapter.go
package image

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"telegram-image-bot/internal/domain/fault"
	"telegram-image-bot/internal/domain/ports/adapter"
)

var _ adapter.ImageServiceAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.ImageServiceAdapter using the Images API.
type OpenAIAdapter struct {
	client openai.Client
}

func NewOpenAIAdapter(apiKey string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	return &OpenAIAdapter{client: openai.NewClient(option.WithAPIKey(apiKey))}, nil
}

func (o *OpenAIAdapter) Name() string { return "openai" }

func (o *OpenAIAdapter) GenerateImage(ctx context.Context, model, prompt string) ([]byte, error) {
	res, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(model),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, structuredOpenAI(err)
	}
	if res == nil || len(res.Data) == 0 || res.Data[0].B64JSON == "" {
		return nil, fault.ErrEmptyResult
	}
	return base64.StdEncoding.DecodeString(res.Data[0].B64JSON)
}

// structuredOpenAI lifts the SDK's API error into the typed status form.
func structuredOpenAI(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &fault.StatusError{Service: "openai", Code: apiErr.StatusCode, Body: apiErr.Message}
	}
	return err
}
