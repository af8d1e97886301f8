// File: internal/infra/adapters/image/hf_adapter.go
package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"telegram-image-bot/internal/domain/fault"
	"telegram-image-bot/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ImageServiceAdapter = (*HuggingFaceAdapter)(nil)

// HuggingFaceAdapter implements adapter.ImageServiceAdapter against the
// Hugging Face Inference API. A 200 response body is the raw image bytes;
// anything else is surfaced as a structured status error so quota and
// model-loading states classify correctly.
type HuggingFaceAdapter struct {
	apiKey string
	base   string // e.g., https://api-inference.huggingface.co
	client *http.Client
}

func NewHuggingFaceAdapter(apiKey, base string) (*HuggingFaceAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("huggingface api key empty")
	}
	if base == "" {
		base = "https://api-inference.huggingface.co"
	}
	return &HuggingFaceAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (h *HuggingFaceAdapter) Name() string { return "huggingface" }

func (h *HuggingFaceAdapter) GenerateImage(ctx context.Context, model, prompt string) ([]byte, error) {
	reqBody := struct {
		Inputs string `json:"inputs"`
	}{Inputs: prompt}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+"/models/"+model, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Bound the body read; error payloads are tiny, images are not.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &fault.StatusError{Service: "huggingface", Code: resp.StatusCode, Body: string(data)}
	}
	if len(data) == 0 {
		return nil, fault.ErrEmptyResult
	}
	return data, nil
}
