// File: internal/infra/adapters/image/noop.go
package image

import (
	"context"

	"telegram-image-bot/internal/domain/fault"
	"telegram-image-bot/internal/domain/ports/adapter"
)

var _ adapter.ImageServiceAdapter = (*NoopAdapter)(nil)

// NoopAdapter stands in when no image provider is configured. The process
// keeps running; every generation attempt fails gracefully as an auth fault.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter { return &NoopAdapter{} }

func (a *NoopAdapter) Name() string { return "noop" }

func (a *NoopAdapter) GenerateImage(ctx context.Context, model, prompt string) ([]byte, error) {
	return nil, fault.ErrMissingCredential
}
