// File: internal/domain/ports/adapter/image.go
package adapter

import "context"

// ImageServiceAdapter is the port for the text-to-image backend. One
// synchronous call per prompt; the returned bytes are the provider's encoding
// and are normalized to PNG by the use case.
type ImageServiceAdapter interface {
	GenerateImage(ctx context.Context, model, prompt string) ([]byte, error)
	Name() string
}
