// File: internal/domain/ports/adapter/telegram.go
package adapter

import (
	"context"

	"telegram-image-bot/internal/domain/model"
)

// UpdateSource is the port for pulling new chat messages. Poll requests
// updates with identifier >= offset and blocks for the platform's long-poll
// window. An empty result is a normal outcome, not an error; transport
// failures are classified and logged inside the adapter before being
// returned, so callers may treat any error as an empty cycle.
type UpdateSource interface {
	Poll(ctx context.Context, offset int) ([]model.InboundMessage, error)
}

// MessageSender is the port for replying into a chat. Both operations are
// fire-and-forget from the dispatcher's point of view: delivery status is
// logged inside the adapter and the returned error exists for tests.
type MessageSender interface {
	SendImage(ctx context.Context, chatID int64, caption string, png []byte) error
	SendText(ctx context.Context, chatID int64, text string) error
}
