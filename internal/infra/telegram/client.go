// File: internal/infra/telegram/client.go
package telegram

import (
	"context"
	"errors"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-image-bot/internal/config"
	"telegram-image-bot/internal/domain/fault"
	"telegram-image-bot/internal/domain/model"
	"telegram-image-bot/internal/domain/ports/adapter"
	"telegram-image-bot/internal/infra/logging"
	"telegram-image-bot/internal/infra/metrics"
)

// Compile-time assurance the client satisfies both ports
var (
	_ adapter.UpdateSource  = (*Client)(nil)
	_ adapter.MessageSender = (*Client)(nil)
)

const attachmentName = "generated_image.png"

// Client speaks the Telegram Bot API: getUpdates long polling on the inbound
// side, sendPhoto/sendMessage on the outbound side. It is built without the
// eager getMe probe so a missing token yields a degraded client whose calls
// fail gracefully instead of crashing the process; the credential could in
// principle be revoked mid-run, so every call re-checks it.
type Client struct {
	bot         *tgbotapi.BotAPI
	pollTimeout int
	dev         bool
	log         *zerolog.Logger
}

func NewClient(cfg *config.BotConfig, dev bool, logger *zerolog.Logger) *Client {
	cl := logger.With().Str("component", "telegram").Logger()
	c := &Client{pollTimeout: cfg.PollTimeout, dev: dev, log: &cl}
	if cfg.PollTimeout <= 0 {
		c.pollTimeout = 30
	}
	if cfg.Token == "" {
		cl.Warn().Msg("bot token not configured; telegram client is degraded")
		return c
	}
	bot := &tgbotapi.BotAPI{
		Token:  cfg.Token,
		Client: &http.Client{Timeout: time.Duration(c.pollTimeout+30) * time.Second},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(tgbotapi.APIEndpoint)
	c.bot = bot
	return c
}

// Poll requests updates with identifier >= offset, blocking server-side for
// the long-poll window. Failures never escape unclassified: they are logged
// here (redacted) and returned so the dispatcher treats the cycle as empty.
func (c *Client) Poll(ctx context.Context, offset int) ([]model.InboundMessage, error) {
	if c.bot == nil {
		metrics.IncPollFailure(fault.Auth.String())
		c.log.Error().Str("category", fault.Auth.String()).Msg("credential missing; poll skipped")
		return nil, fault.ErrMissingCredential
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	u := tgbotapi.NewUpdate(offset)
	u.Timeout = c.pollTimeout

	updates, err := c.bot.GetUpdates(u)
	if err != nil {
		err = structured(err)
		cat := fault.Classify(err)
		metrics.IncPollFailure(cat.String())
		c.log.WithLevel(cat.Level()).
			Str("category", cat.String()).
			Str("err", logging.Redact(err.Error(), c.dev)).
			Msg("poll failed")
		return nil, err
	}

	msgs := make([]model.InboundMessage, 0, len(updates))
	for _, up := range updates {
		msgs = append(msgs, toInbound(up))
	}
	if len(msgs) > 0 {
		metrics.IncUpdatesReceived(len(msgs))
	}
	return msgs, nil
}

// SendImage transmits the PNG as a named attachment with the caption.
func (c *Client) SendImage(ctx context.Context, chatID int64, caption string, png []byte) error {
	if err := c.ready(ctx, "photo"); err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: attachmentName, Bytes: png})
	photo.Caption = caption

	c.log.Info().Int64("chat_id", chatID).Int("bytes", len(png)).Msg("sending image")
	_, err := c.bot.Send(photo)
	return c.reportSend("photo", chatID, err)
}

// SendText transmits a Markdown-formatted text message.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	if err := c.ready(ctx, "text"); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	c.log.Info().Int64("chat_id", chatID).Msg("sending text")
	_, err := c.bot.Send(msg)
	return c.reportSend("text", chatID, err)
}

func (c *Client) ready(ctx context.Context, method string) error {
	if c.bot == nil {
		metrics.IncSend(method, "no_credential")
		c.log.Error().Str("category", fault.Auth.String()).Msg("credential missing; send skipped")
		return fault.ErrMissingCredential
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// reportSend logs the delivery status. An API-level rejection carries a
// platform-controlled description, which is safe to log verbatim; transport
// errors are not, so they go through classification and redaction.
func (c *Client) reportSend(method string, chatID int64, err error) error {
	if err == nil {
		metrics.IncSend(method, "ok")
		c.log.Info().Int64("chat_id", chatID).Str("method", method).Msg("delivered")
		return nil
	}
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		metrics.IncSend(method, "refused")
		c.log.Error().
			Int64("chat_id", chatID).
			Int("code", tgErr.Code).
			Str("description", tgErr.Message).
			Msg("telegram refused")
		return &fault.StatusError{Service: "telegram", Code: tgErr.Code, Body: tgErr.Message}
	}
	cat := fault.Classify(err)
	metrics.IncSend(method, "error")
	c.log.WithLevel(cat.Level()).
		Int64("chat_id", chatID).
		Str("category", cat.String()).
		Str("err", logging.Redact(err.Error(), c.dev)).
		Msg("send failed")
	return err
}

// structured converts library errors that carry an API status into the
// typed form classification keys on.
func structured(err error) error {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return &fault.StatusError{Service: "telegram", Code: tgErr.Code, Body: tgErr.Message}
	}
	return err
}

func toInbound(up tgbotapi.Update) model.InboundMessage {
	m := model.InboundMessage{UpdateID: up.UpdateID, Sender: model.UnknownSender}
	if up.Message == nil {
		return m
	}
	if up.Message.From != nil && up.Message.From.FirstName != "" {
		m.Sender = up.Message.From.FirstName
	}
	if up.Message.Chat != nil {
		m.ChatID = up.Message.Chat.ID
	}
	m.Text = up.Message.Text
	return m
}
