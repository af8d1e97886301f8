// File: internal/application/dispatcher.go
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-image-bot/internal/config"
	"telegram-image-bot/internal/domain/fault"
	"telegram-image-bot/internal/domain/model"
	"telegram-image-bot/internal/domain/ports/adapter"
	"telegram-image-bot/internal/infra/logging"
	"telegram-image-bot/internal/infra/metrics"
	"telegram-image-bot/internal/usecase"
)

const failureReply = "Sorry, failed to generate the image due to a server error."

// Dispatcher is the single steady-state loop: poll, route each message
// through generation, route each outcome to a responder call, advance the
// cursor, sleep, repeat. There is exactly one instance per process; the
// cursor is loop-local and never shared.
type Dispatcher struct {
	source adapter.UpdateSource
	gen    usecase.GenerateUseCase
	sender adapter.MessageSender

	idleSleep  time.Duration
	faultPause time.Duration
	log        *zerolog.Logger

	cursor int
}

func NewDispatcher(source adapter.UpdateSource, gen usecase.GenerateUseCase, sender adapter.MessageSender, cfg config.LoopConfig, logger *zerolog.Logger) *Dispatcher {
	dl := logger.With().Str("component", "dispatcher").Logger()
	return &Dispatcher{
		source:     source,
		gen:        gen,
		sender:     sender,
		idleSleep:  cfg.IdleSleep,
		faultPause: cfg.FaultPause,
		log:        &dl,
	}
}

// Run loops until the context is cancelled. Component boundaries contain
// their own failures; anything that still escapes a cycle is recovered here,
// classified, and followed by the longer pause. The loop never terminates on
// error — it runs until the supervisor stops the process.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Info().Msg("dispatcher started")
	for {
		if err := ctx.Err(); err != nil {
			d.log.Info().Msg("dispatcher stopped")
			return err
		}
		if ok := d.safeCycle(ctx); !ok {
			d.pause(ctx, d.faultPause)
			continue
		}
		d.pause(ctx, d.idleSleep)
	}
}

// safeCycle runs one cycle behind the fault boundary. It reports false when
// an unhandled fault was recovered.
func (d *Dispatcher) safeCycle(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			cat := fault.Classify(err)
			metrics.IncLoopFault(cat.String())
			d.log.Error().
				Str("category", cat.String()).
				Str("err", logging.Redact(err.Error(), false)).
				Msg("unhandled fault; pausing before resume")
			ok = false
		}
	}()
	d.cycle(ctx)
	return true
}

// cycle performs one poll-and-dispatch pass.
func (d *Dispatcher) cycle(ctx context.Context) {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	log := logging.With(ctx, d.log)

	msgs, err := d.source.Poll(ctx, d.cursor+1)
	if err != nil {
		// already classified and logged at the poller boundary
		return
	}
	if len(msgs) == 0 {
		log.Debug().Int("cursor", d.cursor).Msg("no new messages")
		return
	}
	log.Info().Int("count", len(msgs)).Msg("updates received")

	for _, msg := range msgs {
		// Acknowledge unconditionally, even when the message is skipped:
		// forward progress must not depend on the message being usable.
		if msg.UpdateID > d.cursor {
			d.cursor = msg.UpdateID
		}
		if !msg.HasText() {
			continue
		}
		d.handle(ctx, log, msg)
	}
}

func (d *Dispatcher) handle(ctx context.Context, log *zerolog.Logger, msg model.InboundMessage) {
	log.Info().
		Str("sender", msg.Sender).
		Int64("chat_id", msg.ChatID).
		Int("update_id", msg.UpdateID).
		Msg("message received")

	outcome := d.gen.Generate(ctx, msg.Text)
	switch outcome.Kind {
	case model.OutcomeImage:
		_ = d.sender.SendImage(ctx, msg.ChatID, msg.Text, outcome.Image)
	case model.OutcomeAdvisory:
		_ = d.sender.SendText(ctx, msg.ChatID, outcome.Advisory)
	default:
		_ = d.sender.SendText(ctx, msg.ChatID, failureReply)
	}
}

func (d *Dispatcher) pause(ctx context.Context, dur time.Duration) {
	if dur <= 0 {
		return
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Cursor exposes the current acknowledgement watermark.
func (d *Dispatcher) Cursor() int { return d.cursor }
