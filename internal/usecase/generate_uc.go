// File: internal/usecase/generate_uc.go
package usecase

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg" // providers are not obligated to return PNG
	"image/png"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-image-bot/internal/domain/fault"
	"telegram-image-bot/internal/domain/model"
	"telegram-image-bot/internal/domain/ports/adapter"
	"telegram-image-bot/internal/infra/logging"
	"telegram-image-bot/internal/infra/metrics"
)

// Compile-time check
var _ GenerateUseCase = (*generateUC)(nil)

// quotaAdvisory is the one failure the end user can act on; everything else
// stays operator-visible only.
const quotaAdvisory = "The image service quota is exhausted. Please wait a while or upgrade the plan, then try again."

type GenerateUseCase interface {
	// Generate turns a prompt into exactly one outcome: an in-memory PNG,
	// an actionable advisory, or an opaque failure.
	Generate(ctx context.Context, prompt string) model.Outcome
}

type generateUC struct {
	img     adapter.ImageServiceAdapter
	model   string
	devMode bool
	log     *zerolog.Logger
}

func NewGenerateUseCase(img adapter.ImageServiceAdapter, modelName string, devMode bool, logger *zerolog.Logger) *generateUC {
	gl := logger.With().Str("component", "generate").Str("provider", img.Name()).Logger()
	return &generateUC{img: img, model: modelName, devMode: devMode, log: &gl}
}

func (g *generateUC) Generate(ctx context.Context, prompt string) model.Outcome {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		// Caller error; reject before any network call.
		metrics.IncPromptBlocked()
		metrics.IncGenerationOutcome(g.img.Name(), "failure")
		g.log.Warn().Str("category", fault.EmptyPrompt.String()).Msg("empty prompt rejected")
		return model.FailureOutcome()
	}

	g.log.Info().Str("model", g.model).Msg("generating image")

	start := time.Now()
	raw, err := g.img.GenerateImage(ctx, g.model, prompt)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		metrics.ObserveGenerationLatency(g.img.Name(), latency, false)
		return g.failed(err)
	}
	if len(raw) == 0 {
		metrics.ObserveGenerationLatency(g.img.Name(), latency, false)
		return g.failed(fault.ErrEmptyResult)
	}
	metrics.ObserveGenerationLatency(g.img.Name(), latency, true)

	buf, err := normalizePNG(raw)
	if err != nil {
		return g.failed(err)
	}

	metrics.IncGenerationOutcome(g.img.Name(), "image")
	g.log.Info().Int("bytes", buf.Len()).Dur("elapsed", time.Since(start)).Msg("image generated")
	return model.ImageOutcome(buf.Bytes())
}

// failed classifies the error and picks the outcome: quota exhaustion is the
// only category surfaced to the end user, everything else is log-only.
func (g *generateUC) failed(err error) model.Outcome {
	cat := fault.Classify(err)
	g.log.WithLevel(cat.Level()).
		Str("category", cat.String()).
		Str("err", logging.Redact(err.Error(), g.devMode)).
		Msg("generation failed")

	if cat == fault.Quota {
		metrics.IncGenerationOutcome(g.img.Name(), "advisory")
		return model.AdvisoryOutcome(quotaAdvisory)
	}
	metrics.IncGenerationOutcome(g.img.Name(), "failure")
	return model.FailureOutcome()
}

// normalizePNG decodes whatever encoding the provider returned and
// re-encodes it into an in-memory PNG buffer, read cursor at the start.
// Undecodable bytes are a malformed backend response.
func normalizePNG(raw []byte) (*bytes.Buffer, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fault.ErrMalformedImage
	}
	if format == "png" {
		return bytes.NewBuffer(raw), nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &buf, nil
}
