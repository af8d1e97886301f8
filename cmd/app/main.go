// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-image-bot/internal/application"
	"telegram-image-bot/internal/config"
	"telegram-image-bot/internal/domain/ports/adapter"
	imgAdapters "telegram-image-bot/internal/infra/adapters/image"
	"telegram-image-bot/internal/infra/logging"
	"telegram-image-bot/internal/infra/metrics"
	tele "telegram-image-bot/internal/infra/telegram"
	"telegram-image-bot/internal/infra/web"
	"telegram-image-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Image backend (HuggingFace -> OpenAI -> Gemini) ----
	// Provider and model are picked once at startup; a missing key does not
	// stop the process, it degrades to a noop backend that fails per call.
	var img adapter.ImageServiceAdapter
	switch {
	case cfg.Image.HFKey != "":
		img, err = imgAdapters.NewHuggingFaceAdapter(cfg.Image.HFKey, cfg.Image.HFBaseURL)
		if err != nil {
			log.Fatalf("huggingface adapter: %v", err)
		}
		logger.Info().Str("provider", "huggingface").Str("model", cfg.Image.Model).Msg("image backend ready")
	case cfg.Image.OpenAIKey != "":
		img, err = imgAdapters.NewOpenAIAdapter(cfg.Image.OpenAIKey)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("provider", "openai").Str("model", cfg.Image.Model).Msg("image backend ready")
	case cfg.Image.GeminiKey != "":
		img, err = imgAdapters.NewGeminiAdapter(ctx, cfg.Image.GeminiKey, cfg.Image.GeminiURL)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		logger.Info().Str("provider", "gemini").Str("model", cfg.Image.Model).Msg("image backend ready")
	default:
		img = imgAdapters.NewNoopAdapter()
		logger.Error().Msg("no image provider key configured; generation will fail per call")
	}

	genUC := usecase.NewGenerateUseCase(img, cfg.Image.Model, cfg.Runtime.Dev, logger)

	// ---- Telegram ----
	bot := tele.NewClient(&cfg.Bot, cfg.Runtime.Dev, logger)

	// ---- Dispatcher ----
	dispatcher := application.NewDispatcher(bot, genUC, bot, cfg.Loop, logger)
	go func() {
		if err := dispatcher.Run(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("dispatcher stopped")
		}
	}()

	// ---- Ops HTTP server (/healthz, /metrics) ----
	ops := web.NewServer(cfg.Admin.Port, logger)
	go ops.Start()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = ops.Shutdown(shutdownCtx)
}
