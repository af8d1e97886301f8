// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token       string `yaml:"token"`
	PollTimeout int    `yaml:"poll_timeout"` // long-poll window, seconds
}

type ImageConfig struct {
	Provider  string `yaml:"provider"` // huggingface | openai | gemini
	Model     string `yaml:"model"`
	HFKey     string `yaml:"hf_key"`
	HFBaseURL string `yaml:"hf_base_url"`
	OpenAIKey string `yaml:"openai_key"`
	GeminiKey string `yaml:"gemini_key"`
	GeminiURL string `yaml:"gemini_url"`
}

type LoopConfig struct {
	IdleSleep  time.Duration `yaml:"idle_sleep"`  // between cycles
	FaultPause time.Duration `yaml:"fault_pause"` // after an unhandled fault
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"` // /healthz and /metrics
}

type Config struct {
	Bot   BotConfig   `yaml:"bot"`
	Image ImageConfig `yaml:"image"`
	Loop  LoopConfig  `yaml:"loop"`
	Log   LogConfig   `yaml:"log"`
	Admin AdminConfig `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, then applies .env / environment overrides
// for the two secrets. A missing config file is not fatal: the bot token and
// image key may arrive via environment, and even without them the process
// must start in a degraded mode where dependent calls fail gracefully.
func LoadConfig(path string, dev bool) (*Config, error) {
	_ = godotenv.Load() // best effort; absence of .env is normal

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only configuration
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("HF_TOKEN"); v != "" {
		cfg.Image.HFKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Image.OpenAIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Image.GeminiKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.PollTimeout <= 0 {
		cfg.Bot.PollTimeout = 30
	}
	if cfg.Loop.IdleSleep <= 0 {
		cfg.Loop.IdleSleep = time.Second
	}
	if cfg.Loop.FaultPause <= 0 {
		cfg.Loop.FaultPause = 5 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 9090
	}
	if cfg.Image.Model == "" {
		cfg.Image.Model = "stabilityai/stable-diffusion-xl-base-1.0"
	}
	if cfg.Image.HFBaseURL == "" {
		cfg.Image.HFBaseURL = "https://api-inference.huggingface.co"
	}
}
