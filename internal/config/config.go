package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppEnv string `env:"APP_ENV"  envDefault:"development"`
	Addr   string `env:"ADDR"    envDefault:":8000"`
	DBPath string `env:"DB_PATH" envDefault:"reviewhub.sqlite"`

	// Hosted identity provider; token issuance and validation are
	// delegated entirely to it.
	AuthURL     string `env:"AUTH_URL"`
	AuthAnonKey string `env:"AUTH_ANON_KEY"`

	// Provider credentials for summary generation. OpenAI wins when both
	// are set.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// Minimum interval between summary generations per user.
	SummaryMinInterval time.Duration `env:"SUMMARY_MIN_INTERVAL" envDefault:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
