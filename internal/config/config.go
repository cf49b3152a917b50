// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Responder
	OpenAIAPIKey       string `env:"OPENAI_API_KEY"`
	OpenAIModel        string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAISystemPrompt string `env:"OPENAI_SYSTEM_PROMPT"`
	StaticReply        string `env:"STATIC_REPLY"`

	// Relay
	RelayTimeout time.Duration `env:"RELAY_TIMEOUT" envDefault:"30s"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Optional bot created on startup when the token is set.
	SeedBotName  string `env:"SEED_BOT_NAME" envDefault:"default"`
	SeedBotToken string `env:"SEED_BOT_TOKEN"`
}

// Load reads a .env file if present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RelayTimeout <= 0 {
		return nil, errors.New("RELAY_TIMEOUT must be positive")
	}
	return cfg, nil
}
