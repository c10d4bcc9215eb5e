package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Response gating policies. Cooldown blocks a new reaction until the user's
// last one is older than 24 hours; clear relies on an explicit clear action.
const (
	PolicyCooldown = "cooldown"
	PolicyClear    = "clear"
)

type Config struct {
	Port     string `env:"LARDER_PORT" envDefault:"8080"`
	DBPath   string `env:"LARDER_DB_PATH" envDefault:"larder.db"`
	LogLevel string `env:"LARDER_LOG_LEVEL" envDefault:"info"`
	BaseURL  string `env:"LARDER_BASE_URL" envDefault:"http://localhost:8080"`

	// Google Calendar API key for the meal schedule. Empty means the
	// schedule feature reports "not configured".
	CalendarAPIKey string `env:"LARDER_CALENDAR_API_KEY"`

	// ResponsePolicy picks the active response-gating mode: "cooldown"
	// or "clear".
	ResponsePolicy string `env:"LARDER_RESPONSE_POLICY" envDefault:"clear"`

	// Postmark credentials for emailed family invitations. Invitations
	// are disabled when the token is empty.
	PostmarkToken string `env:"LARDER_POSTMARK_TOKEN"`
	FromEmail     string `env:"LARDER_FROM_EMAIL" envDefault:"larder@localhost"`
}

// Load reads configuration from the environment, after loading a local .env
// file if one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.ResponsePolicy != PolicyCooldown && cfg.ResponsePolicy != PolicyClear {
		return Config{}, fmt.Errorf("invalid response policy %q", cfg.ResponsePolicy)
	}

	return cfg, nil
}
