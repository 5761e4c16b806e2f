// Package config loads server configuration from the environment.
//
// A .env file in the working directory, if present, is loaded first. Values
// already set in the process environment win over the file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is every setting the server reads at startup.
type Config struct {
	Port   int    `env:"PORT, default=8080"`
	DBPath string `env:"DB_PATH, default=data/devoverflow.db"`

	// WebhookSecret is the identity provider's Svix signing secret. The
	// server starts without it; the webhook endpoint then answers 500.
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// SessionSecret signs and verifies session tokens. Shorter than 16
	// characters disables every route that needs a signed-in user.
	SessionSecret string `env:"SESSION_SECRET"`
	SessionIssuer string `env:"SESSION_ISSUER, default=devoverflow"`

	LogFormat string `env:"LOG_FORMAT, default=text"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	HotQuestionsLimit int `env:"HOT_QUESTIONS_LIMIT, default=5"`
	PopularTagsLimit  int `env:"POPULAR_TAGS_LIMIT, default=5"`
}

// Load reads the optional .env file, then the environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: processing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("config: DB_PATH must not be empty")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return level, nil
}

// AuthEnabled reports whether SessionSecret is long enough to sign tokens.
func (c *Config) AuthEnabled() bool {
	return len(c.SessionSecret) >= 16
}
