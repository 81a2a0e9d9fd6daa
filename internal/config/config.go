// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Config holds the settings shared by the server and the terminal client.
// Command-line flags override them.
type Config struct {
	Port      int    `env:"DUEL_PORT" envDefault:"8080"`
	Rules     string `env:"DUEL_RULES"`
	Catalog   string `env:"DUEL_CATALOG"`
	HistoryDB string `env:"DUEL_HISTORY_DB"`
	LogLevel  string `env:"DUEL_LOG_LEVEL" envDefault:"info"`
	// Seed fixes the shuffle; zero draws a random seed per match.
	Seed uint64 `env:"DUEL_SEED"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
