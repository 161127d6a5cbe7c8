// Package config holds the settings shared by the rawdeal binaries.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is read from the environment; command-line flags override it.
type Config struct {
	CardsFile      string `env:"RAWDEAL_CARDS"      envDefault:"data/cards.yaml"`
	SuperstarsFile string `env:"RAWDEAL_SUPERSTARS" envDefault:"data/superstars.yaml"`
	DecksPath      string `env:"RAWDEAL_DECKS"      envDefault:"data/decks.yaml"`
	Port           string `env:"RAWDEAL_PORT"       envDefault:"9000"`
	WebPort        string `env:"RAWDEAL_WEB_PORT"   envDefault:"8080"`
	HistoryDB      string `env:"RAWDEAL_HISTORY_DB"`
	LogLevel       string `env:"RAWDEAL_LOG_LEVEL"  envDefault:"info"`
	LogDev         bool   `env:"RAWDEAL_LOG_DEV"`
}

// Load returns the configuration from environment variables and defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the process logger. Development mode writes readable console
// lines; otherwise JSON.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	zc := zap.NewProductionConfig()
	if c.LogDev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	// Game output goes to stdout; keep diagnostics off it.
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
