package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds settings shared by the pocketcg commands. Command-line flags
// default to these values.
type Config struct {
	CardsFile string `env:"POCKETCG_CARDS"      envDefault:"resources/cards.json"`
	DecksFile string `env:"POCKETCG_DECKS"      envDefault:"decks.yaml"`
	Seed      int64  `env:"POCKETCG_SEED"       envDefault:"0"`
	MaxTurns  int    `env:"POCKETCG_MAX_TURNS"  envDefault:"200"`
	LogLevel  string `env:"POCKETCG_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"POCKETCG_LOG_FORMAT" envDefault:"console"`
	HTTPPort  string `env:"POCKETCG_HTTP_PORT"  envDefault:"8080"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewLogger builds a zap logger: JSON in production format, colored console
// otherwise.
func (c Config) NewLogger() (*zap.Logger, error) {
	var level zapcore.Level
	switch c.LogLevel {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if c.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	// stdout carries the game; keep logs off it
	zapCfg.OutputPaths = []string{"stderr"}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
