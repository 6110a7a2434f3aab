package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "b64attach"

type config struct {
	// Format is the serialization format of the attachments read and written.
	Format string `default:"json"`
	// MaxSize is the maximum size in bytes of the content read by pack and save.
	MaxSize int64 `split_words:"true" default:"16777216"`
	// DatabaseURL is the PostgreSQL connection string used by migrate, save and load.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	LogLevel    string `split_words:"true" default:"info"`
}

func parseConfig() (*config, error) {
	var cfg config

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse from env, %w", err)
	}

	return &cfg, nil
}

func newLogger(cfg *config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: invalid log level, %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.Encoding = "console"

	l, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("config: failed to build logger, %w", err)
	}

	return l, nil
}
