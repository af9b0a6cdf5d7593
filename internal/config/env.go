package config

import (
	"github.com/caarlos0/env/v11"

	apperrors "github.com/agbru/fibtree/internal/errors"
)

// EnvPrefix is prepended to the env tag of every AppConfig field, so N is
// read from FIBTREE_N and LogLevel from FIBTREE_LOG_LEVEL.
const EnvPrefix = "FIBTREE_"

// loadEnv returns the defaults overlaid with FIBTREE_* environment
// variables. Flags parsed afterwards take these values as their defaults,
// which gives the priority flags > environment > defaults. Malformed values
// are configuration errors rather than being silently ignored.
func loadEnv() (AppConfig, error) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return AppConfig{}, apperrors.NewConfigError("parse env: %v", err)
	}
	return cfg, nil
}
