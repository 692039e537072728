package commands

import (
	"context"

	"github.com/mokshyaprotocol/candymachine-go/candymachine/ops"
	"github.com/mokshyaprotocol/candymachine-go/config"
	"github.com/mokshyaprotocol/candymachine-go/pkg/logger"
)

// ConfigLoaderFunc loads the configuration from the file at path, with environment overrides.
type ConfigLoaderFunc func(path string) (*config.Config, error)

// EnvConfigLoaderFunc loads the configuration from the environment only.
type EnvConfigLoaderFunc func() (*config.Config, error)

// LoggerFactoryFunc builds the logger of a command at level.
type LoggerFactoryFunc func(level string) (logger.Logger, error)

// EnvLoaderFunc builds the harness environment of a command.
type EnvLoaderFunc func(ctx context.Context, cfg *config.Config, lggr logger.Logger) (*ops.Env, error)

// defaultEnvLoader connects to the endpoints of cfg.
func defaultEnvLoader(ctx context.Context, cfg *config.Config, lggr logger.Logger) (*ops.Env, error) {
	return ops.NewEnv(ctx, cfg, lggr)
}

// Deps holds the injectable dependencies of the commands.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the configuration when --config is set.
	// Default: config.Load
	ConfigLoader ConfigLoaderFunc

	// EnvConfigLoader loads the configuration when --config is not set.
	// Default: config.LoadEnv
	EnvConfigLoader EnvConfigLoaderFunc

	// LoggerFactory builds the logger when Config.Logger is nil.
	// Default: logger.NewLevel
	LoggerFactory LoggerFactoryFunc

	// EnvLoader builds the environment the scenarios run in.
	// Default: ops.NewEnv
	EnvLoader EnvLoaderFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = config.Load
	}
	if d.EnvConfigLoader == nil {
		d.EnvConfigLoader = config.LoadEnv
	}
	if d.LoggerFactory == nil {
		d.LoggerFactory = logger.NewLevel
	}
	if d.EnvLoader == nil {
		d.EnvLoader = defaultEnvLoader
	}
}
