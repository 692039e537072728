package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mokshyaprotocol/candymachine-go/candymachine/ops"
	"github.com/mokshyaprotocol/candymachine-go/config"
	"github.com/mokshyaprotocol/candymachine-go/pkg/logger"
)

// loadConfig loads the configuration from --config, or from the environment when it is unset.
func loadConfig(cmd *cobra.Command, deps *Deps) (*config.Config, error) {
	path := mustString(cmd.Flags().GetString("config"))

	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = deps.EnvConfigLoader()
	} else {
		cfg, err = deps.ConfigLoader(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// commandLogger returns the injected logger, or one at the level of --log-level or cfg.
func commandLogger(cmd *cobra.Command, cfg Config, c *config.Config) (logger.Logger, error) {
	if cfg.Logger != nil {
		return cfg.Logger, nil
	}

	level := mustString(cmd.Flags().GetString("log-level"))
	if level == "" {
		level = c.LogLevel
	}

	lggr, err := cfg.deps().LoggerFactory(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return lggr, nil
}

// loadEnv loads the configuration and builds the environment of a command. The returned context
// carries the --timeout deadline; call cancel when the command is done.
func loadEnv(cmd *cobra.Command, cfg Config) (*ops.Env, context.Context, context.CancelFunc, error) {
	deps := cfg.deps()

	c, err := loadConfig(cmd, deps)
	if err != nil {
		return nil, nil, nil, err
	}

	lggr, err := commandLogger(cmd, cfg, c)
	if err != nil {
		return nil, nil, nil, err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)

	env, err := deps.EnvLoader(ctx, c, lggr)
	if err != nil {
		cancel()

		return nil, nil, nil, fmt.Errorf("failed to load environment: %w", err)
	}

	return env, ctx, cancel, nil
}
