// Package commands provides the cobra commands of the candymachine CLI.
//
// Usage:
//
//	root := commands.NewCommand(commands.Config{})
//	if err := root.ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
//
// Every command loads the configuration and builds an ops.Env through Config.Deps, so tests can
// run the commands against an in-memory chain:
//
//	root := commands.NewCommand(commands.Config{
//	    Logger: lggr,
//	    Deps:   commands.Deps{EnvLoader: myEnvLoader},
//	})
package commands

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mokshyaprotocol/candymachine-go/pkg/logger"
)

// defaultTimeout bounds every command that talks to the chain.
const defaultTimeout = 2 * time.Minute

// Config holds the configuration of the commands.
type Config struct {
	// Logger is the logger to use for command output. Optional: when nil, a logger is built at
	// the configured log level.
	Logger logger.Logger

	// Deps holds optional dependencies that can be overridden.
	// If fields are nil, production defaults are used.
	Deps Deps
}

// deps returns the Deps with defaults applied.
func (c *Config) deps() *Deps {
	c.Deps.applyDefaults()

	return &c.Deps
}

// NewCommand creates the root candymachine command with all subcommands.
func NewCommand(cfg Config) *cobra.Command {
	// Apply defaults for optional dependencies
	cfg.deps()

	cmd := &cobra.Command{
		Use:   "candymachine",
		Short: "Exercise a candy machine contract on Aptos",
		Long: `Exercise a candy machine contract on Aptos.

The commands sign as two accounts derived from the configured keys: Alice creates candy
machines and Bob mints from them. The configuration is read from the file given with --config
and from CANDY_* environment variables, which take precedence.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Config file (.yml, .yaml or .toml). Default is the environment only")
	cmd.PersistentFlags().String("log-level", "", "Log level, overrides the configured one")
	cmd.PersistentFlags().Duration("timeout", defaultTimeout, "Timeout of commands that talk to the chain")

	cmd.SetGlobalNormalizationFunc(wordSepNormalizeFunc)

	cmd.AddCommand(
		newAddressCmd(cfg),
		newBalanceCmd(cfg),
		newFundCmd(cfg),
		newMintCmd(cfg),
		newInitCandyCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}

// wordSepNormalizeFunc accepts the snake_case spelling of every flag, as used by the config keys.
func wordSepNormalizeFunc(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
