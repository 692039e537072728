package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mokshyaprotocol/candymachine-go/config"
)

// newConfigCmd creates the "config" command group.
func newConfigCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Config commands",
	}

	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(cfg))

	return cmd
}

// newConfigInitCmd creates the "config init" command writing the default configuration.
func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to a file",
		Long: `Write the default configuration to a file.

Account keys are never written. Set them with CANDY_ALICE_KEY and CANDY_BOB_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := mustString(cmd.Flags().GetString("file"))

			if !mustBool(cmd.Flags().GetBool("force")) {
				if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
				}
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "candymachine.yml", "Output file path (.yml, .yaml or .toml)")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")

	return cmd
}

// newConfigShowCmd creates the "config show" command printing the effective configuration.
func newConfigShowCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration without keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd, cfg.deps())
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(c.Redacted()); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			return enc.Close()
		},
	}
}
