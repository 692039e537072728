package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// Output formats of the scenario commands.
const (
	outputText = "text"
	outputYAML = "yaml"
)

// mustString returns the string value, ignoring the error.
// Safe to use with registered flags where GetString cannot fail.
func mustString(s string, _ error) string { return s }

// mustBool returns the bool value, ignoring the error.
func mustBool(b bool, _ error) bool { return b }

// mustUint64 returns the uint64 value, ignoring the error.
func mustUint64(u uint64, _ error) uint64 { return u }

// accountFlag adds the --account/-a flag selecting alice, bob or an address.
func accountFlag(cmd *cobra.Command, defaultValue string) {
	cmd.Flags().StringP("account", "a", defaultValue, "Account: alice, bob or an address")
}

// waitFlag adds the --wait flag. Unset, the configured wait_for_confirmation applies.
func waitFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("wait", false, "Wait until the transaction is committed")
}

// outputFlag adds the --output/-o flag selecting the format of a scenario result.
func outputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", outputText, "Output format: text or yaml")
}

// outputFormat returns the validated --output value.
func outputFormat(cmd *cobra.Command) (string, error) {
	format := mustString(cmd.Flags().GetString("output"))
	if !slices.Contains([]string{outputText, outputYAML}, format) {
		return "", fmt.Errorf("unsupported output format %q", format)
	}

	return format, nil
}
