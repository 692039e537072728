package commands

import (
	"github.com/spf13/cobra"
)

// newAddressCmd creates the "address" command printing the addresses of Alice and Bob.
func newAddressCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the addresses of the configured accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, _, cancel, err := loadEnv(cmd, cfg)
			if err != nil {
				return err
			}
			defer cancel()

			cmd.Printf("alice %s\n", env.Alice.Address.StringLong())
			cmd.Printf("bob %s\n", env.Bob.Address.StringLong())

			return nil
		},
	}
}

// newBalanceCmd creates the "balance" command printing the APT balance of an account in octas.
func newBalanceCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the APT balance of an account in octas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, ctx, cancel, err := loadEnv(cmd, cfg)
			if err != nil {
				return err
			}
			defer cancel()

			address, err := env.ResolveAccount(mustString(cmd.Flags().GetString("account")))
			if err != nil {
				return err
			}

			balance, err := env.Balance(ctx, address)
			if err != nil {
				return err
			}
			cmd.Printf("%s %d\n", address.StringLong(), balance)

			return nil
		},
	}

	accountFlag(cmd, "bob")

	return cmd
}

// newFundCmd creates the "fund" command requesting test tokens from the faucet.
func newFundCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Fund an account from the faucet",
		Long: `Fund an account from the faucet of the configured network.

Mainnet has no faucet. Without --amount the configured fund_amount is requested.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, ctx, cancel, err := loadEnv(cmd, cfg)
			if err != nil {
				return err
			}
			defer cancel()

			address, err := env.ResolveAccount(mustString(cmd.Flags().GetString("account")))
			if err != nil {
				return err
			}

			amount := mustUint64(cmd.Flags().GetUint64("amount"))
			if amount == 0 {
				amount = env.FundAmount
			}

			if err := env.Fund(ctx, address, amount); err != nil {
				return err
			}
			cmd.Printf("funded %s with %d octas\n", address.StringLong(), amount)

			return nil
		},
	}

	accountFlag(cmd, "bob")
	cmd.Flags().Uint64("amount", 0, "Octas to request. Default is the configured fund_amount")

	return cmd
}
