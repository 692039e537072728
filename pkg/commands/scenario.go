package commands

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mokshyaprotocol/candymachine-go/candymachine/ops"
)

// newMintCmd creates the "mint" command in which Bob mints a token.
func newMintCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a token from a candy machine as Bob",
		Example: `  candymachine mint
  candymachine mint --collection 0x1ef0...4eab --wait -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			env, ctx, cancel, err := loadEnv(cmd, cfg)
			if err != nil {
				return err
			}
			defer cancel()
			applyWait(cmd, env)

			result, err := env.Mint(ctx, mustString(cmd.Flags().GetString("collection")))

			return printResult(cmd, format, result, err)
		},
	}

	cmd.Flags().String("collection", "", "Collection address. Default is the configured mint.collection")
	waitFlag(cmd)
	outputFlag(cmd)

	return cmd
}

// newInitCandyCmd creates the "init-candy" command in which Alice creates a candy machine.
func newInitCandyCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-candy",
		Short: "Create a candy machine as Alice",
		Long: `Create a candy machine as Alice.

Unset flags keep the values of the test collection: presale 10 seconds and public sale
15 seconds from now, a price of 1 octa, 2000 tokens, 4.2% royalty to Alice and a random seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			env, ctx, cancel, err := loadEnv(cmd, cfg)
			if err != nil {
				return err
			}
			defer cancel()
			applyWait(cmd, env)

			args := env.DefaultInitCandyArgs()
			f := cmd.Flags()
			if f.Changed("name") {
				args.Name = mustString(f.GetString("name"))
			}
			if f.Changed("description") {
				args.Description = mustString(f.GetString("description"))
			}
			if f.Changed("base-uri") {
				args.BaseURI = mustString(f.GetString("base-uri"))
			}
			if f.Changed("seed") {
				args.Seed = mustString(f.GetString("seed"))
			}
			if f.Changed("royalty-numerator") {
				args.RoyaltyNumerator = mustUint64(f.GetUint64("royalty-numerator"))
			}
			if f.Changed("royalty-denominator") {
				args.RoyaltyDenominator = mustUint64(f.GetUint64("royalty-denominator"))
			}
			if f.Changed("presale-price") {
				args.PresaleMintPrice = mustUint64(f.GetUint64("presale-price"))
			}
			if f.Changed("public-price") {
				args.PublicSalePrice = mustUint64(f.GetUint64("public-price"))
			}
			if f.Changed("total-supply") {
				args.TotalSupply = mustUint64(f.GetUint64("total-supply"))
			}
			if f.Changed("public-mint-limit") {
				args.PublicMintLimit = mustUint64(f.GetUint64("public-mint-limit"))
			}
			args.IsSBT = mustBool(f.GetBool("sbt"))
			args.IsOpenEdition = mustBool(f.GetBool("open-edition"))

			result, err := env.InitCandyMachine(ctx, &args)

			return printResult(cmd, format, result, err)
		},
	}

	f := cmd.Flags()
	f.String("name", "", "Collection name")
	f.String("description", "", "Collection description")
	f.String("base-uri", "", "Base URI of the token metadata")
	f.String("seed", "", "Seed of the candy machine resource account")
	f.Uint64("royalty-numerator", 0, "Royalty numerator")
	f.Uint64("royalty-denominator", 0, "Royalty denominator")
	f.Uint64("presale-price", 0, "Presale mint price in octas")
	f.Uint64("public-price", 0, "Public sale price in octas")
	f.Uint64("total-supply", 0, "Number of tokens")
	f.Uint64("public-mint-limit", 0, "Tokens per public minter, 0 for no limit")
	f.Bool("sbt", false, "Mint soulbound tokens")
	f.Bool("open-edition", false, "Create an open edition")
	waitFlag(cmd)
	outputFlag(cmd)

	return cmd
}

// applyWait overrides the configured confirmation wait when --wait is set.
func applyWait(cmd *cobra.Command, env *ops.Env) {
	if cmd.Flags().Changed("wait") {
		env.WaitForConfirmation = mustBool(cmd.Flags().GetBool("wait"))
	}
}

// printResult prints result in format and returns the scenario error. The text format is a
// summary line followed by a table of the operation reports.
func printResult(cmd *cobra.Command, format string, result *ops.ScenarioResult, scenarioErr error) error {
	if result == nil {
		return scenarioErr
	}

	if format == outputYAML {
		if err := result.WriteYAML(cmd.OutOrStdout()); err != nil {
			return err
		}

		return scenarioErr
	}

	line := result.Name + " " + string(result.State)
	if result.Hash != "" {
		line += " " + result.Hash
	}
	cmd.Println(line)

	if len(result.Reports) > 0 {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Operation", "Version", "Report ID", "Error"})
		table.SetAutoWrapText(false)
		table.SetBorders(tablewriter.Border{
			Left:   false,
			Right:  false,
			Top:    true,
			Bottom: true,
		})
		for _, r := range result.Reports {
			table.Append([]string{r.Operation, r.Version, r.ID, r.Error})
		}
		table.Render()
	}

	return scenarioErr
}
