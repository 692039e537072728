package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aptos-labs/aptos-go-sdk/bcs"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokshyaprotocol/candymachine-go/candymachine"
	"github.com/mokshyaprotocol/candymachine-go/candymachine/ops"
	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
	"github.com/mokshyaprotocol/candymachine-go/chain/aptos/aptostest"
	"github.com/mokshyaprotocol/candymachine-go/config"
	"github.com/mokshyaprotocol/candymachine-go/pkg/logger"
)

// testCLI runs commands against one in-memory chain. Every run builds a fresh command tree, as a
// new process would.
type testCLI struct {
	t    *testing.T
	node *aptostest.Node
	cfg  *config.Config
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()

	return &testCLI{t: t, node: aptostest.NewNode(), cfg: config.Default()}
}

func (c *testCLI) command() *cobra.Command {
	chain := aptostest.NewChain(c.node, &aptostest.Faucet{Node: c.node})

	return NewCommand(Config{
		Logger: logger.Test(c.t),
		Deps: Deps{
			EnvConfigLoader: func() (*config.Config, error) {
				cfg := *c.cfg

				return &cfg, nil
			},
			EnvLoader: func(ctx context.Context, cfg *config.Config, lggr logger.Logger) (*ops.Env, error) {
				return ops.NewEnv(ctx, cfg, lggr,
					ops.WithChain(chain),
					ops.WithIDGenerator(candymachine.FixedIDGenerator("seedy")),
				)
			},
		},
	})
}

func (c *testCLI) run(args ...string) (string, error) {
	c.t.Helper()

	cmd := c.command()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(c.t.Context())

	return out.String(), err
}

func (c *testCLI) env() *ops.Env {
	c.t.Helper()

	env, err := ops.NewEnv(c.t.Context(), c.cfg, logger.Nop(), ops.WithChain(aptostest.NewChain(c.node, nil)))
	require.NoError(c.t, err)

	return env
}

func bcsString(t *testing.T, s string) []byte {
	t.Helper()

	ser := &bcs.Serializer{}
	ser.WriteString(s)
	require.NoError(t, ser.Error())

	return ser.ToBytes()
}

func bcsU64(t *testing.T, v uint64) []byte {
	t.Helper()

	ser := &bcs.Serializer{}
	ser.U64(v)
	require.NoError(t, ser.Error())

	return ser.ToBytes()
}

// TestNewCommand_Structure verifies the command structure is correct.
func TestNewCommand_Structure(t *testing.T) {
	t.Parallel()

	cmd := NewCommand(Config{Logger: logger.Nop()})

	assert.Equal(t, "candymachine", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	timeout := cmd.PersistentFlags().Lookup("timeout")
	require.NotNil(t, timeout)
	assert.Equal(t, defaultTimeout.String(), timeout.DefValue)

	uses := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		uses = append(uses, sub.Use)
	}
	assert.Equal(t, []string{"address", "balance", "config", "fund", "init-candy", "mint"}, uses)
}

// TestNewCommand_ScenarioFlags verifies the flags of the scenario commands.
func TestNewCommand_ScenarioFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		giveArgs  []string
		wantFlags []string
	}{
		{
			name:      "mint",
			giveArgs:  []string{"mint"},
			wantFlags: []string{"collection", "wait", "output"},
		},
		{
			name:     "init-candy",
			giveArgs: []string{"init-candy"},
			wantFlags: []string{
				"name", "description", "base-uri", "seed", "royalty-numerator", "royalty-denominator",
				"presale-price", "public-price", "total-supply", "public-mint-limit", "sbt",
				"open-edition", "wait", "output",
			},
		},
		{
			name:      "balance",
			giveArgs:  []string{"balance"},
			wantFlags: []string{"account"},
		},
		{
			name:      "fund",
			giveArgs:  []string{"fund"},
			wantFlags: []string{"account", "amount"},
		},
		{
			name:      "config init",
			giveArgs:  []string{"config", "init"},
			wantFlags: []string{"file", "force"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewCommand(Config{Logger: logger.Nop()})
			sub, _, err := cmd.Find(tt.giveArgs)
			require.NoError(t, err)

			for _, name := range tt.wantFlags {
				assert.NotNil(t, sub.Flags().Lookup(name), "flag %s", name)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t)
	env := cli.env()

	out, err := cli.run("address")
	require.NoError(t, err)

	assert.Contains(t, out, "alice "+env.Alice.Address.StringLong())
	assert.Contains(t, out, "bob "+env.Bob.Address.StringLong())
}

func TestFundAndBalance(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t)
	env := cli.env()
	alice := env.Alice.Address.StringLong()

	_, err := cli.run("balance", "--account", "alice")
	require.ErrorIs(t, err, aptos.ErrAccountNotFound)

	out, err := cli.run("fund", "--account", "alice", "--amount", "5")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("funded %s with 5 octas\n", alice), out)

	out, err = cli.run("fund", "-a", alice)
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("with %d octas", config.DefaultFundAmount))

	out, err = cli.run("balance", "-a", "alice")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s %d\n", alice, config.DefaultFundAmount+5), out)
}

func TestBalance_invalidAccount(t *testing.T) {
	t.Parallel()

	_, err := newTestCLI(t).run("balance", "--account", "carol")
	require.Error(t, err)
}

func TestMint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		giveArgs    []string
		setup       func(*aptostest.Node)
		wantErrIs   error
		wantOut     []string
		wantWaits   int
		wantSubmits int
	}{
		{
			name:        "text output",
			giveArgs:    []string{"mint"},
			wantOut:     []string{"mint completed 0x", "generate-transaction", "sign-transaction", "submit-transaction"},
			wantSubmits: 1,
		},
		{
			name:        "yaml output with confirmation",
			giveArgs:    []string{"mint", "--wait", "-o", "yaml"},
			wantOut:     []string{"state: completed", "version: 7", "operation: confirm-transaction"},
			wantWaits:   1,
			wantSubmits: 1,
		},
		{
			name:     "rejected",
			giveArgs: []string{"mint"},
			setup: func(n *aptostest.Node) {
				n.SubmitErrs = []error{fmt.Errorf("%w: ESOLD_OUT", aptos.ErrTransactionRejected)}
			},
			wantErrIs:   aptos.ErrTransactionRejected,
			wantOut:     []string{"mint failed"},
			wantSubmits: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cli := newTestCLI(t)
			if tt.setup != nil {
				tt.setup(cli.node)
			}

			out, err := cli.run(tt.giveArgs...)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
			} else {
				require.NoError(t, err)
			}

			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			assert.Equal(t, tt.wantWaits, cli.node.WaitCalls())
			assert.Equal(t, tt.wantSubmits, cli.node.SubmitCalls())
		})
	}
}

func TestMint_collection(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t)
	collection := "0x" + strings.Repeat("ab", 32)

	_, err := cli.run("mint", "--collection", collection)
	require.NoError(t, err)

	ef, sender := cli.node.LastEntryFunction()
	require.NotNil(t, ef)
	assert.Equal(t, "mint_script", ef.Function)
	assert.Equal(t, cli.env().Bob.Address, sender)
	want := aptos.MustParseAddress(collection)
	assert.Equal(t, [][]byte{want[:]}, ef.Args)
}

func TestMint_invalidOutput(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t)

	_, err := cli.run("mint", "-o", "json")
	require.ErrorContains(t, err, `unsupported output format "json"`)
	assert.Zero(t, cli.node.BuildCalls())
}

func TestInitCandy(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t)

	out, err := cli.run("init-candy", "--name", "Gophers", "--total_supply", "10", "--sbt")
	require.NoError(t, err)
	assert.Contains(t, out, "init-candy completed")

	ef, sender := cli.node.LastEntryFunction()
	require.NotNil(t, ef)
	assert.Equal(t, "init_candy", ef.Function)
	assert.Equal(t, cli.env().Alice.Address, sender)
	require.Len(t, ef.Args, 17)
	assert.Equal(t, bcsString(t, "Gophers"), ef.Args[0])
	assert.Equal(t, bcsString(t, "https://mokshya.io/nft/"), ef.Args[2])
	assert.Equal(t, bcsU64(t, 10), ef.Args[10])
	assert.Equal(t, []byte{1}, ef.Args[14])
	assert.Equal(t, bcsString(t, "seedy"), ef.Args[15])
	assert.Equal(t, []byte{0}, ef.Args[16])
}

func TestInitCandy_invalidArgs(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t)
	cli.node.SubmitErrs = []error{fmt.Errorf("%w: EINVALID_ROYALTY_NUMERATOR_DENOMINATOR", aptos.ErrTransactionRejected)}

	out, err := cli.run("init-candy", "--royalty-numerator", "2000")
	require.ErrorIs(t, err, aptos.ErrTransactionRejected)
	assert.Contains(t, out, "init-candy failed")
	assert.Equal(t, 1, cli.node.SubmitCalls())
}

func TestConfigLoading(t *testing.T) {
	t.Parallel()

	var (
		loadedPath string
		envLoads   int
		levels     []string
	)
	node := aptostest.NewNode()

	newCmd := func(lggr logger.Logger) *cobra.Command {
		return NewCommand(Config{
			Logger: lggr,
			Deps: Deps{
				ConfigLoader: func(path string) (*config.Config, error) {
					loadedPath = path
					cfg := config.Default()
					cfg.LogLevel = "warn"

					return cfg, nil
				},
				EnvConfigLoader: func() (*config.Config, error) {
					envLoads++

					return config.Default(), nil
				},
				LoggerFactory: func(level string) (logger.Logger, error) {
					levels = append(levels, level)

					return logger.Test(t), nil
				},
				EnvLoader: func(ctx context.Context, cfg *config.Config, lggr logger.Logger) (*ops.Env, error) {
					return ops.NewEnv(ctx, cfg, lggr, ops.WithChain(aptostest.NewChain(node, nil)))
				},
			},
		})
	}

	execute := func(cmd *cobra.Command, args ...string) error {
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetArgs(args)

		return cmd.ExecuteContext(t.Context())
	}

	require.NoError(t, execute(newCmd(nil), "address"))
	assert.Equal(t, 1, envLoads)
	assert.Empty(t, loadedPath)

	require.NoError(t, execute(newCmd(nil), "address", "-c", "harness.yml"))
	assert.Equal(t, "harness.yml", loadedPath)

	require.NoError(t, execute(newCmd(nil), "address", "--config", "harness.toml", "--log-level", "debug"))
	assert.Equal(t, "harness.toml", loadedPath)

	require.NoError(t, execute(newCmd(logger.Nop()), "address"))

	assert.Equal(t, []string{config.DefaultLogLevel, "warn", "debug"}, levels)
}

func TestConfigLoading_errors(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("boom")

	tests := []struct {
		name    string
		deps    Deps
		wantErr string
	}{
		{
			name: "config",
			deps: Deps{
				EnvConfigLoader: func() (*config.Config, error) { return nil, loadErr },
			},
			wantErr: "failed to load config",
		},
		{
			name: "logger",
			deps: Deps{
				EnvConfigLoader: func() (*config.Config, error) { return config.Default(), nil },
				LoggerFactory:   func(string) (logger.Logger, error) { return nil, loadErr },
			},
			wantErr: "failed to create logger",
		},
		{
			name: "environment",
			deps: Deps{
				EnvConfigLoader: func() (*config.Config, error) { return config.Default(), nil },
				LoggerFactory:   func(string) (logger.Logger, error) { return logger.Nop(), nil },
				EnvLoader: func(context.Context, *config.Config, logger.Logger) (*ops.Env, error) {
					return nil, loadErr
				},
			},
			wantErr: "failed to load environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewCommand(Config{Deps: tt.deps})
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs([]string{"address"})

			err := cmd.ExecuteContext(t.Context())
			require.ErrorIs(t, err, loadErr)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "candymachine.toml")
	cli := newTestCLI(t)

	out, err := cli.run("config", "init", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", out)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = cli.run("config", "init", "-f", path)
	require.ErrorContains(t, err, "already exists")

	_, err = cli.run("config", "init", "--file", path, "--force")
	require.NoError(t, err)

	_, err = cli.run("config", "init", "-o", path, "--force")
	require.ErrorContains(t, err, "unknown shorthand flag: 'o'")
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t)
	cli.cfg.Network = "devnet"

	out, err := cli.run("config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "network: devnet")
	assert.NotContains(t, out, config.DefaultAliceKey)
	assert.NotContains(t, out, config.DefaultBobKey)
}
