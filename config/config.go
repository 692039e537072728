// Package config loads the harness configuration from a file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	chain_selectors "github.com/smartcontractkit/chain-selectors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
)

// MintConfig is the configuration of the mint scenario.
type MintConfig struct {
	// Address of the candy machine resource account to mint from.
	Collection string `mapstructure:"collection" yaml:"collection" toml:"collection"`
}

// RetryConfig controls retries of failed network calls. Retries are off unless enabled.
type RetryConfig struct {
	Enabled     bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	MaxAttempts uint `mapstructure:"max_attempts" yaml:"max_attempts" toml:"max_attempts"`
}

// Config wraps the entire configuration of the harness.
//
// WARNING: AliceKey and BobKey are private keys. They should be supplied through the
// environment, and are never written by Save.
type Config struct {
	// Network selects one of the Networks presets.
	Network       string `mapstructure:"network" yaml:"network" toml:"network"`
	// NodeURL, FaucetURL and ChainSelector override the preset when set.
	NodeURL       string `mapstructure:"node_url" yaml:"node_url,omitempty" toml:"node_url,omitempty"`
	FaucetURL     string `mapstructure:"faucet_url" yaml:"faucet_url,omitempty" toml:"faucet_url,omitempty"`
	ChainSelector uint64 `mapstructure:"chain_selector" yaml:"chain_selector,omitempty" toml:"chain_selector,omitempty"`

	// ContractAddress is the address the candy machine module is published under.
	ContractAddress string `mapstructure:"contract_address" yaml:"contract_address" toml:"contract_address"`
	ModuleName      string `mapstructure:"module_name" yaml:"module_name" toml:"module_name"`

	// Secret: hex seeds of the collection creator and of the minter.
	AliceKey string `mapstructure:"alice_key" yaml:"alice_key,omitempty" toml:"alice_key,omitempty"`
	BobKey   string `mapstructure:"bob_key" yaml:"bob_key,omitempty" toml:"bob_key,omitempty"`

	Mint MintConfig `mapstructure:"mint" yaml:"mint" toml:"mint"`

	LogLevel            string      `mapstructure:"log_level" yaml:"log_level" toml:"log_level"`
	// FundAmount is the amount of octas requested per faucet call.
	FundAmount          uint64      `mapstructure:"fund_amount" yaml:"fund_amount" toml:"fund_amount"`
	WaitForConfirmation bool        `mapstructure:"wait_for_confirmation" yaml:"wait_for_confirmation" toml:"wait_for_confirmation"`
	Retry               RetryConfig `mapstructure:"retry" yaml:"retry" toml:"retry"`
}

// Network is a named set of endpoints.
type Network struct {
	NodeURL   string
	FaucetURL string
	// Zero when the network has no registered selector. The chain id is then read from the node.
	ChainSelector uint64
}

// Networks are the built in network presets.
var Networks = map[string]Network{
	"mainnet": {
		NodeURL:       "https://fullnode.mainnet.aptoslabs.com/v1",
		ChainSelector: chain_selectors.APTOS_MAINNET.Selector,
	},
	"testnet": {
		NodeURL:       "https://fullnode.testnet.aptoslabs.com/v1",
		FaucetURL:     "https://faucet.testnet.aptoslabs.com",
		ChainSelector: chain_selectors.APTOS_TESTNET.Selector,
	},
	"devnet": {
		NodeURL:   "https://fullnode.devnet.aptoslabs.com/v1",
		FaucetURL: "https://faucet.devnet.aptoslabs.com",
	},
	"localnet": {
		NodeURL:       "http://127.0.0.1:8080/v1",
		FaucetURL:     "http://127.0.0.1:8081",
		ChainSelector: chain_selectors.APTOS_LOCALNET.Selector,
	},
}

// Default values. The keys are well known test keys and must never hold funds on mainnet.
const (
	DefaultNetwork         = "testnet"
	DefaultContractAddress = "0x511f963111905e2ae9cf79b00a9b9fa237dc6962e87018af3023615d7853d8fd"
	DefaultModuleName      = "candymachine"
	DefaultAliceKey        = "0x1111111111111111111111111111111111111111111111111111111111111111"
	DefaultBobKey          = "0x2111111111111111111111111111111111111111111111111111111111111111"
	DefaultCollection      = "0x1ef083efe4fe41a088aa2da78ddd9f953850bd4d9a2590fa0b5b33b048634eab"
	DefaultLogLevel        = "info"
	DefaultFundAmount      = 100_000_000
	DefaultRetryAttempts   = 3
)

// RemoteClientConfig are the resolved endpoints a run talks to. It holds no clients, so it can be
// shared by every scenario of a run.
type RemoteClientConfig struct {
	NodeURL       string
	FaucetURL     string
	ChainSelector uint64
}

// Default returns the configuration used when neither a file nor the environment set a value.
func Default() *Config {
	return &Config{
		Network:         DefaultNetwork,
		ContractAddress: DefaultContractAddress,
		ModuleName:      DefaultModuleName,
		AliceKey:        DefaultAliceKey,
		BobKey:          DefaultBobKey,
		Mint: MintConfig{
			Collection: DefaultCollection,
		},
		LogLevel:   DefaultLogLevel,
		FundAmount: DefaultFundAmount,
		Retry: RetryConfig{
			MaxAttempts: DefaultRetryAttempts,
		},
	}
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
// Keys set nowhere keep their Default value.
func Load(filePath string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(filePath)

	// If the config file exists, we continue to read it, otherwise we fallback to using
	// environment variables
	if _, err = os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err = v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
		}
	}

	return unmarshal(v)
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	return unmarshal(v)
}

// LoadFile loads the config from a file, ignoring the environment.
func LoadFile(filePath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(filePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	return unmarshal(v)
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	return v, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("network", def.Network)
	v.SetDefault("contract_address", def.ContractAddress)
	v.SetDefault("module_name", def.ModuleName)
	v.SetDefault("alice_key", def.AliceKey)
	v.SetDefault("bob_key", def.BobKey)
	v.SetDefault("mint.collection", def.Mint.Collection)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("fund_amount", def.FundAmount)
	v.SetDefault("wait_for_confirmation", def.WaitForConfirmation)
	v.SetDefault("retry.enabled", def.Retry.Enabled)
	v.SetDefault("retry.max_attempts", def.Retry.MaxAttempts)
}

var (
	// envBindings maps config keys to the environment variables that can provide them. The first
	// name is the preferred one, the second (if present) is the name the original test script
	// used. Viper uses the first one that is set.
	envBindings = map[string][]string{
		"network":               {"CANDY_NETWORK", "APTOS_NETWORK"},
		"node_url":              {"CANDY_NODE_URL", "NODE_URL"},
		"faucet_url":            {"CANDY_FAUCET_URL", "FAUCET_URL"},
		"chain_selector":        {"CANDY_CHAIN_SELECTOR"},
		"contract_address":      {"CANDY_CONTRACT_ADDRESS", "PID"},
		"module_name":           {"CANDY_MODULE_NAME"},
		"alice_key":             {"CANDY_ALICE_KEY", "ALICE_KEY"},
		"bob_key":               {"CANDY_BOB_KEY", "BOB_KEY"},
		"mint.collection":       {"CANDY_MINT_COLLECTION", "COLLECTION"},
		"log_level":             {"CANDY_LOG_LEVEL", "LOG_LEVEL"},
		"fund_amount":           {"CANDY_FUND_AMOUNT"},
		"wait_for_confirmation": {"CANDY_WAIT_FOR_CONFIRMATION"},
		"retry.enabled":         {"CANDY_RETRY_ENABLED"},
		"retry.max_attempts":    {"CANDY_RETRY_MAX_ATTEMPTS"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}

// Validate reports every problem of the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := Networks[c.Network]; !ok && c.Network != "" {
		errs = append(errs, fmt.Errorf("unknown network %q, expected one of %s", c.Network, strings.Join(networkNames(), ", ")))
	}
	if c.Network == "" && c.NodeURL == "" {
		errs = append(errs, errors.New("node url is required when no network is set"))
	}
	if _, err := aptos.ParseAddress(c.ContractAddress); err != nil {
		errs = append(errs, fmt.Errorf("invalid contract address: %w", err))
	}
	if c.ModuleName == "" {
		errs = append(errs, errors.New("module name is required"))
	}
	if _, err := aptos.ParseAddress(c.Mint.Collection); err != nil {
		errs = append(errs, fmt.Errorf("invalid mint collection: %w", err))
	}
	if c.ChainSelector != 0 {
		if family, err := chain_selectors.GetSelectorFamily(c.ChainSelector); err != nil {
			errs = append(errs, fmt.Errorf("invalid chain selector %d: %w", c.ChainSelector, err))
		} else if family != chain_selectors.FamilyAptos {
			errs = append(errs, fmt.Errorf("chain selector %d belongs to %s, not aptos", c.ChainSelector, family))
		}
	}
	if c.Retry.Enabled && c.Retry.MaxAttempts == 0 {
		errs = append(errs, errors.New("retry max attempts must be positive when retry is enabled"))
	}

	return errors.Join(errs...)
}

// RemoteClient resolves the endpoints of the run: explicit URLs and selector win over the
// network preset. An explicit node URL without an explicit selector clears the preset selector.
func (c *Config) RemoteClient() RemoteClientConfig {
	preset := Networks[c.Network]

	rc := RemoteClientConfig{
		NodeURL:       preset.NodeURL,
		FaucetURL:     preset.FaucetURL,
		ChainSelector: preset.ChainSelector,
	}
	if c.NodeURL != "" {
		// The preset selector only describes the preset node. Zero lets the client read the
		// chain id from the node itself.
		rc.NodeURL = c.NodeURL
		rc.ChainSelector = 0
	}
	if c.FaucetURL != "" {
		rc.FaucetURL = c.FaucetURL
	}
	if c.ChainSelector != 0 {
		rc.ChainSelector = c.ChainSelector
	}

	return rc
}

// Redacted returns a copy of the config without the private keys.
func (c Config) Redacted() Config {
	c.AliceKey = ""
	c.BobKey = ""

	return c
}

// Save writes the config without its private keys to filePath. The format follows the file
// extension: .yml, .yaml or .toml.
func (c *Config) Save(filePath string) error {
	redacted := c.Redacted()

	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".yml", ".yaml":
		data, err = yaml.Marshal(&redacted)
	case ".toml":
		data, err = toml.Marshal(&redacted)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err = os.WriteFile(filePath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filePath, err)
	}

	return nil
}

func networkNames() []string {
	names := make([]string, 0, len(Networks))
	for name := range Networks {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
