package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mokshyaprotocol/candymachine-go/chain"
	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
	"github.com/mokshyaprotocol/candymachine-go/chain/internal/common"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider. It only
// carries endpoint URLs, so one value can be shared by every scenario of a run.
type RPCChainProviderConfig struct {
	// Required: The URL of the Aptos full node REST API, including the /v1 suffix.
	NodeURL string
	// Optional: The URL of the faucet. Without it the chain cannot fund accounts.
	FaucetURL string
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.NodeURL == "" {
		return errors.New("node url is required")
	}

	return nil
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider that provides a chain that connects to a remote Aptos
// full node and faucet over HTTP.
type RPCChainProvider struct {
	// Aptos chain selector, used to identify the chain. Zero means the chain id is discovered
	// from the node.
	selector uint64

	// RPCChainProviderConfig holds the configuration for the RPCChainProvider.
	config RPCChainProviderConfig

	// chain is the Aptos chain instance that this provider manages. The Initialize method
	// sets up the chain.
	chain *aptos.Chain
}

// NewRPCChainProvider creates a new RPCChainProvider with the given selector and configuration.
func NewRPCChainProvider(selector uint64, config RPCChainProviderConfig) *RPCChainProvider {
	p := &RPCChainProvider{
		selector: selector,
		config:   config,
	}

	return p
}

// Initialize initializes the RPCChainProvider, validating the configuration and setting up the
// node and faucet clients. No network call is made.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	// Validate the provider configuration
	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	chainID, err := chainIDFromSelector(p.selector)
	if err != nil {
		return nil, err
	}

	client, err := aptos.NewNodeClient(p.config.NodeURL, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Aptos RPC client for chain %d: %w", p.selector, err)
	}

	var faucet aptos.FaucetClient
	if p.config.FaucetURL != "" {
		faucet, err = aptos.NewFaucetClient(p.config.NodeURL, chainID, p.config.FaucetURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Aptos faucet client for chain %d: %w", p.selector, err)
		}
	}

	p.chain = &aptos.Chain{
		Selector:  p.selector,
		Client:    client,
		Faucet:    faucet,
		URL:       p.config.NodeURL,
		FaucetURL: p.config.FaucetURL,
		Confirm:   aptos.ConfirmFunc(client),
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Aptos RPC Chain Provider"
}

// ChainSelector returns the chain selector of the Aptos chain managed by this provider.
func (p *RPCChainProvider) ChainSelector() uint64 {
	return p.selector
}

// BlockChain returns the Aptos chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	return *p.chain
}

// chainIDFromSelector resolves the numeric Aptos chain id of selector. A zero selector resolves
// to chain id 0, which lets the SDK ask the node.
func chainIDFromSelector(selector uint64) (uint8, error) {
	if selector == 0 {
		return 0, nil
	}

	chainIDStr, err := common.ChainMetadata{Selector: selector}.ChainID()
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID from selector %d: %w", selector, err)
	}

	chainID, err := strconv.ParseUint(chainIDStr, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("failed to parse chain ID %s: %w", chainIDStr, err)
	}

	return uint8(chainID), nil
}
