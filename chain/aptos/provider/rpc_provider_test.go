package provider

import (
	"testing"

	chain_selectors "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
)

func Test_RPCChainProviderConfig_validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  RPCChainProviderConfig
		wantErr string
	}{
		{
			name: "valid config",
			config: RPCChainProviderConfig{
				NodeURL:   "http://localhost:8080/v1",
				FaucetURL: "http://localhost:8081",
			},
		},
		{
			name: "valid config without faucet",
			config: RPCChainProviderConfig{
				NodeURL: "http://localhost:8080/v1",
			},
		},
		{
			name: "missing node url",
			config: RPCChainProviderConfig{
				FaucetURL: "http://localhost:8081",
			},
			wantErr: "node url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.validate()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func Test_RPCChainProvider_Initialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		giveSelector uint64
		giveConfig   RPCChainProviderConfig
		wantFaucet   bool
		wantErr      string
	}{
		{
			name:         "valid initialization",
			giveSelector: chain_selectors.APTOS_LOCALNET.Selector,
			giveConfig: RPCChainProviderConfig{
				NodeURL:   "http://localhost:8080/v1",
				FaucetURL: "http://localhost:8081",
			},
			wantFaucet: true,
		},
		{
			name:         "valid initialization without faucet",
			giveSelector: chain_selectors.APTOS_MAINNET.Selector,
			giveConfig: RPCChainProviderConfig{
				NodeURL: "https://fullnode.mainnet.aptoslabs.com/v1",
			},
		},
		{
			name:         "unregistered network discovers chain id",
			giveSelector: 0,
			giveConfig: RPCChainProviderConfig{
				NodeURL:   "https://fullnode.devnet.aptoslabs.com/v1",
				FaucetURL: "https://faucet.devnet.aptoslabs.com",
			},
			wantFaucet: true,
		},
		{
			name:         "fails config validation",
			giveSelector: chain_selectors.APTOS_LOCALNET.Selector,
			giveConfig:   RPCChainProviderConfig{},
			wantErr:      "node url is required",
		},
		{
			name:         "chain id not found for selector",
			giveSelector: 999999, // Invalid selector
			giveConfig: RPCChainProviderConfig{
				NodeURL: "http://localhost:8080/v1",
			},
			wantErr: "failed to get chain ID from selector 999999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewRPCChainProvider(tt.giveSelector, tt.giveConfig)

			got, err := p.Initialize(t.Context())
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, p.chain)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, p.chain)

			gotChain, ok := got.(aptos.Chain)
			require.True(t, ok, "expected got to be of type aptos.Chain")
			assert.Equal(t, tt.giveSelector, gotChain.Selector)
			assert.Equal(t, tt.giveConfig.NodeURL, gotChain.URL)
			assert.Equal(t, tt.giveConfig.FaucetURL, gotChain.FaucetURL)
			assert.NotNil(t, gotChain.Client)
			assert.NotNil(t, gotChain.Confirm)
			if tt.wantFaucet {
				assert.NotNil(t, gotChain.Faucet)
			} else {
				assert.Nil(t, gotChain.Faucet)
			}

			// A second call returns the cached chain
			again, err := p.Initialize(t.Context())
			require.NoError(t, err)
			assert.Equal(t, gotChain.URL, again.(aptos.Chain).URL)
		})
	}
}

func Test_RPCChainProvider_Name(t *testing.T) {
	t.Parallel()

	p := &RPCChainProvider{}
	assert.Equal(t, "Aptos RPC Chain Provider", p.Name())
}

func Test_RPCChainProvider_ChainSelector(t *testing.T) {
	t.Parallel()

	p := &RPCChainProvider{selector: chain_selectors.APTOS_TESTNET.Selector}
	assert.Equal(t, chain_selectors.APTOS_TESTNET.Selector, p.ChainSelector())
}

func Test_RPCChainProvider_BlockChain(t *testing.T) {
	t.Parallel()

	chain := &aptos.Chain{URL: "http://localhost:8080/v1"}

	p := &RPCChainProvider{
		chain: chain,
	}

	assert.Equal(t, *chain, p.BlockChain())
}

func Test_chainIDFromSelector(t *testing.T) {
	t.Parallel()

	got, err := chainIDFromSelector(chain_selectors.APTOS_MAINNET.Selector)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), got)

	got, err = chainIDFromSelector(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), got)

	_, err = chainIDFromSelector(999999)
	require.Error(t, err)
}
