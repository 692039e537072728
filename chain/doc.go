/*
Package chain defines the minimal blockchain abstraction used by the candy machine harness.

A BlockChain describes a configured network by its chain selector, and a Provider knows how to
construct one (connect to a remote node, or start a local node for tests):

	p := provider.NewRPCChainProvider(chain_selectors.APTOS_TESTNET.Selector, provider.RPCChainProviderConfig{
		NodeURL:   "https://fullnode.testnet.aptoslabs.com/v1",
		FaucetURL: "https://faucet.testnet.aptoslabs.com",
	})

	bc, err := p.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize %s: %w", p.Name(), err)
	}

Chain selectors come from github.com/smartcontractkit/chain-selectors; a selector of 0 means the
network is not registered there (e.g. a devnet that is regularly reset) and the chain id is
discovered from the node instead.
*/
package chain
