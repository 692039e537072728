package aptos

import (
	"context"
	"fmt"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
)

// FaucetClient requests test network tokens for an address.
type FaucetClient interface {
	// Fund mints amount octas to address and waits for the funding transaction to commit.
	Fund(ctx context.Context, address aptoslib.AccountAddress, amount uint64) error
}

var _ FaucetClient = (*rpcFaucetClient)(nil)

type rpcFaucetClient struct {
	inner *aptoslib.FaucetClient
}

// NewFaucetClient creates a FaucetClient for the faucet at faucetURL. The faucet client follows
// the funding transaction through the node at rpcURL.
func NewFaucetClient(rpcURL string, chainID uint8, faucetURL string) (FaucetClient, error) {
	node, err := aptoslib.NewNodeClient(rpcURL, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create node client for %s: %w", rpcURL, err)
	}

	inner, err := aptoslib.NewFaucetClient(node, faucetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create faucet client for %s: %w", faucetURL, err)
	}

	return &rpcFaucetClient{inner: inner}, nil
}

func (c *rpcFaucetClient) Fund(ctx context.Context, address aptoslib.AccountAddress, amount uint64) error {
	_, err := callWithContext(ctx, func() (struct{}, error) {
		return struct{}{}, c.inner.Fund(address, amount)
	})
	if err != nil {
		return fmt.Errorf("failed to fund %s: %w", address.String(), classifyFaucetError(err))
	}

	return nil
}
