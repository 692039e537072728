package aptos

import (
	"context"
	"errors"
	"fmt"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/mokshyaprotocol/candymachine-go/chain"
	chain_common "github.com/mokshyaprotocol/candymachine-go/chain/internal/common"
)

var _ chain.BlockChain = Chain{}

// ErrNoFaucet is returned by Chain.Fund when the chain was configured without a faucet.
var ErrNoFaucet = errors.New("no faucet configured for chain")

// Chain represents an Aptos network reachable through a full node and, optionally, a faucet.
// Chain only holds read-only configuration and client handles, so a single value can be shared
// by concurrent scenarios.
type Chain struct {
	Selector uint64

	Client    NodeClient
	Faucet    FaucetClient
	URL       string
	FaucetURL string

	// Confirm waits for the transaction to commit and fails with ErrTransactionRejected when it
	// aborted on chain.
	Confirm func(ctx context.Context, txHash string) (TransactionStatus, error)
}

// ChainSelector returns the chain selector of the chain
func (c Chain) ChainSelector() uint64 {
	return c.Selector
}

// String returns chain name and selector "<name> (<selector>)"
func (c Chain) String() string {
	if c.Selector == 0 {
		return c.URL
	}

	return chain_common.ChainMetadata{Selector: c.Selector}.String()
}

// Name returns the name of the chain
func (c Chain) Name() string {
	return chain_common.ChainMetadata{Selector: c.Selector}.Name()
}

// Family returns the family of the chain
func (c Chain) Family() string {
	return chain_common.ChainMetadata{Selector: c.Selector}.Family()
}

// Fund requests amount octas for address from the chain's faucet.
func (c Chain) Fund(ctx context.Context, address aptoslib.AccountAddress, amount uint64) error {
	if c.Faucet == nil {
		return fmt.Errorf("%w: %s", ErrNoFaucet, c.String())
	}

	return c.Faucet.Fund(ctx, address, amount)
}

// ConfirmFunc returns a Confirm implementation backed by client.
func ConfirmFunc(client NodeClient) func(ctx context.Context, txHash string) (TransactionStatus, error) {
	return func(ctx context.Context, txHash string) (TransactionStatus, error) {
		status, err := client.WaitForTransaction(ctx, txHash)
		if err != nil {
			return status, err
		}
		if !status.Success {
			return status, fmt.Errorf("%w: transaction %s failed: %s", ErrTransactionRejected, txHash, status.VmStatus)
		}

		return status, nil
	}
}
