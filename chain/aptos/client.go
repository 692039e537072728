package aptos

import (
	"context"
	"fmt"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
)

// NodeClient is the subset of the Aptos full node API used to generate, submit and follow
// transactions. Every call may block on network I/O and honors ctx cancellation.
type NodeClient interface {
	// BuildTransaction fetches the sender's sequence number, gas estimate and chain id from the
	// node (unless pinned by opts) and merges them with payload into a raw transaction.
	BuildTransaction(
		ctx context.Context, sender aptoslib.AccountAddress, payload aptoslib.TransactionPayload, opts BuildOptions,
	) (*aptoslib.RawTransaction, error)
	// SubmitTransaction sends the BCS encoded signed transaction to the node.
	SubmitTransaction(ctx context.Context, signed *aptoslib.SignedTransaction) (SubmissionResult, error)
	// WaitForTransaction blocks until the transaction with hash is committed.
	WaitForTransaction(ctx context.Context, hash string) (TransactionStatus, error)
	// SequenceNumber returns the current sequence number of address.
	SequenceNumber(ctx context.Context, address aptoslib.AccountAddress) (uint64, error)
	// Balance returns the APT balance of address in octas.
	Balance(ctx context.Context, address aptoslib.AccountAddress) (uint64, error)
}

// BuildOptions pins raw transaction parameters that are otherwise filled in from chain state.
// Zero values leave the decision to the node.
type BuildOptions struct {
	SequenceNumber    *uint64 `json:"sequenceNumber,omitempty"`
	MaxGasAmount      uint64  `json:"maxGasAmount,omitempty"`
	GasUnitPrice      uint64  `json:"gasUnitPrice,omitempty"`
	ExpirationSeconds uint64  `json:"expirationSeconds,omitempty"`
}

func (o BuildOptions) sdkOptions() []any {
	var opts []any
	if o.SequenceNumber != nil {
		opts = append(opts, aptoslib.SequenceNumber(*o.SequenceNumber))
	}
	if o.MaxGasAmount != 0 {
		opts = append(opts, aptoslib.MaxGasAmount(o.MaxGasAmount))
	}
	if o.GasUnitPrice != 0 {
		opts = append(opts, aptoslib.GasUnitPrice(o.GasUnitPrice))
	}
	if o.ExpirationSeconds != 0 {
		opts = append(opts, aptoslib.ExpirationSeconds(o.ExpirationSeconds))
	}

	return opts
}

// SubmissionResult is what the node returns for an accepted transaction. The transaction is
// pending at this point; its on-chain outcome is obtained with WaitForTransaction.
type SubmissionResult struct {
	Hash string `json:"hash"`
}

// TransactionStatus is the committed outcome of a transaction.
type TransactionStatus struct {
	Hash     string `json:"hash"`
	Version  uint64 `json:"version"`
	Success  bool   `json:"success"`
	VmStatus string `json:"vmStatus"`
}

// Sign signs raw with signer. It performs no network I/O.
func Sign(signer aptoslib.TransactionSigner, raw *aptoslib.RawTransaction) (*aptoslib.SignedTransaction, error) {
	if signer == nil {
		return nil, fmt.Errorf("%w: signer is required", ErrSigning)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: raw transaction is required", ErrSigning)
	}

	signed, err := raw.SignedTransaction(signer)
	if err != nil {
		return nil, classify(ErrSigning, err)
	}

	return signed, nil
}

var _ NodeClient = (*rpcNodeClient)(nil)

// rpcNodeClient adapts the SDK node client to NodeClient.
type rpcNodeClient struct {
	inner *aptoslib.NodeClient
}

// NewNodeClient creates a NodeClient connected to the node REST API at rpcURL. A chainID of 0
// makes the SDK discover the chain id from the node on first use.
func NewNodeClient(rpcURL string, chainID uint8) (NodeClient, error) {
	inner, err := aptoslib.NewNodeClient(rpcURL, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create node client for %s: %w", rpcURL, err)
	}

	return &rpcNodeClient{inner: inner}, nil
}

func (c *rpcNodeClient) BuildTransaction(
	ctx context.Context, sender aptoslib.AccountAddress, payload aptoslib.TransactionPayload, opts BuildOptions,
) (*aptoslib.RawTransaction, error) {
	raw, err := callWithContext(ctx, func() (*aptoslib.RawTransaction, error) {
		return c.inner.BuildTransaction(sender, payload, opts.sdkOptions()...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction for %s: %w", sender.String(), classifyQueryError(err))
	}

	return raw, nil
}

func (c *rpcNodeClient) SubmitTransaction(
	ctx context.Context, signed *aptoslib.SignedTransaction,
) (SubmissionResult, error) {
	hash, err := callWithContext(ctx, func() (string, error) {
		resp, err := c.inner.SubmitTransaction(signed)
		if err != nil {
			return "", err
		}

		return resp.Hash, nil
	})
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("failed to submit transaction: %w", classifySubmitError(err))
	}

	return SubmissionResult{Hash: hash}, nil
}

func (c *rpcNodeClient) WaitForTransaction(ctx context.Context, hash string) (TransactionStatus, error) {
	status, err := callWithContext(ctx, func() (TransactionStatus, error) {
		tx, err := c.inner.WaitForTransaction(hash)
		if err != nil {
			return TransactionStatus{}, err
		}

		return TransactionStatus{
			Hash:     tx.Hash,
			Version:  tx.Version,
			Success:  tx.Success,
			VmStatus: tx.VmStatus,
		}, nil
	})
	if err != nil {
		return TransactionStatus{}, fmt.Errorf("failed to wait for transaction %s: %w", hash, classifyQueryError(err))
	}

	return status, nil
}

func (c *rpcNodeClient) SequenceNumber(ctx context.Context, address aptoslib.AccountAddress) (uint64, error) {
	seq, err := callWithContext(ctx, func() (uint64, error) {
		info, err := c.inner.Account(address)
		if err != nil {
			return 0, err
		}

		return info.SequenceNumber()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence number of %s: %w", address.String(), classifyQueryError(err))
	}

	return seq, nil
}

func (c *rpcNodeClient) Balance(ctx context.Context, address aptoslib.AccountAddress) (uint64, error) {
	balance, err := callWithContext(ctx, func() (uint64, error) {
		return c.inner.AccountAPTBalance(address)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get balance of %s: %w", address.String(), classifyQueryError(err))
	}

	return balance, nil
}

// callWithContext runs fn, returning early with ctx.Err() if ctx ends first. The SDK calls are
// not context aware, so fn keeps running until its own HTTP timeout.
func callWithContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	ch := make(chan result, 1)
	go func() {
		val, err := fn()
		ch <- result{val: val, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		return r.val, r.err
	}
}
