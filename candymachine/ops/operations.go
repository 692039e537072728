package ops

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
	"github.com/mokshyaprotocol/candymachine-go/operations"
)

// Deps are the dependencies of the transaction operations.
type Deps struct {
	Chain aptos.Chain
	// Signer signs transactions. Only SignTransactionOp uses it.
	Signer *aptoslib.Account
}

// GenerateTransactionInput is the input of GenerateTransactionOp.
type GenerateTransactionInput struct {
	Sender  aptoslib.AccountAddress
	Payload aptoslib.TransactionPayload
	Options aptos.BuildOptions
}

// FundAccountInput is the input of FundAccountOp.
type FundAccountInput struct {
	Address aptoslib.AccountAddress
	Amount  uint64
}

var (
	// GenerateTransactionOp turns a payload into a raw transaction of the sender, reading the
	// sequence number, gas price and chain id from the node.
	GenerateTransactionOp = operations.NewOperation(
		"generate-transaction",
		semver.MustParse("1.0.0"),
		"Generates a raw transaction from an entry function payload",
		func(b operations.Bundle, deps Deps, in GenerateTransactionInput) (*aptoslib.RawTransaction, error) {
			if deps.Chain.Client == nil {
				return nil, operations.NewUnrecoverableError(errors.New("chain has no node client"))
			}

			raw, err := deps.Chain.Client.BuildTransaction(b.GetContext(), in.Sender, in.Payload, in.Options)
			if err != nil {
				return nil, unrecoverableUnlessRetryable(err)
			}

			return raw, nil
		},
	)

	// SignTransactionOp signs a raw transaction locally with the signer of Deps.
	SignTransactionOp = operations.NewOperation(
		"sign-transaction",
		semver.MustParse("1.0.0"),
		"Signs a raw transaction",
		func(b operations.Bundle, deps Deps, raw *aptoslib.RawTransaction) (*aptoslib.SignedTransaction, error) {
			var signer aptoslib.TransactionSigner
			if deps.Signer != nil {
				signer = deps.Signer
			}

			signed, err := aptos.Sign(signer, raw)
			if err != nil {
				return nil, operations.NewUnrecoverableError(err)
			}

			return signed, nil
		},
	)

	// SubmitTransactionOp sends a signed transaction to the node and returns its hash. The
	// transaction may still be pending when the operation completes.
	SubmitTransactionOp = operations.NewOperation(
		"submit-transaction",
		semver.MustParse("1.0.0"),
		"Submits a signed transaction to the node",
		func(b operations.Bundle, deps Deps, signed *aptoslib.SignedTransaction) (aptos.SubmissionResult, error) {
			if deps.Chain.Client == nil {
				return aptos.SubmissionResult{}, operations.NewUnrecoverableError(errors.New("chain has no node client"))
			}

			res, err := deps.Chain.Client.SubmitTransaction(b.GetContext(), signed)
			if err != nil {
				return aptos.SubmissionResult{}, unrecoverableUnlessRetryable(err)
			}
			b.Logger.Debugw("Transaction submitted", "hash", res.Hash)

			return res, nil
		},
	)

	// ConfirmTransactionOp waits until a submitted transaction is committed and fails if it
	// aborted on chain.
	ConfirmTransactionOp = operations.NewOperation(
		"confirm-transaction",
		semver.MustParse("1.0.0"),
		"Waits for a submitted transaction to commit",
		func(b operations.Bundle, deps Deps, hash string) (aptos.TransactionStatus, error) {
			if deps.Chain.Confirm == nil {
				return aptos.TransactionStatus{}, operations.NewUnrecoverableError(errors.New("chain has no confirm function"))
			}

			status, err := deps.Chain.Confirm(b.GetContext(), hash)
			if err != nil {
				return status, unrecoverableUnlessRetryable(err)
			}
			b.Logger.Debugw("Transaction committed", "hash", status.Hash, "version", status.Version)

			return status, nil
		},
	)

	// FundAccountOp requests test tokens for an address from the chain's faucet.
	FundAccountOp = operations.NewOperation(
		"fund-account",
		semver.MustParse("1.0.0"),
		"Funds an account from the faucet",
		func(b operations.Bundle, deps Deps, in FundAccountInput) (uint64, error) {
			if in.Amount == 0 {
				return 0, operations.NewUnrecoverableError(errors.New("fund amount must be positive"))
			}

			if err := deps.Chain.Fund(b.GetContext(), in.Address, in.Amount); err != nil {
				return 0, unrecoverableUnlessRetryable(err)
			}

			return in.Amount, nil
		},
	)
)

// unrecoverableUnlessRetryable stops retries of every error but a transient network failure.
func unrecoverableUnlessRetryable(err error) error {
	if aptos.IsRetryable(err) {
		return err
	}

	return operations.NewUnrecoverableError(err)
}

// retryOptions returns the execute options of an operation for attempts tries. Fewer than two
// attempts disables retries.
func retryOptions[IN any](attempts uint) []operations.ExecuteOption[IN, Deps] {
	if attempts < 2 {
		return nil
	}

	return []operations.ExecuteOption[IN, Deps]{
		operations.WithRetryConfig(operations.RetryConfig[IN, Deps]{
			Enabled: true,
			Policy: operations.RetryPolicy{
				MaxAttempts: attempts,
				RetryIf:     aptos.IsRetryable,
			},
		}),
	}
}

// describe prefixes err with the operation that failed.
func describe(def operations.Definition, err error) error {
	return fmt.Errorf("operation %s failed: %w", def.ID, err)
}
