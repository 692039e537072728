package ops

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/mokshyaprotocol/candymachine-go/candymachine"
	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
	"github.com/mokshyaprotocol/candymachine-go/operations"
)

// SequenceDeps are the dependencies of the scenario sequences.
type SequenceDeps struct {
	Deps

	Builder candymachine.PayloadBuilder
	// BuildOptions pins parameters of the generated transactions. Zero values let the node
	// decide.
	BuildOptions aptos.BuildOptions
	// RetryAttempts enables retries of network failures when greater than one.
	RetryAttempts uint
	// WaitForConfirmation adds a confirm-transaction step after the submission.
	WaitForConfirmation bool
}

// MintInput is the input of MintSequence.
type MintInput struct {
	// Collection is the address of the candy machine resource account.
	Collection string `json:"collection" yaml:"collection"`
}

// InitCandyInput is the input of InitCandySequence.
type InitCandyInput struct {
	Args candymachine.InitCandyArgs `json:"args" yaml:"args"`
}

// TransactionOutput is the output of a scenario sequence.
type TransactionOutput struct {
	Hash string `json:"hash" yaml:"hash"`
	// Confirmed is set when the sequence waited for the transaction to commit.
	Confirmed bool   `json:"confirmed" yaml:"confirmed"`
	Version   uint64 `json:"version,omitempty" yaml:"version,omitempty"`
}

var (
	// MintSequence mints the next token of a candy machine collection as the signer.
	MintSequence = operations.NewSequence(
		"mint",
		semver.MustParse("1.0.0"),
		"Mints a token from a candy machine",
		func(b operations.Bundle, deps SequenceDeps, in MintInput) (TransactionOutput, error) {
			collection, err := aptos.ParseAddress(in.Collection)
			if err != nil {
				return TransactionOutput{}, fmt.Errorf("invalid collection: %w", err)
			}

			payload, err := deps.Builder.Mint(collection)
			if err != nil {
				return TransactionOutput{}, err
			}

			out, err := sendPayload(b, deps, payload)
			if err != nil {
				return out, err
			}
			b.Logger.Infof("Token Minted %s", out.Hash)

			return out, nil
		},
	)

	// InitCandySequence creates a new candy machine owned by the signer.
	InitCandySequence = operations.NewSequence(
		"init-candy",
		semver.MustParse("1.0.0"),
		"Creates a candy machine",
		func(b operations.Bundle, deps SequenceDeps, in InitCandyInput) (TransactionOutput, error) {
			payload, err := deps.Builder.InitCandy(in.Args)
			if err != nil {
				return TransactionOutput{}, err
			}

			out, err := sendPayload(b, deps, payload)
			if err != nil {
				return out, err
			}
			b.Logger.Infof("Candy Machine created %s", out.Hash)

			return out, nil
		},
	)
)

// sendPayload runs generate, sign and submit for payload as the signer, and confirm when
// requested. It stops at the first failing step.
func sendPayload(
	b operations.Bundle, deps SequenceDeps, payload aptoslib.TransactionPayload,
) (TransactionOutput, error) {
	if deps.Signer == nil {
		return TransactionOutput{}, fmt.Errorf("%w: no signer", aptos.ErrSigning)
	}

	genReport, err := operations.ExecuteOperation(b, GenerateTransactionOp, deps.Deps, GenerateTransactionInput{
		Sender:  deps.Signer.Address,
		Payload: payload,
		Options: deps.BuildOptions,
	}, retryOptions[GenerateTransactionInput](deps.RetryAttempts)...)
	if err != nil {
		return TransactionOutput{}, describe(GenerateTransactionOp.Def(), err)
	}

	signReport, err := operations.ExecuteOperation(b, SignTransactionOp, deps.Deps, genReport.Output)
	if err != nil {
		return TransactionOutput{}, describe(SignTransactionOp.Def(), err)
	}

	submitReport, err := operations.ExecuteOperation(b, SubmitTransactionOp, deps.Deps, signReport.Output,
		retryOptions[*aptoslib.SignedTransaction](deps.RetryAttempts)...)
	if err != nil {
		return TransactionOutput{}, describe(SubmitTransactionOp.Def(), err)
	}

	out := TransactionOutput{Hash: submitReport.Output.Hash}
	if out.Hash == "" {
		return out, errors.New("node accepted the transaction without returning a hash")
	}

	if !deps.WaitForConfirmation {
		return out, nil
	}

	confirmReport, err := operations.ExecuteOperation(b, ConfirmTransactionOp, deps.Deps, out.Hash,
		retryOptions[string](deps.RetryAttempts)...)
	if err != nil {
		return out, describe(ConfirmTransactionOp.Def(), err)
	}
	out.Confirmed = true
	out.Version = confirmReport.Output.Version

	return out, nil
}
