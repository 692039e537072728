// Package aptostest provides in-memory Aptos node and faucet clients for tests.
package aptostest

import (
	"context"
	"fmt"
	"sync"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	chain_selectors "github.com/smartcontractkit/chain-selectors"

	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
)

// ConfirmedVersion is the ledger version of every transaction committed by a Node.
const ConfirmedVersion = 7

var _ aptos.NodeClient = (*Node)(nil)

// Node is an in-memory node. It hands out sequence numbers per sender and rejects a second
// submission of the same sequence number.
//
// Set the exported fields before the node is used.
type Node struct {
	// BuildErr fails every BuildTransaction call.
	BuildErr error
	// SubmitErrs fail the submissions in call order. A nil entry lets the call through.
	SubmitErrs []error
	// Abort makes committed transactions fail with this VM status.
	Abort string

	mu        sync.Mutex
	sequences map[aptoslib.AccountAddress]uint64
	used      map[string]bool
	balances  map[aptoslib.AccountAddress]uint64
	submitted []*aptoslib.SignedTransaction

	buildCalls  int
	submitCalls int
	waitCalls   int
}

// NewNode returns an empty node. No account exists until it is funded.
func NewNode() *Node {
	return &Node{
		sequences: map[aptoslib.AccountAddress]uint64{},
		used:      map[string]bool{},
		balances:  map[aptoslib.AccountAddress]uint64{},
	}
}

func (n *Node) BuildTransaction(
	_ context.Context, sender aptoslib.AccountAddress, payload aptoslib.TransactionPayload, opts aptos.BuildOptions,
) (*aptoslib.RawTransaction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.buildCalls++
	if n.BuildErr != nil {
		return nil, n.BuildErr
	}

	seq := n.sequences[sender]
	if opts.SequenceNumber != nil {
		seq = *opts.SequenceNumber
	}

	return &aptoslib.RawTransaction{
		Sender:                     sender,
		SequenceNumber:             seq,
		Payload:                    payload,
		MaxGasAmount:               2000,
		GasUnitPrice:               100,
		ExpirationTimestampSeconds: uint64(time.Now().Add(time.Minute).Unix()),
		ChainId:                    2,
	}, nil
}

func (n *Node) SubmitTransaction(_ context.Context, signed *aptoslib.SignedTransaction) (aptos.SubmissionResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	call := n.submitCalls
	n.submitCalls++
	if call < len(n.SubmitErrs) && n.SubmitErrs[call] != nil {
		return aptos.SubmissionResult{}, n.SubmitErrs[call]
	}

	raw := signed.Transaction
	key := fmt.Sprintf("%s/%d", raw.Sender.String(), raw.SequenceNumber)
	if n.used[key] {
		return aptos.SubmissionResult{}, fmt.Errorf("%w: SEQUENCE_NUMBER_TOO_OLD", aptos.ErrTransactionRejected)
	}
	n.used[key] = true
	n.sequences[raw.Sender] = raw.SequenceNumber + 1
	n.submitted = append(n.submitted, signed)

	return aptos.SubmissionResult{Hash: fmt.Sprintf("0x%064x", len(n.submitted))}, nil
}

func (n *Node) WaitForTransaction(_ context.Context, hash string) (aptos.TransactionStatus, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.waitCalls++
	if n.Abort != "" {
		return aptos.TransactionStatus{Hash: hash, Version: ConfirmedVersion, VmStatus: n.Abort}, nil
	}

	return aptos.TransactionStatus{
		Hash:     hash,
		Version:  ConfirmedVersion,
		Success:  true,
		VmStatus: "Executed successfully",
	}, nil
}

func (n *Node) SequenceNumber(_ context.Context, address aptoslib.AccountAddress) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.sequences[address], nil
}

func (n *Node) Balance(_ context.Context, address aptoslib.AccountAddress) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	balance, ok := n.balances[address]
	if !ok {
		return 0, fmt.Errorf("%w: %s", aptos.ErrAccountNotFound, address.String())
	}

	return balance, nil
}

// Credit adds amount octas to the balance of address.
func (n *Node) Credit(address aptoslib.AccountAddress, amount uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.balances[address] += amount
}

// BuildCalls returns the number of BuildTransaction calls.
func (n *Node) BuildCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.buildCalls
}

// SubmitCalls returns the number of SubmitTransaction calls, rejected ones included.
func (n *Node) SubmitCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.submitCalls
}

// WaitCalls returns the number of WaitForTransaction calls.
func (n *Node) WaitCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.waitCalls
}

// LastEntryFunction returns the entry function and sender of the last accepted transaction.
func (n *Node) LastEntryFunction() (*aptoslib.EntryFunction, aptoslib.AccountAddress) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.submitted) == 0 {
		return nil, aptoslib.AccountAddress{}
	}

	raw := n.submitted[len(n.submitted)-1].Transaction
	ef, _ := raw.Payload.Payload.(*aptoslib.EntryFunction)

	return ef, raw.Sender
}

var _ aptos.FaucetClient = (*Faucet)(nil)

// Faucet credits the balances of a Node.
type Faucet struct {
	Node *Node
	// Err fails every Fund call.
	Err error
}

func (f *Faucet) Fund(_ context.Context, address aptoslib.AccountAddress, amount uint64) error {
	if f.Err != nil {
		return f.Err
	}
	f.Node.Credit(address, amount)

	return nil
}

// NewChain returns a testnet chain backed by node. A nil faucet leaves the chain without one.
func NewChain(node *Node, faucet *Faucet) aptos.Chain {
	c := aptos.Chain{
		Selector: chain_selectors.APTOS_TESTNET.Selector,
		Client:   node,
		URL:      "http://127.0.0.1:8080/v1",
		Confirm:  aptos.ConfirmFunc(node),
	}
	if faucet != nil {
		c.Faucet = faucet
		c.FaucetURL = "http://127.0.0.1:8081"
	}

	return c
}
