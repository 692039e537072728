package ops

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/mokshyaprotocol/candymachine-go/candymachine"
	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
	"github.com/mokshyaprotocol/candymachine-go/chain/aptos/provider"
	"github.com/mokshyaprotocol/candymachine-go/config"
	"github.com/mokshyaprotocol/candymachine-go/operations"
	"github.com/mokshyaprotocol/candymachine-go/pkg/logger"
)

// Env holds what the scenarios of a run share: the chain, the two accounts and the payload
// builder. It is built once per run and passed to every scenario.
type Env struct {
	Chain aptos.Chain

	// Alice creates candy machines, Bob mints from them.
	Alice *aptoslib.Account
	Bob   *aptoslib.Account

	Builder    candymachine.PayloadBuilder
	Collection aptoslib.AccountAddress
	IDs        candymachine.IDGenerator
	Logger     logger.Logger
	Reporter   operations.Reporter

	FundAmount          uint64
	RetryAttempts       uint
	WaitForConfirmation bool

	now func() time.Time
}

// EnvOption customizes NewEnv.
type EnvOption func(*envOptions)

type envOptions struct {
	chain *aptos.Chain
	ids   candymachine.IDGenerator
	now   func() time.Time
}

// WithChain uses chain instead of connecting to the configured endpoints.
func WithChain(chain aptos.Chain) EnvOption {
	return func(o *envOptions) {
		o.chain = &chain
	}
}

// WithIDGenerator replaces the random generator of resource account seeds.
func WithIDGenerator(ids candymachine.IDGenerator) EnvOption {
	return func(o *envOptions) {
		o.ids = ids
	}
}

// WithClock replaces the clock the sale times of new candy machines are derived from.
func WithClock(now func() time.Time) EnvOption {
	return func(o *envOptions) {
		o.now = now
	}
}

// NewEnv validates cfg, derives the accounts from their keys and connects to the chain.
// Connecting makes no network call, so an unreachable node only surfaces when a scenario runs.
func NewEnv(ctx context.Context, cfg *config.Config, lggr logger.Logger, opts ...EnvOption) (*Env, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := envOptions{
		ids: candymachine.NewRandomIDGenerator(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	alice, err := provider.AccountGenPrivateKey(cfg.AliceKey).Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to load alice account: %w", err)
	}
	bob, err := provider.AccountGenPrivateKey(cfg.BobKey).Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to load bob account: %w", err)
	}
	lggr.Info("Alice Address: " + alice.Address.String())
	lggr.Info("Bob Address: " + bob.Address.String())

	var chain aptos.Chain
	if o.chain != nil {
		chain = *o.chain
	} else {
		rc := cfg.RemoteClient()
		p := provider.NewRPCChainProvider(rc.ChainSelector, provider.RPCChainProviderConfig{
			NodeURL:   rc.NodeURL,
			FaucetURL: rc.FaucetURL,
		})

		bc, initErr := p.Initialize(ctx)
		if initErr != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", rc.NodeURL, initErr)
		}
		var ok bool
		if chain, ok = bc.(aptos.Chain); !ok {
			return nil, fmt.Errorf("unexpected chain type %T", bc)
		}
	}
	lggr.Debugw("Connected to chain", "chain", chain.String(), "faucet", chain.FaucetURL)

	contract, err := aptos.ParseAddress(cfg.ContractAddress)
	if err != nil {
		return nil, err
	}
	collection, err := aptos.ParseAddress(cfg.Mint.Collection)
	if err != nil {
		return nil, err
	}

	var attempts uint
	if cfg.Retry.Enabled {
		attempts = cfg.Retry.MaxAttempts
	}

	return &Env{
		Chain:               chain,
		Alice:               alice,
		Bob:                 bob,
		Builder:             candymachine.NewPayloadBuilder(contract, cfg.ModuleName),
		Collection:          collection,
		IDs:                 o.ids,
		Logger:              lggr,
		Reporter:            operations.NewMemoryReporter(),
		FundAmount:          cfg.FundAmount,
		RetryAttempts:       attempts,
		WaitForConfirmation: cfg.WaitForConfirmation,
		now:                 o.now,
	}, nil
}

// bundle returns the operations bundle of a scenario named name.
func (e *Env) bundle(ctx context.Context, name string) operations.Bundle {
	return operations.NewBundle(func() context.Context { return ctx }, e.Logger.Named(name), e.Reporter)
}

// sequenceDeps returns the sequence dependencies of a scenario signed by signer.
func (e *Env) sequenceDeps(signer *aptoslib.Account) SequenceDeps {
	return SequenceDeps{
		Deps:                Deps{Chain: e.Chain, Signer: signer},
		Builder:             e.Builder,
		RetryAttempts:       e.RetryAttempts,
		WaitForConfirmation: e.WaitForConfirmation,
	}
}

// Mint runs the mint scenario: Bob mints the next token of the configured collection. An empty
// collection selects Env.Collection.
//
// The returned result is completed or failed. The error is the error of a failed result.
func (e *Env) Mint(ctx context.Context, collection string) (*ScenarioResult, error) {
	if collection == "" {
		collection = e.Collection.StringLong()
	}

	result := NewScenarioResult(MintSequence.ID())
	report, err := operations.ExecuteSequence(e.bundle(ctx, "mint"), MintSequence,
		e.sequenceDeps(e.Bob), MintInput{Collection: collection})
	result.record(report.ToGenericSequenceReport(), report.Output, err)

	return result, err
}

// DefaultInitCandyArgs returns the arguments of a new test collection with Alice as royalty
// payee and a fresh seed.
func (e *Env) DefaultInitCandyArgs() candymachine.InitCandyArgs {
	return candymachine.DefaultInitCandyArgs(e.now(), e.Alice.Address, e.IDs)
}

// InitCandyMachine runs the init-candy scenario: Alice creates a candy machine. Nil args select
// DefaultInitCandyArgs.
func (e *Env) InitCandyMachine(ctx context.Context, args *candymachine.InitCandyArgs) (*ScenarioResult, error) {
	if args == nil {
		def := e.DefaultInitCandyArgs()
		args = &def
	}

	result := NewScenarioResult(InitCandySequence.ID())
	report, err := operations.ExecuteSequence(e.bundle(ctx, "init-candy"), InitCandySequence,
		e.sequenceDeps(e.Alice), InitCandyInput{Args: *args})
	result.record(report.ToGenericSequenceReport(), report.Output, err)

	return result, err
}

// Fund requests amount octas for address from the faucet. A zero amount selects
// Env.FundAmount.
func (e *Env) Fund(ctx context.Context, address aptoslib.AccountAddress, amount uint64) error {
	if amount == 0 {
		amount = e.FundAmount
	}

	_, err := operations.ExecuteOperation(e.bundle(ctx, "fund"), FundAccountOp, Deps{Chain: e.Chain},
		FundAccountInput{Address: address, Amount: amount}, retryOptions[FundAccountInput](e.RetryAttempts)...)
	if err != nil {
		return err
	}
	e.Logger.Infow("Account funded", "address", address.String(), "amount", amount)

	return nil
}

// Balance returns the APT balance of address in octas.
func (e *Env) Balance(ctx context.Context, address aptoslib.AccountAddress) (uint64, error) {
	if e.Chain.Client == nil {
		return 0, errors.New("chain has no node client")
	}

	return e.Chain.Client.Balance(ctx, address)
}

// ResolveAccount resolves "alice", "bob" or an address literal to an address.
func (e *Env) ResolveAccount(name string) (aptoslib.AccountAddress, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "alice":
		return e.Alice.Address, nil
	case "bob":
		return e.Bob.Address, nil
	default:
		return aptos.ParseAddress(name)
	}
}
