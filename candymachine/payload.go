package candymachine

import (
	"errors"
	"fmt"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
)

// DefaultModuleName is the name the candy machine module is published under.
const DefaultModuleName = "candymachine"

const (
	mintFunction      = "mint_script"
	initCandyFunction = "init_candy"
)

// PayloadBuilder builds entry function payloads against one published module.
type PayloadBuilder struct {
	Contract aptoslib.AccountAddress
	Module   string
}

// NewPayloadBuilder returns a PayloadBuilder for the module published at contract. An empty
// module selects DefaultModuleName.
func NewPayloadBuilder(contract aptoslib.AccountAddress, module string) PayloadBuilder {
	if module == "" {
		module = DefaultModuleName
	}

	return PayloadBuilder{
		Contract: contract,
		Module:   module,
	}
}

// FunctionID returns the identifier of function in the builder's module.
func (b PayloadBuilder) FunctionID(function string) EntryFunctionID {
	return EntryFunctionID{Address: b.Contract, Module: b.Module, Function: function}
}

// EntryFunction returns a payload calling function with the given type arguments and arguments.
func (b PayloadBuilder) EntryFunction(
	function string, typeArgs []aptoslib.TypeTag, args ...Arg,
) (aptoslib.TransactionPayload, error) {
	id := b.FunctionID(function)
	if err := id.Validate(); err != nil {
		return aptoslib.TransactionPayload{}, err
	}

	encoded, err := EncodeArgs(args...)
	if err != nil {
		return aptoslib.TransactionPayload{}, fmt.Errorf("failed to build payload for %s: %w", id, err)
	}

	if typeArgs == nil {
		typeArgs = []aptoslib.TypeTag{}
	}

	return aptoslib.TransactionPayload{
		Payload: &aptoslib.EntryFunction{
			Module:   id.ModuleID(),
			Function: id.Function,
			ArgTypes: typeArgs,
			Args:     encoded,
		},
	}, nil
}

// Mint returns a mint_script payload minting the next token of collection, the candy machine
// resource account.
func (b PayloadBuilder) Mint(collection aptoslib.AccountAddress) (aptoslib.TransactionPayload, error) {
	return b.EntryFunction(mintFunction, nil, Address(collection))
}

// InitCandyArgs are the arguments of init_candy in declaration order.
type InitCandyArgs struct {
	Name        string
	Description string
	BaseURI     string

	RoyaltyPayee       aptoslib.AccountAddress
	RoyaltyDenominator uint64
	RoyaltyNumerator   uint64

	// Unix seconds.
	PresaleMintTime uint64
	PublicSaleTime  uint64

	// Octas.
	PresaleMintPrice uint64
	PublicSalePrice  uint64

	TotalSupply uint64

	// Collection mutability of description, uri and maximum.
	CollectionMutate [3]bool
	// Token mutability of maximum, uri, royalty, description and properties.
	TokenMutate [5]bool

	PublicMintLimit uint64
	IsSBT           bool

	// Seed of the candy machine resource account. Must be unique per creator.
	Seed          string
	IsOpenEdition bool
}

// Validate is an optional pre-flight check of arguments the module would reject outright.
// InitCandy does not call it: the module is the authority on malformed arguments.
func (a InitCandyArgs) Validate() error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, errors.New("collection name is required"))
	}
	if a.Seed == "" {
		errs = append(errs, errors.New("seed is required"))
	}
	if a.RoyaltyNumerator > a.RoyaltyDenominator {
		errs = append(errs, fmt.Errorf("royalty numerator %d exceeds denominator %d", a.RoyaltyNumerator, a.RoyaltyDenominator))
	}
	if a.PublicSaleTime < a.PresaleMintTime {
		errs = append(errs, errors.New("public sale must not start before the presale"))
	}

	return errors.Join(errs...)
}

// args returns the encoded argument list of init_candy.
func (a InitCandyArgs) args() []Arg {
	return []Arg{
		String(a.Name),
		String(a.Description),
		String(a.BaseURI),
		Address(a.RoyaltyPayee),
		U64(a.RoyaltyDenominator),
		U64(a.RoyaltyNumerator),
		U64(a.PresaleMintTime),
		U64(a.PublicSaleTime),
		U64(a.PresaleMintPrice),
		U64(a.PublicSalePrice),
		U64(a.TotalSupply),
		BoolVector(a.CollectionMutate[:]...),
		BoolVector(a.TokenMutate[:]...),
		U64(a.PublicMintLimit),
		Bool(a.IsSBT),
		String(a.Seed),
		Bool(a.IsOpenEdition),
	}
}

// InitCandy returns an init_candy payload creating a new candy machine.
func (b PayloadBuilder) InitCandy(args InitCandyArgs) (aptoslib.TransactionPayload, error) {
	return b.EntryFunction(initCandyFunction, nil, args.args()...)
}

// DefaultInitCandyArgs returns the arguments of a small test collection owned by payee whose
// presale opens 10 seconds after now and public sale 15 seconds after now. The seed is drawn
// from ids so that every run creates a distinct resource account.
func DefaultInitCandyArgs(now time.Time, payee aptoslib.AccountAddress, ids IDGenerator) InitCandyArgs {
	start := uint64(now.Unix())

	return InitCandyArgs{
		Name:               "Mokshya",
		Description:        "This is the description of test collection",
		BaseURI:            "https://mokshya.io/nft/",
		RoyaltyPayee:       payee,
		RoyaltyDenominator: 1000,
		RoyaltyNumerator:   42,
		PresaleMintTime:    start + 10,
		PublicSaleTime:     start + 15,
		PresaleMintPrice:   1,
		PublicSalePrice:    1,
		TotalSupply:        2000,
		PublicMintLimit:    0,
		IsSBT:              false,
		Seed:               ids.NewID(seedLength),
		IsOpenEdition:      false,
	}
}

// seedLength is the length of the random resource account seed.
const seedLength = 5
