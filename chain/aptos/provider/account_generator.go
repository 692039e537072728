package provider

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
	"github.com/smartcontractkit/chainlink-testing-framework/framework/components/blockchain"

	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
)

// AccountGenerator is an interface for generating Aptos accounts.
type AccountGenerator interface {
	Generate() (*aptoslib.Account, error)
}

var (
	_ AccountGenerator = (*accountGenCTFDefault)(nil)
	_ AccountGenerator = (*accountGenNewSingleSender)(nil)
	_ AccountGenerator = (*accountGenPrivateKey)(nil)
)

// accountGenCTFDefault generates the account that is pre-funded on a CTF (Chainlink Testing
// Framework) Aptos localnet.
type accountGenCTFDefault struct {
	// The account address string to use for generating the account.
	accountStr string
	// privateKeyStr is the private key string to use for generating the account.
	privateKeyStr string
}

// AccountGenCTFDefault creates a new instance of accountGenCTFDefault. It uses the default
// Aptos account and private key from the blockchain package.
func AccountGenCTFDefault() *accountGenCTFDefault {
	return &accountGenCTFDefault{
		accountStr:    blockchain.DefaultAptosAccount,
		privateKeyStr: blockchain.DefaultAptosPrivateKey,
	}
}

// Generate generates an Aptos account using the default address and private key from the
// blockchain package. It returns an error if the address or private key is invalid.
func (g *accountGenCTFDefault) Generate() (*aptoslib.Account, error) {
	address, err := aptos.ParseAddress(g.accountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account address %s: %w", g.accountStr, err)
	}

	seed, err := DecodeSeed(g.privateKeyStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}

	return aptoslib.NewAccountFromSigner(&crypto.Ed25519PrivateKey{Inner: ed25519.NewKeyFromSeed(seed)}, address)
}

// accountGenNewSingleSender is an account generator that creates a new single sender account.
type accountGenNewSingleSender struct{}

// AccountGenNewSingleSender creates a new instance of accountGenNewSingleSender.
func AccountGenNewSingleSender() *accountGenNewSingleSender {
	return &accountGenNewSingleSender{}
}

// Generate generates a fresh random Aptos account. The account does not exist on chain until it
// is funded.
func (g *accountGenNewSingleSender) Generate() (*aptoslib.Account, error) {
	return aptoslib.NewEd25519SingleSenderAccount()
}

// accountGenPrivateKey derives an account from a hex encoded Ed25519 seed.
type accountGenPrivateKey struct {
	// privateKey is the hex formatted 32 byte seed, with or without a 0x prefix.
	privateKey string
}

// AccountGenPrivateKey creates a new instance of accountGenPrivateKey with the provided private key.
// The same key always yields the same account address.
func AccountGenPrivateKey(privateKey string) *accountGenPrivateKey {
	return &accountGenPrivateKey{
		privateKey: privateKey,
	}
}

// Generate derives the Aptos account from the private key. It fails with
// aptos.ErrInvalidKeyFormat if the key is not 64 hex characters.
func (g *accountGenPrivateKey) Generate() (*aptoslib.Account, error) {
	seed, err := DecodeSeed(g.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return aptoslib.NewAccountFromSigner(&crypto.Ed25519PrivateKey{Inner: ed25519.NewKeyFromSeed(seed)})
}

// DecodeSeed decodes a hex encoded Ed25519 seed, with or without a 0x prefix. It fails with
// aptos.ErrInvalidKeyFormat unless the input is exactly ed25519.SeedSize bytes of hex.
func DecodeSeed(s string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")

	if len(trimmed) != hex.EncodedLen(ed25519.SeedSize) {
		return nil, fmt.Errorf("%w: expected %d hex characters, got %d",
			aptos.ErrInvalidKeyFormat, hex.EncodedLen(ed25519.SeedSize), len(trimmed))
	}

	seed, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", aptos.ErrInvalidKeyFormat, err)
	}

	return seed, nil
}
