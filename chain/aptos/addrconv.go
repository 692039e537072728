package aptos

import (
	"fmt"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
)

// ParseAddress parses an Aptos address string. Aptos addresses can be in various formats
// (short, long, with/without 0x prefix) but are normalized to 32 bytes.
func ParseAddress(address string) (aptoslib.AccountAddress, error) {
	var addr aptoslib.AccountAddress
	if err := addr.ParseStringRelaxed(address); err != nil {
		return aptoslib.AccountAddress{}, fmt.Errorf("invalid Aptos address format: %s, error: %w", address, err)
	}

	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on malformed input. Intended for
// compile-time constants.
func MustParseAddress(address string) aptoslib.AccountAddress {
	addr, err := ParseAddress(address)
	if err != nil {
		panic(err)
	}

	return addr
}
