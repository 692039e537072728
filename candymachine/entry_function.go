package candymachine

import (
	"fmt"
	"regexp"
	"strings"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
)

// identifierRegexp matches a Move identifier.
var identifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EntryFunctionID addresses a public entry function of a published Move module, written
// <address>::<module>::<function>.
type EntryFunctionID struct {
	Address  aptoslib.AccountAddress
	Module   string
	Function string
}

// ParseEntryFunctionID parses an identifier of the form <address>::<module>::<function>.
func ParseEntryFunctionID(s string) (EntryFunctionID, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 {
		return EntryFunctionID{}, fmt.Errorf("invalid entry function id %q: expected <address>::<module>::<function>", s)
	}

	address, err := aptos.ParseAddress(parts[0])
	if err != nil {
		return EntryFunctionID{}, fmt.Errorf("invalid entry function id %q: %w", s, err)
	}

	id := EntryFunctionID{
		Address:  address,
		Module:   parts[1],
		Function: parts[2],
	}
	if err = id.Validate(); err != nil {
		return EntryFunctionID{}, fmt.Errorf("invalid entry function id %q: %w", s, err)
	}

	return id, nil
}

// Validate checks that the module and function names are Move identifiers.
func (id EntryFunctionID) Validate() error {
	if !identifierRegexp.MatchString(id.Module) {
		return fmt.Errorf("invalid module name %q", id.Module)
	}
	if !identifierRegexp.MatchString(id.Function) {
		return fmt.Errorf("invalid function name %q", id.Function)
	}

	return nil
}

// String returns the identifier in its <address>::<module>::<function> form, with the address
// in long form.
func (id EntryFunctionID) String() string {
	return fmt.Sprintf("%s::%s::%s", id.Address.StringLong(), id.Module, id.Function)
}

// ModuleID returns the SDK module id of the function.
func (id EntryFunctionID) ModuleID() aptoslib.ModuleId {
	return aptoslib.ModuleId{Address: id.Address, Name: id.Module}
}
