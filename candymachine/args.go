package candymachine

import (
	"fmt"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
)

// Arg is a typed entry function argument. The Move type is fixed by the constructor used, so a
// payload can only disagree with the on-chain signature in arity or order, which the node
// rejects.
type Arg interface {
	// MoveType returns the Move type the argument encodes as, e.g. "u64" or "vector<bool>".
	MoveType() string

	marshal(ser *bcs.Serializer)
}

// String returns a Move 0x1::string::String argument.
func String(v string) Arg { return stringArg(v) }

// Address returns a Move address argument.
func Address(v aptoslib.AccountAddress) Arg { return addressArg(v) }

// U64 returns a Move u64 argument.
func U64(v uint64) Arg { return u64Arg(v) }

// Bool returns a Move bool argument.
func Bool(v bool) Arg { return boolArg(v) }

// BoolVector returns a Move vector<bool> argument.
func BoolVector(v ...bool) Arg { return boolVectorArg(v) }

type stringArg string

func (stringArg) MoveType() string { return "0x1::string::String" }

func (a stringArg) marshal(ser *bcs.Serializer) { ser.WriteString(string(a)) }

type addressArg aptoslib.AccountAddress

func (addressArg) MoveType() string { return "address" }

func (a addressArg) marshal(ser *bcs.Serializer) {
	addr := aptoslib.AccountAddress(a)
	addr.MarshalBCS(ser)
}

type u64Arg uint64

func (u64Arg) MoveType() string { return "u64" }

func (a u64Arg) marshal(ser *bcs.Serializer) { ser.U64(uint64(a)) }

type boolArg bool

func (boolArg) MoveType() string { return "bool" }

func (a boolArg) marshal(ser *bcs.Serializer) { ser.Bool(bool(a)) }

type boolVectorArg []bool

func (boolVectorArg) MoveType() string { return "vector<bool>" }

func (a boolVectorArg) marshal(ser *bcs.Serializer) {
	ser.Uleb128(uint32(len(a)))
	for _, v := range a {
		ser.Bool(v)
	}
}

// EncodeArgs BCS encodes each argument on its own, which is the layout entry function payloads
// expect.
func EncodeArgs(args ...Arg) ([][]byte, error) {
	encoded := make([][]byte, 0, len(args))
	for i, arg := range args {
		if arg == nil {
			return nil, fmt.Errorf("argument %d is nil", i)
		}

		ser := &bcs.Serializer{}
		arg.marshal(ser)
		if err := ser.Error(); err != nil {
			return nil, fmt.Errorf("failed to encode argument %d (%s): %w", i, arg.MoveType(), err)
		}
		encoded = append(encoded, ser.ToBytes())
	}

	return encoded, nil
}
