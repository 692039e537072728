// Package candymachine builds the entry function payloads of the candy machine Move module.
//
// A PayloadBuilder is bound to the address the module was published under and its module name.
// Each entry function gets a typed constructor that BCS encodes the arguments in the order the
// Move function declares them:
//
//	builder := candymachine.NewPayloadBuilder(contract, "candymachine")
//	payload, err := builder.Mint(collection)
//
// Payloads are plain aptos-go-sdk values and carry no chain state. Sequence numbers and gas are
// filled in when the transaction is generated on a node.
package candymachine
