package candymachine

import (
	"testing"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
)

func entryFunction(t *testing.T, payload aptoslib.TransactionPayload) *aptoslib.EntryFunction {
	t.Helper()

	ef, ok := payload.Payload.(*aptoslib.EntryFunction)
	require.True(t, ok, "expected an entry function payload, got %T", payload.Payload)

	return ef
}

func TestNewPayloadBuilder(t *testing.T) {
	t.Parallel()

	contract := aptos.MustParseAddress(testContract)

	assert.Equal(t, DefaultModuleName, NewPayloadBuilder(contract, "").Module)
	assert.Equal(t, "other", NewPayloadBuilder(contract, "other").Module)
	assert.Equal(t, testContract+"::candymachine::mint_script",
		NewPayloadBuilder(contract, "").FunctionID("mint_script").String())
}

func TestPayloadBuilder_Mint(t *testing.T) {
	t.Parallel()

	contract := aptos.MustParseAddress(testContract)
	collection := aptos.MustParseAddress("0x1ef083efe4fe41a088aa2da78ddd9f953850bd4d9a2590fa0b5b33b048634eab")

	payload, err := NewPayloadBuilder(contract, "").Mint(collection)
	require.NoError(t, err)

	ef := entryFunction(t, payload)
	assert.Equal(t, contract, ef.Module.Address)
	assert.Equal(t, "candymachine", ef.Module.Name)
	assert.Equal(t, "mint_script", ef.Function)
	assert.Empty(t, ef.ArgTypes)
	require.Len(t, ef.Args, 1)
	assert.Equal(t, collection[:], ef.Args[0])
}

func TestPayloadBuilder_EntryFunction(t *testing.T) {
	t.Parallel()

	b := NewPayloadBuilder(aptos.MustParseAddress(testContract), "")

	_, err := b.EntryFunction("mint-script", nil)
	require.ErrorContains(t, err, "invalid function name")

	_, err = b.EntryFunction("mint_script", nil, nil)
	require.ErrorContains(t, err, "argument 0 is nil")

	payload, err := b.EntryFunction("set_paused", nil, Bool(true))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{1}}, entryFunction(t, payload).Args)
}

func TestPayloadBuilder_InitCandy(t *testing.T) {
	t.Parallel()

	contract := aptos.MustParseAddress(testContract)
	payee := aptos.MustParseAddress("0x2")
	now := time.Unix(1_700_000_000, 0)

	args := DefaultInitCandyArgs(now, payee, FixedIDGenerator("seedy"))
	payload, err := NewPayloadBuilder(contract, "").InitCandy(args)
	require.NoError(t, err)

	ef := entryFunction(t, payload)
	assert.Equal(t, "init_candy", ef.Function)
	require.Len(t, ef.Args, 17)

	u64 := func(v uint64) []byte {
		got, encErr := EncodeArgs(U64(v))
		require.NoError(t, encErr)

		return got[0]
	}

	assert.Equal(t, append([]byte{7}, "Mokshya"...), ef.Args[0])
	assert.Equal(t, payee[:], ef.Args[3])
	assert.Equal(t, u64(1000), ef.Args[4])
	assert.Equal(t, u64(42), ef.Args[5])
	assert.Equal(t, u64(1_700_000_010), ef.Args[6])
	assert.Equal(t, u64(1_700_000_015), ef.Args[7])
	assert.Equal(t, u64(2000), ef.Args[10])
	assert.Equal(t, []byte{3, 0, 0, 0}, ef.Args[11])
	assert.Equal(t, []byte{5, 0, 0, 0, 0, 0}, ef.Args[12])
	assert.Equal(t, u64(0), ef.Args[13])
	assert.Equal(t, []byte{0}, ef.Args[14])
	assert.Equal(t, append([]byte{5}, "seedy"...), ef.Args[15])
	assert.Equal(t, []byte{0}, ef.Args[16])
}

func TestInitCandyArgs_Validate(t *testing.T) {
	t.Parallel()

	valid := DefaultInitCandyArgs(time.Unix(1_700_000_000, 0), aptos.MustParseAddress("0x2"), FixedIDGenerator("ABCDE"))

	tests := []struct {
		name    string
		mutate  func(*InitCandyArgs)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*InitCandyArgs) {},
		},
		{
			name:    "missing name",
			mutate:  func(a *InitCandyArgs) { a.Name = "" },
			wantErr: "collection name is required",
		},
		{
			name:    "missing seed",
			mutate:  func(a *InitCandyArgs) { a.Seed = "" },
			wantErr: "seed is required",
		},
		{
			name:   "zero royalty",
			mutate: func(a *InitCandyArgs) { a.RoyaltyDenominator, a.RoyaltyNumerator = 0, 0 },
		},
		{
			name:    "numerator above denominator",
			mutate:  func(a *InitCandyArgs) { a.RoyaltyNumerator = 1001 },
			wantErr: "royalty numerator 1001 exceeds denominator 1000",
		},
		{
			name:    "public sale before presale",
			mutate:  func(a *InitCandyArgs) { a.PublicSaleTime = a.PresaleMintTime - 1 },
			wantErr: "public sale must not start before the presale",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := valid
			tt.mutate(&args)

			err := args.Validate()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPayloadBuilder_InitCandy_unvalidated(t *testing.T) {
	t.Parallel()

	payload, err := NewPayloadBuilder(aptos.MustParseAddress(testContract), "").InitCandy(InitCandyArgs{
		RoyaltyNumerator: 2000,
	})
	require.NoError(t, err)

	ef := entryFunction(t, payload)
	require.Len(t, ef.Args, 17)
	assert.Equal(t, []byte{0}, ef.Args[0])
	assert.Equal(t, []byte{0}, ef.Args[15])
}
