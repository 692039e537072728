package candymachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
)

const testContract = "0x511f963111905e2ae9cf79b00a9b9fa237dc6962e87018af3023615d7853d8fd"

func TestParseEntryFunctionID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		give         string
		wantModule   string
		wantFunction string
		wantErr      string
	}{
		{
			name:         "mint script",
			give:         testContract + "::candymachine::mint_script",
			wantModule:   "candymachine",
			wantFunction: "mint_script",
		},
		{
			name:         "short address",
			give:         "0x1::aptos_account::transfer",
			wantModule:   "aptos_account",
			wantFunction: "transfer",
		},
		{
			name:    "missing function",
			give:    testContract + "::candymachine",
			wantErr: "expected <address>::<module>::<function>",
		},
		{
			name:    "too many parts",
			give:    testContract + "::candymachine::mint_script::extra",
			wantErr: "expected <address>::<module>::<function>",
		},
		{
			name:    "bad address",
			give:    "0xnothex::candymachine::mint_script",
			wantErr: "invalid Aptos address format",
		},
		{
			name:    "bad module name",
			give:    testContract + "::candy-machine::mint_script",
			wantErr: `invalid module name "candy-machine"`,
		},
		{
			name:    "empty function name",
			give:    testContract + "::candymachine::",
			wantErr: `invalid function name ""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseEntryFunctionID(tt.give)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantModule, got.Module)
			assert.Equal(t, tt.wantFunction, got.Function)
		})
	}
}

func TestEntryFunctionID_String(t *testing.T) {
	t.Parallel()

	id := EntryFunctionID{
		Address:  aptos.MustParseAddress(testContract),
		Module:   "candymachine",
		Function: "init_candy",
	}

	assert.Equal(t, testContract+"::candymachine::init_candy", id.String())

	parsed, err := ParseEntryFunctionID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	short, err := ParseEntryFunctionID("0x1::coin::transfer")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000001::coin::transfer", short.String())
}
