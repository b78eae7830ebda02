package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractTS = `// Contract configuration
export const CONTRACT_ADDRESS = "0x0000000000000000000000000000000000000000";

export const CONTRACT_ABI = [{"type":"function","name":"platformWallet","inputs":[]}] as const;

export const SUPPORTED_CHAIN_ID = 11155111;
`

func TestFindABIBlock(t *testing.T) {
	block, err := FindABIBlock("contract.ts", contractTS, "export const CONTRACT_ABI = ", " as const;")
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"function","name":"platformWallet","inputs":[]}]`, block.Body)

	replaced := block.Replace(contractTS, "[]")
	assert.Contains(t, replaced, "export const CONTRACT_ABI = [] as const;")
	assert.Contains(t, replaced, "SUPPORTED_CHAIN_ID = 11155111")
}

func TestFindABIBlockMissingMarkers(t *testing.T) {
	_, err := FindABIBlock("contract.ts", contractTS, "export const ABI = ", " as const;")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMarkerNotFound)
	assert.Equal(t, `contract.ts: marker "export const ABI = " not found`, err.Error())

	_, err = FindABIBlock("contract.ts", "export const CONTRACT_ABI = [];", "export const CONTRACT_ABI = ", " as const;")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}

func TestFindABIBlockUsesFirstEndMarkerAfterStart(t *testing.T) {
	src := "const X = 1 as const;\nexport const CONTRACT_ABI = [] as const;\nconst Y = 2 as const;\n"
	block, err := FindABIBlock("x.ts", src, "export const CONTRACT_ABI = ", " as const;")
	require.NoError(t, err)
	assert.Equal(t, "[]", block.Body)
}

func TestFindAddressConstant(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"double quotes", `export const CONTRACT_ADDRESS = "0xabc";`, "0xabc"},
		{"single quotes", `const CONTRACT_ADDRESS = '0xdef'`, "0xdef"},
		{"typed", "export const CONTRACT_ADDRESS: `0x${string}` = \"0x123\" as const;", "0x123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, err := FindAddressConstant("x.ts", tt.src, "CONTRACT_ADDRESS")
			require.NoError(t, err)
			assert.Equal(t, tt.want, lit.Value)
			assert.Contains(t, lit.Replace(tt.src, "0xfff"), "0xfff")
		})
	}

	_, err := FindAddressConstant("x.ts", `export const OTHER = "0x1";`, "CONTRACT_ADDRESS")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}

func TestHasConstant(t *testing.T) {
	assert.True(t, HasConstant(contractTS, "CONTRACT_ADDRESS"))
	assert.True(t, HasConstant(contractTS, "SUPPORTED_CHAIN_ID"))
	assert.False(t, HasConstant(contractTS, "CONTRACT"))
	assert.False(t, HasConstant(contractTS, "RPC_URL"))
}

func TestExtractFrontendABI(t *testing.T) {
	parsed, _, err := ExtractFrontendABI("contract.ts", contractTS, "export const CONTRACT_ABI = ", " as const;")
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.Len())

	_, _, err = ExtractFrontendABI("contract.ts", "export const CONTRACT_ABI = [oops] as const;", "export const CONTRACT_ABI = ", " as const;")
	assert.ErrorIs(t, err, ErrInvalidABI)
}
