package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

func TestGenerateIsSyncCompatible(t *testing.T) {
	data := usecase.FrontendTemplateData{
		Contract:        "HealthDataMarketplace",
		Network:         "sepolia",
		ChainID:         11155111,
		Address:         "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		AddressConstant: "CONTRACT_ADDRESS",
		ABIStartMarker:  "export const CONTRACT_ABI = ",
		ABIEndMarker:    " as const;",
		ABI:             "[\n  {\n    \"name\": \"platformWallet\",\n    \"type\": \"function\"\n  }\n]",
	}

	out, err := NewFrontendGeneratorAdapter().Generate(context.Background(), data)
	require.NoError(t, err)

	assert.Contains(t, out, "export const CHAIN_ID = 11155111;")

	lit, err := domain.FindAddressConstant("contract.ts", out, "CONTRACT_ADDRESS")
	require.NoError(t, err)
	assert.Equal(t, data.Address, lit.Value)

	parsed, block, err := domain.ExtractFrontendABI("contract.ts", out, data.ABIStartMarker, data.ABIEndMarker)
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.Len())
	assert.Equal(t, data.ABI, block.Body)
}
