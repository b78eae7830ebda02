package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marketplaceABI = `[
  {"type":"function","name":"registerPatient","inputs":[{"name":"ageBracket","type":"uint8"},{"name":"region","type":"string"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"platformWallet","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
  {"type":"event","name":"PatientRegistered","inputs":[{"name":"patient","type":"address","indexed":true}],"anonymous":false}
]`

func mustParse(t *testing.T, s string) *ABI {
	t.Helper()
	parsed, err := ParseABI([]byte(s))
	require.NoError(t, err)
	return parsed
}

func TestParseABI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{name: "marketplace", input: marketplaceABI, wantLen: 3},
		{name: "empty array", input: `[]`, wantLen: 0},
		{name: "null", input: `null`, wantLen: 0},
		{name: "not an array", input: `{"type":"function"}`, wantErr: true},
		{name: "entry not an object", input: `["registerPatient"]`, wantErr: true},
		{name: "trailing data", input: `[] []`, wantErr: true},
		{name: "truncated", input: `[{"type":"function"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseABI([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidABI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, parsed.Len())
		})
	}
}

func TestCanonicalIgnoresFormattingAndKeyOrder(t *testing.T) {
	a := mustParse(t, `[{"type":"function","name":"registerPatient","inputs":[]}]`)
	b := mustParse(t, "[\n  {\"inputs\": [], \"name\": \"registerPatient\",\n \"type\": \"function\"}\n]")

	assert.Equal(t, string(a.Canonical()), string(b.Canonical()))
	assert.Equal(t, `[{"inputs":[],"name":"registerPatient","type":"function"}]`, string(a.Canonical()))
	assert.True(t, a.Equal(b))
}

func TestHashIsOrderSensitive(t *testing.T) {
	a := mustParse(t, `[{"type":"function","name":"a"},{"type":"function","name":"b"}]`)
	b := mustParse(t, `[{"type":"function","name":"b"},{"type":"function","name":"a"}]`)

	assert.Equal(t, a.Len(), b.Len())
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(b))
}

func TestHashDetectsInputTypeChange(t *testing.T) {
	artifact := mustParse(t, marketplaceABI)
	frontend := mustParse(t, marketplaceABI)
	require.True(t, artifact.Equal(frontend))

	mutated := mustParse(t, strings.Replace(marketplaceABI, `"type":"uint8"`, `"type":"uint16"`, 1))
	assert.False(t, artifact.Equal(mutated))
	assert.Equal(t, artifact.Len(), mutated.Len())
}

func TestCanonicalPreservesNumbersAndMarkup(t *testing.T) {
	parsed := mustParse(t, `[{"type":"function","name":"f","gas":12345678901234567890,"note":"<a&b>"}]`)
	assert.Equal(t, `[{"gas":12345678901234567890,"name":"f","note":"<a&b>","type":"function"}]`, string(parsed.Canonical()))
}

func TestIndented(t *testing.T) {
	parsed := mustParse(t, `[{"type":"function","name":"f","inputs":[]}]`)
	expected := "[\n  {\n    \"inputs\": [],\n    \"name\": \"f\",\n    \"type\": \"function\"\n  }\n]"
	assert.Equal(t, expected, string(parsed.Indented()))

	reparsed := mustParse(t, string(parsed.Indented()))
	assert.True(t, parsed.Equal(reparsed))
}

func TestEntries(t *testing.T) {
	parsed := mustParse(t, `[
		{"type":"constructor","inputs":[{"name":"wallet","type":"address"}]},
		{"type":"function","name":"submitRecord","inputs":[{"name":"r","type":"tuple","components":[{"name":"a","type":"uint256"},{"name":"b","type":"bytes32"}]},{"name":"rs","type":"tuple[]","components":[{"name":"c","type":"bool"}]}],"stateMutability":"nonpayable"},
		{"name":"legacy","inputs":[],"constant":true}
	]`)

	entries := parsed.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, "constructor", entries[0].Type)
	assert.Equal(t, "constructor(address)", entries[0].Signature)

	assert.Equal(t, "submitRecord((uint256,bytes32),(bool)[])", entries[1].Signature)
	assert.Equal(t, 2, entries[1].Inputs)

	assert.Equal(t, "function", entries[2].Type, "missing type defaults to function")
	assert.Equal(t, "legacy()", entries[2].Signature)
}

func TestGettersAndHas(t *testing.T) {
	parsed := mustParse(t, marketplaceABI)

	assert.Equal(t, []string{"platformWallet"}, parsed.Getters())
	assert.True(t, parsed.Has("function", "registerPatient"))
	assert.True(t, parsed.Has("event", "PatientRegistered"))
	assert.False(t, parsed.Has("event", "registerPatient"))
}

func TestContract(t *testing.T) {
	parsed := mustParse(t, marketplaceABI)
	contract, err := parsed.Contract()
	require.NoError(t, err)

	_, ok := contract.Methods["registerPatient"]
	assert.True(t, ok)
	_, ok = contract.Events["PatientRegistered"]
	assert.True(t, ok)
}

func TestDiffABI(t *testing.T) {
	artifact := mustParse(t, `[
		{"type":"function","name":"registerPatient","inputs":[{"name":"a","type":"uint8"}]},
		{"type":"function","name":"grantAccess","inputs":[{"name":"r","type":"address"}],"stateMutability":"nonpayable"},
		{"type":"event","name":"AccessGranted","inputs":[]}
	]`)
	frontend := mustParse(t, `[
		{"type":"function","name":"registerPatient","inputs":[{"name":"a","type":"uint16"}]},
		{"type":"function","name":"grantAccess","inputs":[{"name":"r","type":"address"}],"stateMutability":"view"},
		{"type":"function","name":"legacyExport","inputs":[]}
	]`)

	diff := DiffABI(frontend, artifact)

	require.Len(t, diff.Mismatched, 1)
	assert.Equal(t, SignatureMismatch{
		Type:     "function",
		Name:     "registerPatient",
		Frontend: "registerPatient(uint16)",
		Artifact: "registerPatient(uint8)",
	}, diff.Mismatched[0])

	require.Len(t, diff.Missing, 1)
	assert.Equal(t, "AccessGranted", diff.Missing[0].Name)

	require.Len(t, diff.Extra, 1)
	assert.Equal(t, "legacyExport", diff.Extra[0].Name)

	require.Len(t, diff.Changed, 1)
	assert.Equal(t, "grantAccess", diff.Changed[0].Name)

	assert.Equal(t, 4, diff.Count())
	assert.False(t, diff.Empty())
}

func TestDiffABIIdentical(t *testing.T) {
	diff := DiffABI(mustParse(t, marketplaceABI), mustParse(t, marketplaceABI))
	assert.True(t, diff.Empty())
	assert.Zero(t, diff.Count())
}
