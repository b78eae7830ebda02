package abi

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

func mustType(t *testing.T, typ string) abi.Type {
	t.Helper()
	parsed, err := abi.NewType(typ, "", nil)
	require.NoError(t, err)
	return parsed
}

func TestConvert(t *testing.T) {
	tests := []struct {
		typ     string
		raw     string
		want    any
		wantErr string
	}{
		{typ: "address", raw: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", want: common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")},
		{typ: "address", raw: "0x1234", wantErr: "invalid address"},
		{typ: "bool", raw: "true", want: true},
		{typ: "string", raw: "EU-West", want: "EU-West"},
		{typ: "uint8", raw: "25", want: uint8(25)},
		{typ: "uint8", raw: "256", wantErr: "out of range"},
		{typ: "uint16", raw: "0x100", want: uint16(256)},
		{typ: "uint64", raw: "18446744073709551615", want: uint64(18446744073709551615)},
		{typ: "uint256", raw: "1000000000000000000", want: big.NewInt(1e18)},
		{typ: "uint256", raw: "-1", wantErr: "out of range"},
		{typ: "int8", raw: "-128", want: int8(-128)},
		{typ: "int8", raw: "128", wantErr: "out of range"},
		{typ: "int24", raw: "-5", want: big.NewInt(-5)},
		{typ: "uint256", raw: "abc", wantErr: "invalid integer"},
		{typ: "bytes", raw: "0xdeadbeef", want: []byte{0xde, 0xad, 0xbe, 0xef}},
		{typ: "bytes4", raw: "0xdeadbeef", want: [4]byte{0xde, 0xad, 0xbe, 0xef}},
		{typ: "bytes2", raw: "0xdeadbeef", wantErr: "do not fit"},
		{typ: "uint8[]", raw: `[1, "2"]`, want: []uint8{1, 2}},
		{typ: "address[2]", raw: `["0x0000000000000000000000000000000000000001","0x0000000000000000000000000000000000000002"]`,
			want: [2]common.Address{common.HexToAddress("0x01"), common.HexToAddress("0x02")}},
		{typ: "address[2]", raw: `["0x0000000000000000000000000000000000000001"]`, wantErr: "expected 2 items"},
		{typ: "uint8[]", raw: `1,2`, wantErr: "expected a JSON array"},
	}

	for _, tt := range tests {
		t.Run(tt.typ+"/"+tt.raw, func(t *testing.T) {
			got, err := convert(mustType(t, tt.typ), tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeArgsPacks(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(`[{"type":"constructor","inputs":[
		{"name":"riskLib","type":"address"},
		{"name":"wallet","type":"address"},
		{"name":"feeBps","type":"uint16"}
	]}]`))
	require.NoError(t, err)

	encoder := NewEncoder()
	values, err := encoder.EncodeArgs(parsed.Constructor.Inputs, []string{
		"0x0000000000000000000000000000000000000000",
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		"250",
	})
	require.NoError(t, err)

	packed, err := parsed.Pack("", values...)
	require.NoError(t, err)
	assert.Len(t, packed, 96)

	_, err = encoder.EncodeArgs(parsed.Constructor.Inputs, []string{"0x01"})
	assert.ErrorContains(t, err, "expected 3 arguments, got 1")

	_, err = encoder.EncodeArgs(parsed.Constructor.Inputs, []string{"nope", "0x0000000000000000000000000000000000000000", "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestFormatValue(t *testing.T) {
	encoder := NewEncoder()

	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", encoder.FormatValue(common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")))
	assert.Equal(t, "1000", encoder.FormatValue(big.NewInt(1000)))
	assert.Equal(t, "7", encoder.FormatValue(uint8(7)))
	assert.Equal(t, `"EU"`, encoder.FormatValue("EU"))
	assert.Equal(t, "true", encoder.FormatValue(true))
	assert.Equal(t, "0x", encoder.FormatValue([]byte{}))
	assert.Equal(t, "0xdeadbeef", encoder.FormatValue([4]byte{0xde, 0xad, 0xbe, 0xef}))
	assert.Equal(t, "[1, 2]", encoder.FormatValue([]*big.Int{big.NewInt(1), big.NewInt(2)}))
	assert.Contains(t, encoder.FormatValue(make([]byte, 40)), "(40 bytes)")
}
