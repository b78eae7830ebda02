package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// Encoder converts textual argument values into the Go types go-ethereum packs
type Encoder struct{}

// NewEncoder creates a new argument encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeArgs converts raw values according to the input types
func (e *Encoder) EncodeArgs(inputs abi.Arguments, raw []string) ([]any, error) {
	if len(raw) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(raw))
	}

	values := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := convert(input.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s %s): %w", i, input.Type.String(), input.Name, err)
		}
		values[i] = v
	}
	return values, nil
}

func convert(t abi.Type, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
		}
		return common.HexToAddress(raw), nil

	case abi.BoolTy:
		return strconv.ParseBool(raw)

	case abi.StringTy:
		return raw, nil

	case abi.IntTy, abi.UintTy:
		return convertInteger(t, raw)

	case abi.BytesTy:
		return hexutil.Decode(raw)

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("%d bytes do not fit in bytes%d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		return convertList(t, raw)

	default:
		return nil, fmt.Errorf("unsupported type %s", t.String())
	}
}

func convertInteger(t abi.Type, raw string) (any, error) {
	n, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s out of range for uint%d", raw, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s out of range for int%d", raw, t.Size)
		}
	}

	// Sizes 8, 16, 32 and 64 map to native Go integers, everything else to *big.Int
	goType := t.GetType()
	if goType.Kind() == reflect.Ptr {
		return n, nil
	}
	v := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		v.SetUint(n.Uint64())
	} else {
		v.SetInt(n.Int64())
	}
	return v.Interface(), nil
}

// convertList accepts a JSON array whose items are strings or bare values
func convertList(t abi.Type, raw string) (any, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("expected a JSON array: %w", err)
	}
	if t.T == abi.ArrayTy && len(items) != t.Size {
		return nil, fmt.Errorf("expected %d items, got %d", t.Size, len(items))
	}

	var list reflect.Value
	if t.T == abi.ArrayTy {
		list = reflect.New(t.GetType()).Elem()
	} else {
		list = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}

	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			s = string(item)
		}
		v, err := convert(*t.Elem, s)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		list.Index(i).Set(reflect.ValueOf(v))
	}
	return list.Interface(), nil
}

// FormatValue formats a decoded value for human display
func (e *Encoder) FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case common.Address:
		return v.Hex()
	case *big.Int:
		return v.String()
	case []byte:
		if len(v) == 0 {
			return "0x"
		}
		if len(v) <= 32 {
			return hexutil.Encode(v)
		}
		// Truncate long byte arrays
		return fmt.Sprintf("%s...(%d bytes)", hexutil.Encode(v[:16]), len(v))
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case [32]byte:
		return hexutil.Encode(v[:])
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8:
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return hexutil.Encode(b)
	case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = e.FormatValue(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	// Try JSON marshaling for complex types
	if jsonBytes, err := json.Marshal(value); err == nil {
		return string(jsonBytes)
	}
	return fmt.Sprintf("%v", value)
}

// Ensure the adapter implements the interface
var _ usecase.ArgEncoder = (*Encoder)(nil)
