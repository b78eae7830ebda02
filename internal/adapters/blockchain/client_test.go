package blockchain

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// storeCode deploys a runtime that returns slot 0 for short calldata and
// stores calldata[4:36] in slot 0 otherwise.
const storeCode = "0x601a600c600039601a6000f3" + "6004361160125760005460005260206000f35b60043560005500"

const storeABI = `[
	{"type":"constructor","inputs":[{"name":"wallet","type":"address"},{"name":"fee","type":"uint256"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"riskLibrary","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"setRiskLibrary","inputs":[{"name":"lib","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
]`

// simulated.NewBackend uses chain ID 1337
const simulatedChainID = 1337

func newTestClient(t *testing.T) (*Client, *simulated.Backend, usecase.DeployRequest) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	backend := simulated.NewBackend(types.GenesisAlloc{
		from: {Balance: new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))},
	})
	t.Cleanup(func() { _ = backend.Close() })

	// Mine blocks in the background so receipts and confirmations arrive
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	client := NewClient(slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.pollInterval = 10 * time.Millisecond
	client.dial = func(ctx context.Context, rpcURL string) (Backend, error) {
		return backend.Client(), nil
	}

	parsed, err := abi.JSON(strings.NewReader(storeABI))
	require.NoError(t, err)

	req := usecase.DeployRequest{
		Key:           key,
		ABI:           parsed,
		Bytecode:      hexutil.MustDecode(storeCode),
		Args:          []any{from, big.NewInt(250)},
		Confirmations: 1,
	}
	return client, backend, req
}

func TestConnectChecksChainID(t *testing.T) {
	client, _, _ := newTestClient(t)
	ctx := context.Background()

	err := client.Connect(ctx, &domain.Network{Name: "sepolia", ChainID: 11155111})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrChainIDMismatch)

	_, err = client.CodeAt(ctx, common.Address{})
	assert.ErrorContains(t, err, "not connected")

	require.NoError(t, client.Connect(ctx, &domain.Network{Name: "sim", ChainID: simulatedChainID}))
	require.NoError(t, client.Connect(ctx, &domain.Network{Name: "sim"}))
}

func TestDeployCallTransact(t *testing.T) {
	client, _, req := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, client.Connect(ctx, &domain.Network{Name: "sim", ChainID: simulatedChainID}))
	defer client.Close()

	req.Confirmations = 3
	result, err := client.Deploy(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, common.Address{}, result.ContractAddress)
	assert.NotZero(t, result.GasUsed)
	assert.NotZero(t, result.BlockNumber)
	assert.Equal(t, 1, result.Cost().Sign())

	code, err := client.CodeAt(ctx, result.ContractAddress)
	require.NoError(t, err)
	assert.Len(t, code, 26)

	out, err := client.Call(ctx, result.ContractAddress, req.ABI, "riskLibrary")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, common.Address{}, out[0])

	lib := common.HexToAddress("0x00000000000000000000000000000000000000aB")
	txResult, err := client.Transact(ctx, usecase.TransactRequest{
		Key:           req.Key,
		To:            result.ContractAddress,
		ABI:           req.ABI,
		Method:        "setRiskLibrary",
		Args:          []any{lib},
		Confirmations: 1,
	})
	require.NoError(t, err)
	assert.NotEqual(t, common.Hash{}, txResult.TxHash)

	out, err = client.Call(ctx, result.ContractAddress, req.ABI, "riskLibrary")
	require.NoError(t, err)
	assert.Equal(t, lib, out[0])
}

func TestCodeAtEmptyAccount(t *testing.T) {
	client, _, _ := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.Connect(ctx, &domain.Network{Name: "sim"}))

	code, err := client.CodeAt(ctx, common.HexToAddress("0x00000000000000000000000000000000000000ff"))
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestDeployRevertedConstructor(t *testing.T) {
	client, _, req := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx, &domain.Network{Name: "sim"}))

	// PUSH1 0 PUSH1 0 REVERT
	req.Bytecode = hexutil.MustDecode("0x60006000fd")
	_, err := client.Deploy(ctx, req)
	require.Error(t, err)
}
