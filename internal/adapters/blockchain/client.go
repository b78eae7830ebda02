package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// Backend is the part of ethclient the client needs
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client implements the ChainClient interface using ethclient
type Client struct {
	dial         func(ctx context.Context, rpcURL string) (Backend, error)
	backend      Backend
	chainID      *big.Int
	pollInterval time.Duration
	log          *slog.Logger
}

// NewClient creates a new chain client
func NewClient(log *slog.Logger) *Client {
	return &Client{
		dial:         dialEthclient,
		pollInterval: 2 * time.Second,
		log:          log.With("component", "chain"),
	}
}

func dialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// Connect establishes connection to the network and checks its chain ID
func (c *Client) Connect(ctx context.Context, network *domain.Network) error {
	backend, err := c.dial(ctx, network.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := backend.ChainID(ctx)
	if err != nil {
		closeBackend(backend)
		return fmt.Errorf("failed to get chain ID: %w", err)
	}

	// A zero chain ID accepts whatever the endpoint reports
	if network.ChainID != 0 && networkChainID.Uint64() != network.ChainID {
		closeBackend(backend)
		return fmt.Errorf("%w: %s expects %d, RPC reports %d",
			domain.ErrChainIDMismatch, network.Name, network.ChainID, networkChainID.Uint64())
	}

	c.backend = backend
	c.chainID = networkChainID
	c.log.Debug("connected", "network", network.Name, "chainId", networkChainID)
	return nil
}

// CodeAt returns the runtime bytecode at an address
func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	code, err := c.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get code at %s: %w", address.Hex(), err)
	}
	return code, nil
}

// Deploy submits a contract creation and waits for confirmations
func (c *Client) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.TxResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	auth, err := c.transactor(ctx, req.Key)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := bind.DeployContract(auth, req.ABI, req.Bytecode, c.backend, req.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment transaction: %w", err)
	}
	c.log.Debug("deployment sent", "tx", tx.Hash().Hex(), "address", address.Hex())

	receipt, err := c.waitConfirmed(ctx, tx, req.Confirmations)
	if err != nil {
		return nil, err
	}

	code, err := c.CodeAt(ctx, receipt.ContractAddress)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w at %s after deployment", domain.ErrNoContract, receipt.ContractAddress.Hex())
	}

	return txResult(receipt), nil
}

// Call invokes a read-only method
func (c *Client) Call(ctx context.Context, address common.Address, contract abi.ABI, method string, args ...any) ([]any, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(address, contract, c.backend, c.backend, c.backend)
	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("call %s failed: %w", method, err)
	}
	return out, nil
}

// Transact sends a state-changing call and waits for confirmations
func (c *Client) Transact(ctx context.Context, req usecase.TransactRequest) (*usecase.TxResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	auth, err := c.transactor(ctx, req.Key)
	if err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(req.To, req.ABI, c.backend, c.backend, c.backend)
	tx, err := bound.Transact(auth, req.Method, req.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", req.Method, err)
	}
	c.log.Debug("transaction sent", "tx", tx.Hash().Hex(), "method", req.Method)

	receipt, err := c.waitConfirmed(ctx, tx, req.Confirmations)
	if err != nil {
		return nil, err
	}
	return txResult(receipt), nil
}

// Close releases the RPC connection
func (c *Client) Close() {
	if c.backend != nil {
		closeBackend(c.backend)
		c.backend = nil
	}
}

func (c *Client) ready() error {
	if c.backend == nil {
		return fmt.Errorf("not connected to blockchain")
	}
	return nil
}

func (c *Client) transactor(ctx context.Context, key *ecdsa.PrivateKey) (*bind.TransactOpts, error) {
	if key == nil {
		return nil, fmt.Errorf("no deployer key")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	return auth, nil
}

// waitConfirmed waits for the receipt, then until head - receiptBlock + 1 >= confirmations
func (c *Client) waitConfirmed(ctx context.Context, tx *types.Transaction, confirmations uint64) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s (block %d)", domain.ErrTransactionReverted, tx.Hash().Hex(), receipt.BlockNumber.Uint64())
	}

	mined := receipt.BlockNumber.Uint64()
	for {
		head, err := c.backend.BlockNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get block number: %w", err)
		}
		if head+1 >= mined+confirmations {
			return receipt, nil
		}
		c.log.Debug("waiting for confirmations", "tx", tx.Hash().Hex(), "have", head+1-mined, "want", confirmations)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func txResult(receipt *types.Receipt) *usecase.TxResult {
	return &usecase.TxResult{
		TxHash:            receipt.TxHash,
		ContractAddress:   receipt.ContractAddress,
		BlockNumber:       receipt.BlockNumber.Uint64(),
		GasUsed:           receipt.GasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice,
	}
}

func closeBackend(backend Backend) {
	if closer, ok := backend.(interface{ Close() }); ok {
		closer.Close()
	}
}

// Ensure the adapter implements the interface
var _ usecase.ChainClient = (*Client)(nil)
