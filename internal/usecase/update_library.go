package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// UpdateLibrary points the marketplace contract at a new library address
type UpdateLibrary struct {
	config    *config.RuntimeConfig
	store     DeploymentStore
	chain     ChainClient
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewUpdateLibrary creates a new update-library use case
func NewUpdateLibrary(
	cfg *config.RuntimeConfig,
	store DeploymentStore,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *UpdateLibrary {
	return &UpdateLibrary{
		config:    cfg,
		store:     store,
		chain:     chain,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "UpdateLibrary"),
	}
}

// UpdateLibraryParams contains parameters for a library update.
// Empty fields fall back to the [update] section of hmdeploy.toml.
type UpdateLibraryParams struct {
	Contract      string
	Library       string
	Setter        string
	Getter        string
	Confirmations uint64
}

// UpdateLibraryResult contains the outcome of the update
type UpdateLibraryResult struct {
	Network   *domain.Network
	Contract  common.Address
	Library   common.Address
	Previous  common.Address
	Current   common.Address
	TxHash    common.Hash
	Block     uint64
	Confirmed bool
}

// Run sends the setter transaction and reads the getter back.
// A read-back mismatch returns the result together with ErrValueMismatch.
func (uc *UpdateLibrary) Run(ctx context.Context, params UpdateLibraryParams) (*UpdateLibraryResult, error) {
	defaults := uc.config.Project.Update
	setter := firstNonEmpty(params.Setter, defaults.Setter)
	getter := firstNonEmpty(params.Getter, defaults.Getter)
	if setter == "" || getter == "" {
		return nil, fmt.Errorf("setter and getter names are required")
	}

	contract, err := uc.resolveContract(ctx, firstNonEmpty(params.Contract, defaults.Contract))
	if err != nil {
		return nil, err
	}
	libraryValue := firstNonEmpty(params.Library, defaults.Library)
	if libraryValue == "" {
		return nil, fmt.Errorf("a library address is required (--library or [update] library in %s)", config.ProjectFile)
	}
	library, err := parseAddress("library address", libraryValue)
	if err != nil {
		return nil, err
	}

	contractABI, err := libraryABI(setter, getter)
	if err != nil {
		return nil, err
	}

	network, err := uc.config.ChainNetwork()
	if err != nil {
		return nil, err
	}
	key, err := uc.config.Accounts.Deployer()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender: %w", err)
	}
	warnDefaultMnemonic(uc.log, uc.config, network)

	if err := uc.chain.Connect(ctx, network); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer uc.chain.Close()

	code, err := uc.chain.CodeAt(ctx, contract)
	if err != nil {
		return nil, fmt.Errorf("failed to read code at %s: %w", contract.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w at %s", domain.ErrNoContract, contract.Hex())
	}

	result := &UpdateLibraryResult{Network: network, Contract: contract, Library: library}

	result.Previous, err = uc.readAddress(ctx, contract, contractABI, getter)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("current library", "getter", getter, "value", result.Previous.Hex())

	if !network.Local && !uc.config.NonInteractive {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Call %s(%s) on %s (%s)", setter, library.Hex(), contract.Hex(), network.Name))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "updating", Message: fmt.Sprintf("Sending %s", setter), Spinner: true})
	tx, err := uc.chain.Transact(ctx, TransactRequest{
		Key:           key,
		To:            contract,
		ABI:           contractABI,
		Method:        setter,
		Args:          []any{library},
		Confirmations: confirmationsOr(params.Confirmations, uc.config.Confirmations),
	})
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "updated"})
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", setter, err)
	}
	result.TxHash = tx.TxHash
	result.Block = tx.BlockNumber

	result.Current, err = uc.readAddress(ctx, contract, contractABI, getter)
	if err != nil {
		return result, fmt.Errorf("update sent in %s but read-back failed: %w", tx.TxHash.Hex(), err)
	}

	if result.Current != library {
		return result, fmt.Errorf("%w: %s() returned %s, expected %s", domain.ErrValueMismatch, getter, result.Current.Hex(), library.Hex())
	}
	result.Confirmed = true
	return result, nil
}

func (uc *UpdateLibrary) resolveContract(ctx context.Context, value string) (common.Address, error) {
	if value != "" {
		return parseAddress("contract address", value)
	}
	record, err := recordedAddress(ctx, uc.store)
	if err != nil {
		return common.Address{}, err
	}
	return record.ContractAddress, nil
}

func (uc *UpdateLibrary) readAddress(ctx context.Context, contract common.Address, contractABI abi.ABI, getter string) (common.Address, error) {
	out, err := uc.chain.Call(ctx, contract, contractABI, getter)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s() failed: %w", getter, err)
	}
	if len(out) != 1 {
		return common.Address{}, fmt.Errorf("%s() returned %d values, expected 1", getter, len(out))
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s() returned %T, expected address", getter, out[0])
	}
	return addr, nil
}

// libraryABI builds the minimal interface needed to read and write the library address
func libraryABI(setter, getter string) (abi.ABI, error) {
	def := fmt.Sprintf(`[
		{"type":"function","name":%q,"stateMutability":"nonpayable","inputs":[{"name":"library","type":"address"}],"outputs":[]},
		{"type":"function","name":%q,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
	]`, setter, getter)
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("invalid setter/getter names %q/%q: %w", setter, getter, err)
	}
	return parsed, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
