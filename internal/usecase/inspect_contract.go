package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// InspectContract reads public getters of a deployed contract
type InspectContract struct {
	config    *config.RuntimeConfig
	store     DeploymentStore
	artifacts ArtifactRepository
	chain     ChainClient
	encoder   ArgEncoder
	log       *slog.Logger
}

// NewInspectContract creates a new inspect use case
func NewInspectContract(
	cfg *config.RuntimeConfig,
	store DeploymentStore,
	artifacts ArtifactRepository,
	chain ChainClient,
	encoder ArgEncoder,
	log *slog.Logger,
) *InspectContract {
	return &InspectContract{
		config:    cfg,
		store:     store,
		artifacts: artifacts,
		chain:     chain,
		encoder:   encoder,
		log:       log.With("component", "InspectContract"),
	}
}

// InspectParams contains parameters for inspection
type InspectParams struct {
	// Address defaults to the contractAddress of deployment-info.json
	Address string
	// Contract names the artifact whose ABI is used
	Contract string
	// Getters overrides the configured getter list
	Getters []string
}

// InspectResult contains the state read from the contract
type InspectResult struct {
	Network  *domain.Network
	Address  common.Address
	Contract string
	CodeSize int
	Getters  []GetterResult
}

// GetterResult is the value or the error of a single getter call
type GetterResult struct {
	Name  string
	Value string
	Err   error
}

// Failed returns the number of getters that errored
func (r *InspectResult) Failed() int {
	n := 0
	for _, g := range r.Getters {
		if g.Err != nil {
			n++
		}
	}
	return n
}

// Run inspects the contract. Getter errors are recorded and inspection continues.
func (uc *InspectContract) Run(ctx context.Context, params InspectParams) (*InspectResult, error) {
	address, err := uc.resolveAddress(ctx, params.Address)
	if err != nil {
		return nil, err
	}

	contractName := params.Contract
	if contractName == "" {
		contractName = uc.config.Project.Frontend.Contract
	}

	network, err := uc.config.ChainNetwork()
	if err != nil {
		return nil, err
	}
	if err := uc.chain.Connect(ctx, network); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer uc.chain.Close()

	code, err := uc.chain.CodeAt(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to read code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w at %s", domain.ErrNoContract, address.Hex())
	}

	_, parsed, err := loadArtifactABI(ctx, uc.artifacts, contractName)
	if err != nil {
		return nil, err
	}
	contract, err := parsed.Contract()
	if err != nil {
		return nil, err
	}

	getters := params.Getters
	if len(getters) == 0 {
		getters = uc.config.Project.Inspect.Getters
	}
	if len(getters) == 0 {
		getters = parsed.Getters()
	}

	result := &InspectResult{
		Network:  network,
		Address:  address,
		Contract: contractName,
		CodeSize: len(code),
		Getters:  make([]GetterResult, 0, len(getters)),
	}

	for _, name := range getters {
		getter := GetterResult{Name: name}
		if _, ok := contract.Methods[name]; !ok {
			getter.Err = fmt.Errorf("%s has no method %s", contractName, name)
			result.Getters = append(result.Getters, getter)
			continue
		}

		out, err := uc.chain.Call(ctx, address, contract, name)
		if err != nil {
			uc.log.Debug("getter failed", "getter", name, "error", err)
			getter.Err = err
		} else {
			getter.Value = uc.formatOutputs(out)
		}
		result.Getters = append(result.Getters, getter)
	}

	return result, nil
}

func (uc *InspectContract) resolveAddress(ctx context.Context, value string) (common.Address, error) {
	if value != "" {
		return parseAddress("contract address", value)
	}
	record, err := recordedAddress(ctx, uc.store)
	if err != nil {
		return common.Address{}, err
	}
	return record.ContractAddress, nil
}

func (uc *InspectContract) formatOutputs(out []any) string {
	parts := make([]string, len(out))
	for i, v := range out {
		parts[i] = uc.encoder.FormatValue(v)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
