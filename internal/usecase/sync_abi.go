package usecase

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// SyncABI rewrites the ABI block, and optionally the address, of the frontend contract config
type SyncABI struct {
	config    *config.RuntimeConfig
	frontend  FrontendSource
	artifacts ArtifactRepository
	store     DeploymentStore
	log       *slog.Logger
}

// NewSyncABI creates a new sync use case
func NewSyncABI(
	cfg *config.RuntimeConfig,
	frontend FrontendSource,
	artifacts ArtifactRepository,
	store DeploymentStore,
	log *slog.Logger,
) *SyncABI {
	return &SyncABI{
		config:    cfg,
		frontend:  frontend,
		artifacts: artifacts,
		store:     store,
		log:       log.With("component", "SyncABI"),
	}
}

// SyncABIParams contains parameters for the sync
type SyncABIParams struct {
	Contract string
	// UpdateAddress also rewrites the address constant
	UpdateAddress bool
	// Address defaults to the contractAddress of deployment-info.json
	Address string
	// DryRun computes the result without writing
	DryRun bool
}

// SyncABIResult describes what was (or would be) changed
type SyncABIResult struct {
	Path           string
	Contract       string
	Entries        int
	ABIChanged     bool
	AddressChanged bool
	PreviousAddr   string
	Address        string
}

// Changed reports whether the file content changed
func (r *SyncABIResult) Changed() bool {
	return r.ABIChanged || r.AddressChanged
}

// Run rewrites the frontend file. All markers are located before anything is written.
func (uc *SyncABI) Run(ctx context.Context, params SyncABIParams) (*SyncABIResult, error) {
	fc := uc.config.Project.Frontend
	contractName := firstNonEmpty(params.Contract, fc.Contract)
	path := uc.frontend.Path()

	src, err := uc.frontend.Read(ctx)
	if err != nil {
		return nil, err
	}

	block, err := domain.FindABIBlock(path, src, fc.ABIStartMarker, fc.ABIEndMarker)
	if err != nil {
		return nil, err
	}

	_, artifactABI, err := loadArtifactABI(ctx, uc.artifacts, contractName)
	if err != nil {
		return nil, err
	}

	result := &SyncABIResult{Path: path, Contract: contractName, Entries: artifactABI.Len()}

	body := string(artifactABI.Indented())
	out := block.Replace(src, body)
	result.ABIChanged = out != src

	if params.UpdateAddress {
		address, err := uc.resolveAddress(ctx, params.Address)
		if err != nil {
			return nil, err
		}
		lit, err := domain.FindAddressConstant(path, out, fc.AddressConstant)
		if err != nil {
			return nil, err
		}
		result.PreviousAddr = lit.Value
		result.Address = address.Hex()
		if lit.Value != result.Address {
			out = lit.Replace(out, result.Address)
			result.AddressChanged = true
		}
	}

	if !result.Changed() || params.DryRun {
		uc.log.Debug("nothing written", "changed", result.Changed(), "dry_run", params.DryRun)
		return result, nil
	}

	if err := uc.frontend.Write(ctx, out); err != nil {
		return nil, err
	}
	uc.log.Info("frontend config updated", "path", path, "abi", result.ABIChanged, "address", result.AddressChanged)
	return result, nil
}

func (uc *SyncABI) resolveAddress(ctx context.Context, value string) (common.Address, error) {
	if value != "" {
		return parseAddress("address", value)
	}
	record, err := recordedAddress(ctx, uc.store)
	if err != nil {
		return common.Address{}, err
	}
	if record.Network != uc.config.Network.Name {
		uc.log.Warn("deployment record belongs to another network", "record", record.Network, "network", uc.config.Network.Name)
	}
	return record.ContractAddress, nil
}
