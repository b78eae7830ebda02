package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// GenerateFrontendConfig writes a complete frontend contract config module
type GenerateFrontendConfig struct {
	config    *config.RuntimeConfig
	frontend  FrontendSource
	generator FrontendGenerator
	artifacts ArtifactRepository
	store     DeploymentStore
	log       *slog.Logger
}

// NewGenerateFrontendConfig creates a new generate use case
func NewGenerateFrontendConfig(
	cfg *config.RuntimeConfig,
	frontend FrontendSource,
	generator FrontendGenerator,
	artifacts ArtifactRepository,
	store DeploymentStore,
	log *slog.Logger,
) *GenerateFrontendConfig {
	return &GenerateFrontendConfig{
		config:    cfg,
		frontend:  frontend,
		generator: generator,
		artifacts: artifacts,
		store:     store,
		log:       log.With("component", "GenerateFrontendConfig"),
	}
}

// GenerateParams contains parameters for generation
type GenerateParams struct {
	Contract string
	// Address defaults to deployment-info.json, then to the zero address
	Address string
	// Force overwrites an existing file
	Force bool
	// DryRun returns the content without writing
	DryRun bool
}

// GenerateResult contains the generated module
type GenerateResult struct {
	Path    string
	Content string
	Written bool
}

// Run renders the module and writes it
func (uc *GenerateFrontendConfig) Run(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	fc := uc.config.Project.Frontend
	contractName := firstNonEmpty(params.Contract, fc.Contract)
	path := uc.frontend.Path()

	if !params.DryRun && !params.Force {
		exists, err := uc.frontend.Exists(ctx)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%s already exists, use --force to overwrite or `hmdeploy abi sync` to update it", path)
		}
	}

	_, artifactABI, err := loadArtifactABI(ctx, uc.artifacts, contractName)
	if err != nil {
		return nil, err
	}

	data := FrontendTemplateData{
		Contract:        contractName,
		Network:         uc.config.Network.Name,
		ChainID:         uc.config.Network.ChainID,
		AddressConstant: fc.AddressConstant,
		ABIStartMarker:  fc.ABIStartMarker,
		ABIEndMarker:    fc.ABIEndMarker,
		ABI:             string(artifactABI.Indented()),
	}

	if params.Address != "" {
		address, err := parseAddress("address", params.Address)
		if err != nil {
			return nil, err
		}
		data.Address = address.Hex()
	} else {
		record, err := uc.store.GetDeploymentRecord(ctx)
		switch {
		case err == nil:
			data.Address = record.ContractAddress.Hex()
			data.Network = record.Network
			data.ChainID = record.ChainID
		case errors.Is(err, domain.ErrNotFound):
			uc.log.Warn("no deployment record, generating with the zero address")
			data.Address = zeroAddressHex
		default:
			return nil, fmt.Errorf("failed to read deployment record: %w", err)
		}
	}

	content, err := uc.generator.Generate(ctx, data)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{Path: path, Content: content}
	if params.DryRun {
		return result, nil
	}

	if err := uc.frontend.Write(ctx, content); err != nil {
		return nil, err
	}
	result.Written = true
	return result, nil
}

const zeroAddressHex = "0x0000000000000000000000000000000000000000"
