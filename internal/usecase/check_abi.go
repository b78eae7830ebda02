package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// Presence item kinds
const (
	ItemFunction = "function"
	ItemEvent    = "event"
	ItemConstant = "constant"
)

// CheckABI reports drift between the frontend contract config and the compiled artifact.
// It never writes.
type CheckABI struct {
	config    *config.RuntimeConfig
	frontend  FrontendSource
	artifacts ArtifactRepository
	store     DeploymentStore
	log       *slog.Logger
}

// NewCheckABI creates a new check use case
func NewCheckABI(
	cfg *config.RuntimeConfig,
	frontend FrontendSource,
	artifacts ArtifactRepository,
	store DeploymentStore,
	log *slog.Logger,
) *CheckABI {
	return &CheckABI{
		config:    cfg,
		frontend:  frontend,
		artifacts: artifacts,
		store:     store,
		log:       log.With("component", "CheckABI"),
	}
}

// CheckABIParams contains parameters for the check
type CheckABIParams struct {
	Contract string
}

// ABICheckResult is the full drift report
type ABICheckResult struct {
	FrontendPath string
	Contract     string

	ExactMatch      bool
	FrontendHash    common.Hash
	ArtifactHash    common.Hash
	FrontendEntries int
	ArtifactEntries int

	Items   []PresenceItem
	Diff    domain.ABIDiff
	Address *AddressCheck
}

// PresenceItem records whether an expected item was found
type PresenceItem struct {
	Kind       string
	Name       string
	InFrontend bool
	// InArtifact is only meaningful when ArtifactChecked is set
	InArtifact      bool
	ArtifactChecked bool
}

// OK reports whether the item is present everywhere it is checked
func (p PresenceItem) OK() bool {
	return p.InFrontend && (!p.ArtifactChecked || p.InArtifact)
}

// AddressCheck compares the frontend address constant with deployment-info.json
type AddressCheck struct {
	Frontend string
	Deployed common.Address
	Network  string
	Match    bool
}

// Findings returns the number of problems in the report
func (r *ABICheckResult) Findings() int {
	n := r.Diff.Count()
	for _, item := range r.Items {
		if !item.OK() {
			n++
		}
	}
	if r.Address != nil && !r.Address.Match {
		n++
	}
	return n
}

// Run builds the report. Findings are data, not errors.
func (uc *CheckABI) Run(ctx context.Context, params CheckABIParams) (*ABICheckResult, error) {
	fc := uc.config.Project.Frontend
	contractName := firstNonEmpty(params.Contract, fc.Contract)

	src, err := uc.frontend.Read(ctx)
	if err != nil {
		return nil, err
	}

	frontendABI, _, err := domain.ExtractFrontendABI(uc.frontend.Path(), src, fc.ABIStartMarker, fc.ABIEndMarker)
	if err != nil {
		return nil, err
	}

	_, artifactABI, err := loadArtifactABI(ctx, uc.artifacts, contractName)
	if err != nil {
		return nil, err
	}

	result := &ABICheckResult{
		FrontendPath:    uc.frontend.Path(),
		Contract:        contractName,
		FrontendHash:    frontendABI.Hash(),
		ArtifactHash:    artifactABI.Hash(),
		FrontendEntries: frontendABI.Len(),
		ArtifactEntries: artifactABI.Len(),
	}
	result.ExactMatch = frontendABI.Equal(artifactABI)

	expect := uc.config.Project.ABI.Expect
	for _, name := range expect.Functions {
		result.Items = append(result.Items, PresenceItem{
			Kind:            ItemFunction,
			Name:            name,
			InFrontend:      frontendABI.Has(ItemFunction, name),
			InArtifact:      artifactABI.Has(ItemFunction, name),
			ArtifactChecked: true,
		})
	}
	for _, name := range expect.Events {
		result.Items = append(result.Items, PresenceItem{
			Kind:            ItemEvent,
			Name:            name,
			InFrontend:      frontendABI.Has(ItemEvent, name),
			InArtifact:      artifactABI.Has(ItemEvent, name),
			ArtifactChecked: true,
		})
	}
	for _, name := range fc.RequiredConstants {
		result.Items = append(result.Items, PresenceItem{
			Kind:       ItemConstant,
			Name:       name,
			InFrontend: domain.HasConstant(src, name),
		})
	}

	if !result.ExactMatch {
		result.Diff = domain.DiffABI(frontendABI, artifactABI)
	}

	result.Address, err = uc.checkAddress(ctx, src)
	if err != nil {
		return nil, err
	}

	uc.log.Debug("abi check complete", "exact", result.ExactMatch, "findings", result.Findings())
	return result, nil
}

func (uc *CheckABI) checkAddress(ctx context.Context, src string) (*AddressCheck, error) {
	lit, err := domain.FindAddressConstant(uc.frontend.Path(), src, uc.config.Project.Frontend.AddressConstant)
	if err != nil {
		if errors.Is(err, domain.ErrMarkerNotFound) {
			return nil, nil
		}
		return nil, err
	}

	record, err := uc.store.GetDeploymentRecord(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read deployment record: %w", err)
	}

	return &AddressCheck{
		Frontend: lit.Value,
		Deployed: record.ContractAddress,
		Network:  record.Network,
		Match:    strings.EqualFold(lit.Value, record.ContractAddress.Hex()),
	}, nil
}
