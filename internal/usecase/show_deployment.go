package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// ShowDeployment reports deployment-info.json and the cache of the current network
type ShowDeployment struct {
	config *config.RuntimeConfig
	store  DeploymentStore
}

// NewShowDeployment creates a new show deployment use case
func NewShowDeployment(cfg *config.RuntimeConfig, store DeploymentStore) *ShowDeployment {
	return &ShowDeployment{config: cfg, store: store}
}

// ShowDeploymentResult contains the recorded deployment and the cache entries
type ShowDeploymentResult struct {
	Network string
	// Record is nil when deployment-info.json doesn't exist
	Record *domain.DeploymentRecord
	Cached []*domain.CachedDeployment
}

// Run reads the deployment state
func (uc *ShowDeployment) Run(ctx context.Context) (*ShowDeploymentResult, error) {
	result := &ShowDeploymentResult{Network: uc.config.Network.Name}

	record, err := uc.store.GetDeploymentRecord(ctx)
	switch {
	case err == nil:
		result.Record = record
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to read deployment record: %w", err)
	}

	result.Cached, err = uc.store.ListCachedDeployments(ctx, result.Network)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment cache: %w", err)
	}

	return result, nil
}
