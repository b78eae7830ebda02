package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// ErrAborted is returned when the user declines a confirmation prompt
var ErrAborted = errors.New("aborted by user")

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the default Sleeper
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// parseAddress validates a hex address argument
func parseAddress(what, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%w: %s %q", domain.ErrInvalidAddress, what, value)
	}
	return common.HexToAddress(value), nil
}

// recordedAddress reads the contract address from deployment-info.json
func recordedAddress(ctx context.Context, store DeploymentStore) (*domain.DeploymentRecord, error) {
	record, err := store.GetDeploymentRecord(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no address given and no deployment record found (run `hmdeploy deploy` first): %w", err)
		}
		return nil, fmt.Errorf("failed to read deployment record: %w", err)
	}
	return record, nil
}

// confirmationsOr returns override when set, then the configured value, then 1
func confirmationsOr(override, configured uint64) uint64 {
	if override > 0 {
		return override
	}
	if configured > 0 {
		return configured
	}
	return 1
}

// loadArtifactABI resolves a contract artifact and parses its ABI
func loadArtifactABI(ctx context.Context, artifacts ArtifactRepository, contract string) (*domain.Artifact, *domain.ABI, error) {
	artifact, err := artifacts.GetArtifact(ctx, contract)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := artifact.ParsedABI()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse ABI of %s: %w", artifact.FullyQualifiedName(), err)
	}
	return artifact, parsed, nil
}

// warnDefaultMnemonic flags transactions on a remote network signed with the public development mnemonic
func warnDefaultMnemonic(log *slog.Logger, cfg *config.RuntimeConfig, network *domain.Network) {
	if network.Local || cfg.Accounts.Source() != config.SourceDefaultMnemonic {
		return
	}
	log.Warn("using the default development mnemonic on a remote network, set PRIVATE_KEY or MNEMONIC", "network", network.Name)
}
