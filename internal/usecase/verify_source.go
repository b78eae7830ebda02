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

// VerifySource publishes a deployed contract's source to the block explorer
type VerifySource struct {
	config   *config.RuntimeConfig
	store    DeploymentStore
	verifier SourceVerifier
	progress ProgressSink
	log      *slog.Logger
	sleep    Sleeper
}

// NewVerifySource creates a new verify use case
func NewVerifySource(
	cfg *config.RuntimeConfig,
	store DeploymentStore,
	verifier SourceVerifier,
	progress ProgressSink,
	log *slog.Logger,
) *VerifySource {
	return &VerifySource{
		config:   cfg,
		store:    store,
		verifier: verifier,
		progress: progress,
		log:      log.With("component", "VerifySource"),
		sleep:    ContextSleep,
	}
}

// WithSleeper replaces the sleeper used for the settling delay
func (uc *VerifySource) WithSleeper(sleep Sleeper) *VerifySource {
	uc.sleep = sleep
	return uc
}

// VerifyParams contains parameters for source verification
type VerifyParams struct {
	// Address defaults to the contractAddress of deployment-info.json
	Address string
	// Args are constructor arguments. When nil they are taken from the deployment cache.
	Args []string
	// Delay overrides the configured settling delay when non-nil
	Delay *time.Duration
}

// VerifyResult contains the outcome of verification
type VerifyResult struct {
	Network *domain.Network
	Address common.Address
	Args    []string
	Outcome *VerifyOutcome
}

// Run waits for the settling delay and submits the source
func (uc *VerifySource) Run(ctx context.Context, params VerifyParams) (*VerifyResult, error) {
	network := uc.config.Network
	if !network.SupportsVerification() {
		return nil, fmt.Errorf("source verification is not available on local network %s", network.Name)
	}
	if uc.config.EtherscanKey == "" {
		return nil, fmt.Errorf("%w: ETHERSCAN_API_KEY is required for verification", domain.ErrMissingCredential)
	}

	address, err := uc.resolveAddress(ctx, params.Address)
	if err != nil {
		return nil, err
	}

	args := params.Args
	if args == nil {
		args, err = uc.cachedArgs(ctx, network.Name, address)
		if err != nil {
			return nil, err
		}
	}

	delay := uc.config.VerifyDelay
	if params.Delay != nil {
		delay = *params.Delay
	}
	if delay > 0 {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "settling",
			Message: fmt.Sprintf("Waiting %s for the explorer to index %s", delay, address.Hex()),
			Spinner: true,
		})
		if err := uc.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "verifying", Message: "Submitting source", Spinner: true})
	outcome, err := uc.verifier.Verify(ctx, network, address, args)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "verified"})
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		Network: network,
		Address: address,
		Args:    args,
		Outcome: outcome,
	}, nil
}

func (uc *VerifySource) resolveAddress(ctx context.Context, value string) (common.Address, error) {
	if value != "" {
		return parseAddress("contract address", value)
	}
	record, err := recordedAddress(ctx, uc.store)
	if err != nil {
		return common.Address{}, err
	}
	if record.Network != uc.config.Network.Name {
		return common.Address{}, fmt.Errorf("deployment record is for network %s, not %s", record.Network, uc.config.Network.Name)
	}
	return record.ContractAddress, nil
}

// cachedArgs finds the constructor arguments used when address was deployed
func (uc *VerifySource) cachedArgs(ctx context.Context, network string, address common.Address) ([]string, error) {
	entries, err := uc.store.ListCachedDeployments(ctx, network)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to read deployment cache: %w", err)
	}
	for _, entry := range entries {
		if entry.Address == address {
			uc.log.Debug("using cached constructor args", "unit", entry.Unit, "args", entry.Args)
			return entry.Args, nil
		}
	}
	uc.log.Debug("no cache entry for address, verifying without constructor args", "address", address.Hex())
	return []string{}, nil
}
