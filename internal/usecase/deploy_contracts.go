package usecase

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
)

// DeployContracts runs the deployment plan against the configured network
type DeployContracts struct {
	config    *config.RuntimeConfig
	plans     PlanLoader
	artifacts ArtifactRepository
	store     DeploymentStore
	chain     ChainClient
	encoder   ArgEncoder
	verifier  SourceVerifier
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger

	now   func() time.Time
	sleep Sleeper
}

// NewDeployContracts creates a new deploy use case
func NewDeployContracts(
	cfg *config.RuntimeConfig,
	plans PlanLoader,
	artifacts ArtifactRepository,
	store DeploymentStore,
	chain ChainClient,
	encoder ArgEncoder,
	verifier SourceVerifier,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	return &DeployContracts{
		config:    cfg,
		plans:     plans,
		artifacts: artifacts,
		store:     store,
		chain:     chain,
		encoder:   encoder,
		verifier:  verifier,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "DeployContracts"),
		now:       time.Now,
		sleep:     ContextSleep,
	}
}

// WithClock replaces the time source and the sleeper
func (uc *DeployContracts) WithClock(now func() time.Time, sleep Sleeper) *DeployContracts {
	uc.now = now
	uc.sleep = sleep
	return uc
}

// DeployParams contains parameters for a deployment run
type DeployParams struct {
	// Units restricts the run to these units and their dependencies
	Units []string
	// Force redeploys units that already have a cache entry
	Force bool
	// Confirmations overrides the configured confirmation count
	Confirmations uint64
	// SkipVerify disables post-deploy source verification
	SkipVerify bool
	// VerifyDelay overrides the configured settling delay when non-nil
	VerifyDelay *time.Duration
}

// DeployResult contains the outcome of a deployment run
type DeployResult struct {
	Network   *domain.Network
	Deployer  common.Address
	Units     []*UnitResult
	Record    *domain.DeploymentRecord
	ReportGas bool
}

// UnitResult is the outcome for a single unit
type UnitResult struct {
	Name     string
	Contract string
	Address  common.Address
	Args     []string

	// Skipped is set when a cache entry was reused
	Skipped bool
	// Stale is set when a reused entry was built from different bytecode
	Stale bool

	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	GasPrice    *big.Int
	Cost        *big.Int

	Verification *UnitVerification
}

// UnitVerification is the source verification outcome for a unit
type UnitVerification struct {
	Outcome    *VerifyOutcome
	SkipReason string
	Err        error
}

// Deployed returns the units deployed in this run
func (r *DeployResult) Deployed() []*UnitResult {
	return lo.Filter(r.Units, func(u *UnitResult, _ int) bool { return !u.Skipped })
}

// TotalCost sums the cost of every deployed unit
func (r *DeployResult) TotalCost() *big.Int {
	total := new(big.Int)
	for _, u := range r.Deployed() {
		if u.Cost != nil {
			total.Add(total, u.Cost)
		}
	}
	return total
}

// Run executes the deployment plan
func (uc *DeployContracts) Run(ctx context.Context, params DeployParams) (*DeployResult, error) {
	plan, err := uc.plans.LoadPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployment plan: %w", err)
	}

	steps, err := plan.Select(params.Units)
	if err != nil {
		return nil, err
	}

	network, err := uc.config.ChainNetwork()
	if err != nil {
		return nil, err
	}

	key, err := uc.config.Accounts.Deployer()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deployer: %w", err)
	}
	deployer := crypto.PubkeyToAddress(key.PublicKey)
	warnDefaultMnemonic(uc.log, uc.config, network)

	uc.log.Debug("deploying plan", "network", network.Name, "units", len(steps), "deployer", deployer.Hex(), "source", uc.config.Accounts.Source())

	if err := uc.chain.Connect(ctx, network); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer uc.chain.Close()

	if !network.Local && !uc.config.NonInteractive {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy %d unit(s) to %s (chain %d) from %s",
			len(steps), network.Name, network.ChainID, deployer.Hex()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	result := &DeployResult{
		Network:   network,
		Deployer:  deployer,
		ReportGas: uc.config.ReportGas,
	}
	confirmations := confirmationsOr(params.Confirmations, uc.config.Confirmations)

	for i, step := range steps {
		cached, err := uc.store.GetCachedDeployment(ctx, network.Name, step.Name)
		switch {
		case err == nil && !params.Force:
			result.Units = append(result.Units, uc.reuse(ctx, step, cached))
			continue
		case err != nil && !errors.Is(err, domain.ErrNotDeployed):
			return nil, fmt.Errorf("failed to read cache for %s: %w", step.Name, err)
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "deploying",
			Current: i + 1,
			Total:   len(steps),
			Message: fmt.Sprintf("Deploying %s (%s)", step.Name, step.Unit.Contract),
			Spinner: true,
		})

		unit, err := uc.deployUnit(ctx, network, step, key, deployer, confirmations)
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: "failed"})
			return nil, fmt.Errorf("failed to deploy %s: %w", step.Name, err)
		}
		result.Units = append(result.Units, unit)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "completed",
		Message: fmt.Sprintf("%d deployed, %d cached", len(result.Deployed()), len(result.Units)-len(result.Deployed())),
	})

	if recordUnit := recordUnitName(plan); recordUnit != "" {
		if unit, ok := lo.Find(result.Deployed(), func(u *UnitResult) bool { return u.Name == recordUnit }); ok {
			record := &domain.DeploymentRecord{
				Network:         network.Name,
				ContractAddress: unit.Address,
				Deployer:        deployer,
				DeploymentTime:  uc.now().UTC(),
				ChainID:         network.ChainID,
			}
			if err := uc.store.SaveDeploymentRecord(ctx, record); err != nil {
				return nil, fmt.Errorf("failed to write deployment record: %w", err)
			}
			result.Record = record
		}
	}

	if err := uc.verifyDeployed(ctx, network, plan, result, params); err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *DeployContracts) reuse(ctx context.Context, step domain.PlanStep, cached *domain.CachedDeployment) *UnitResult {
	unit := &UnitResult{
		Name:        step.Name,
		Contract:    cached.ContractName,
		Address:     cached.Address,
		Args:        cached.Args,
		Skipped:     true,
		TxHash:      cached.TransactionHash,
		BlockNumber: cached.BlockNumber,
		GasUsed:     cached.GasUsed,
	}

	artifact, err := uc.artifacts.GetArtifact(ctx, step.Unit.Contract)
	if err != nil {
		uc.log.Debug("cannot compare cached bytecode", "unit", step.Name, "error", err)
	} else if hash := artifact.Bytecode.Hash(); hash != cached.BytecodeHash {
		unit.Stale = true
		uc.log.Warn("cached deployment was built from different bytecode", "unit", step.Name, "address", cached.Address.Hex())
		uc.progress.Info(fmt.Sprintf("%s: bytecode changed since the cached deployment, use --force to redeploy", step.Name))
	}

	uc.progress.Info(fmt.Sprintf("%s already deployed at %s", step.Name, cached.Address.Hex()))
	return unit
}

func (uc *DeployContracts) deployUnit(
	ctx context.Context,
	network *domain.Network,
	step domain.PlanStep,
	key *ecdsa.PrivateKey,
	deployer common.Address,
	confirmations uint64,
) (*UnitResult, error) {
	artifact, parsed, err := loadArtifactABI(ctx, uc.artifacts, step.Unit.Contract)
	if err != nil {
		return nil, err
	}
	contract, err := parsed.Contract()
	if err != nil {
		return nil, err
	}
	bytecode, err := artifact.Bytecode.Bytes()
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in %s: %w", artifact.Path, err)
	}
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("artifact %s has no bytecode (abstract contract or interface?)", artifact.FullyQualifiedName())
	}

	raw, err := uc.resolveArgs(ctx, network, step, deployer)
	if err != nil {
		return nil, err
	}
	args, err := uc.encoder.EncodeArgs(contract.Constructor.Inputs, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid constructor arguments: %w", err)
	}

	uc.log.Debug("submitting deployment", "unit", step.Name, "contract", artifact.FullyQualifiedName(), "args", raw)
	tx, err := uc.chain.Deploy(ctx, DeployRequest{
		Key:           key,
		ABI:           contract,
		Bytecode:      bytecode,
		Args:          args,
		Confirmations: confirmations,
	})
	if err != nil {
		return nil, err
	}

	entry := &domain.CachedDeployment{
		Unit:            step.Name,
		ContractName:    artifact.ContractName,
		Address:         tx.ContractAddress,
		TransactionHash: tx.TxHash,
		BlockNumber:     tx.BlockNumber,
		GasUsed:         tx.GasUsed,
		Args:            raw,
		BytecodeHash:    artifact.Bytecode.Hash(),
		ABI:             parsed.Canonical(),
		Deployer:        deployer,
		ChainID:         network.ChainID,
		DeployedAt:      uc.now().UTC(),
	}
	if err := uc.store.SaveCachedDeployment(ctx, network.Name, entry); err != nil {
		return nil, fmt.Errorf("deployed at %s but failed to write cache: %w", tx.ContractAddress.Hex(), err)
	}

	uc.log.Info("deployed", "unit", step.Name, "address", tx.ContractAddress.Hex(), "tx", tx.TxHash.Hex(), "block", tx.BlockNumber)

	return &UnitResult{
		Name:        step.Name,
		Contract:    artifact.ContractName,
		Address:     tx.ContractAddress,
		Args:        raw,
		TxHash:      tx.TxHash,
		BlockNumber: tx.BlockNumber,
		GasUsed:     tx.GasUsed,
		GasPrice:    tx.EffectiveGasPrice,
		Cost:        tx.Cost(),
	}, nil
}

// resolveArgs turns plan arguments into strings ready for type conversion
func (uc *DeployContracts) resolveArgs(ctx context.Context, network *domain.Network, step domain.PlanStep, deployer common.Address) ([]string, error) {
	raw := make([]string, 0, len(step.Unit.Args))
	for i, arg := range step.Unit.Args {
		switch {
		case arg.Value != nil:
			raw = append(raw, *arg.Value)
		case arg.Deployer:
			raw = append(raw, deployer.Hex())
		case arg.PlatformWallet:
			if uc.config.PlatformWallet != "" {
				wallet, err := parseAddress("PLATFORM_WALLET", uc.config.PlatformWallet)
				if err != nil {
					return nil, err
				}
				raw = append(raw, wallet.Hex())
			} else {
				raw = append(raw, deployer.Hex())
			}
		case arg.Ref != "":
			dep, err := uc.store.GetCachedDeployment(ctx, network.Name, arg.Ref)
			switch {
			case err == nil:
				raw = append(raw, dep.Address.Hex())
			case errors.Is(err, domain.ErrNotDeployed) && arg.Optional:
				uc.log.Warn("optional reference not deployed, using zero address", "unit", step.Name, "ref", arg.Ref)
				raw = append(raw, common.Address{}.Hex())
			case errors.Is(err, domain.ErrNotDeployed):
				return nil, fmt.Errorf("arg %d references %s which is not deployed on %s: %w", i, arg.Ref, network.Name, err)
			default:
				return nil, fmt.Errorf("failed to resolve arg %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("%w: arg %d of %s has no source", domain.ErrInvalidPlan, i, step.Name)
		}
	}
	return raw, nil
}

func (uc *DeployContracts) verifyDeployed(ctx context.Context, network *domain.Network, plan *domain.DeploymentPlan, result *DeployResult, params DeployParams) error {
	var targets []*UnitResult
	for _, unit := range result.Deployed() {
		if u := plan.Units[unit.Name]; u != nil && u.Verify {
			targets = append(targets, unit)
		}
	}
	if len(targets) == 0 || !network.SupportsVerification() {
		return nil
	}

	skip := func(reason string) {
		for _, unit := range targets {
			unit.Verification = &UnitVerification{SkipReason: reason}
		}
	}
	switch {
	case params.SkipVerify:
		skip("skipped by flag")
		return nil
	case uc.config.EtherscanKey == "":
		skip("ETHERSCAN_API_KEY not set")
		return nil
	}

	delay := uc.config.VerifyDelay
	if params.VerifyDelay != nil {
		delay = *params.VerifyDelay
	}
	if delay > 0 {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "settling",
			Message: fmt.Sprintf("Waiting %s for the explorer to index the deployment", delay),
			Spinner: true,
		})
		if err := uc.sleep(ctx, delay); err != nil {
			return err
		}
	}

	for i, unit := range targets {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "verifying",
			Current: i + 1,
			Total:   len(targets),
			Message: fmt.Sprintf("Verifying %s", unit.Name),
			Spinner: true,
		})
		outcome, err := uc.verifier.Verify(ctx, network, unit.Address, unit.Args)
		if err != nil {
			uc.log.Warn("source verification failed", "unit", unit.Name, "error", err)
		}
		unit.Verification = &UnitVerification{Outcome: outcome, Err: err}
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "verified"})

	return nil
}

// recordUnitName returns the unit that produces deployment-info.json.
// A plan without a record entry records its last unit in order.
func recordUnitName(plan *domain.DeploymentPlan) string {
	if plan.Record != "" {
		return plan.Record
	}
	steps, err := plan.Order()
	if err != nil || len(steps) == 0 {
		return ""
	}
	return steps[len(steps)-1].Name
}
