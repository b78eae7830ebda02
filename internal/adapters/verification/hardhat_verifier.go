package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/hmdeploy/internal/config"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// ErrNoVerifyCommand is returned when the project defines no verify command
var ErrNoVerifyCommand = errors.New("no verify command configured")

// Runner executes a command in dir and returns its combined output
type Runner func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)

// HardhatVerifier verifies contract sources by shelling out to the project's
// verify command (npx hardhat verify by default)
type HardhatVerifier struct {
	projectRoot  string
	command      []string
	etherscanKey string
	run          Runner
	log          *slog.Logger
}

// NewHardhatVerifier creates a new verifier
func NewHardhatVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *HardhatVerifier {
	var command []string
	if cfg.Project != nil {
		command = cfg.Project.Deploy.VerifyCommand
	}
	return &HardhatVerifier{
		projectRoot:  cfg.ProjectRoot,
		command:      command,
		etherscanKey: cfg.EtherscanKey,
		run:          execRunner,
		log:          log.With("component", "HardhatVerifier"),
	}
}

// WithRunner replaces the command runner
func (v *HardhatVerifier) WithRunner(run Runner) *HardhatVerifier {
	v.run = run
	return v
}

// Verify submits the source of address on network with the given constructor arguments
func (v *HardhatVerifier) Verify(ctx context.Context, network *domain.Network, address common.Address, args []string) (*usecase.VerifyOutcome, error) {
	if len(v.command) == 0 {
		return nil, ErrNoVerifyCommand
	}

	cmdArgs := append([]string{}, v.command[1:]...)
	cmdArgs = append(cmdArgs, "--network", network.Name, address.Hex())
	cmdArgs = append(cmdArgs, args...)

	env := os.Environ()
	if v.etherscanKey != "" {
		env = append(env, "ETHERSCAN_API_KEY="+v.etherscanKey)
	}

	v.log.Debug("running verify command", "command", v.command[0], "args", cmdArgs)
	output, err := v.run(ctx, v.projectRoot, env, v.command[0], cmdArgs...)
	outputStr := strings.TrimSpace(string(output))

	outcome := &usecase.VerifyOutcome{
		AlreadyVerified: isAlreadyVerified(outputStr),
		URL:             explorerURL(network, address),
		Output:          outputStr,
	}

	if err != nil {
		if outcome.AlreadyVerified {
			return outcome, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("verification failed: %w: %s", err, outputStr)
	}
	return outcome, nil
}

func isAlreadyVerified(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "already verified")
}

func explorerURL(network *domain.Network, address common.Address) string {
	if network.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(network.ExplorerURL, "/"), address.Hex())
}

func execRunner(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = env
	return cmd.CombinedOutput()
}

// Ensure it implements the interface
var _ usecase.SourceVerifier = (*HardhatVerifier)(nil)
