package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/hmdeploy/internal/cli/render"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		force         bool
		confirmations uint64
		skipVerify    bool
		verifyDelay   = new(durationFlag)
	)

	cmd := &cobra.Command{
		Use:   "deploy [unit...]",
		Short: "Deploy the contracts of the deployment plan",
		Long: `Deploy every unit of the deployment plan (deploy.yaml) in dependency order.

Units already recorded in the deployment cache of the selected network are
reused unless --force is given. Naming units restricts the run to them and
their dependencies. When the record unit is deployed, deployment-info.json is
rewritten. Units marked verify: true are verified on non-local networks when
ETHERSCAN_API_KEY is set.

Examples:
  hmdeploy deploy
  hmdeploy deploy --network sepolia
  hmdeploy deploy HealthDataMarketplace --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.DeployParams{
				Units:         args,
				Force:         force,
				Confirmations: confirmations,
				SkipVerify:    skipVerify,
				VerifyDelay:   verifyDelay.ptr(),
			}

			result, err := app.DeployContracts.Run(cmd.Context(), params)
			if errors.Is(err, usecase.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Deployment cancelled.")
				return nil
			}
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Redeploy units even when cached")
	cmd.Flags().Uint64Var(&confirmations, "confirmations", 0, "Blocks to wait after inclusion (defaults to deploy.confirmations)")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Skip source verification")
	cmd.Flags().Var(verifyDelay, "verify-delay", "Wait before verification (defaults to deploy.verify_delay)")

	return cmd
}
