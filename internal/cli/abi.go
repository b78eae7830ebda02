package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/hmdeploy/internal/cli/render"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// NewABICmd creates the abi command group
func NewABICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abi",
		Short: "Keep the frontend ABI in sync with the compiled contract",
		Long: `Commands that compare, rewrite or generate the frontend contract configuration
(frontend.config_file in hmdeploy.toml) from the compiled artifact.`,
	}

	cmd.AddCommand(newABICheckCmd(), newABISyncCmd(), newABIGenerateCmd())
	return cmd
}

func newABICheckCmd() *cobra.Command {
	var params usecase.CheckABIParams

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report differences between the frontend ABI and the artifact",
		Long: `Compare the ABI embedded in the frontend config with the compiled artifact.

The report lists the exact-match status, the expected functions, events and
constants, every ABI difference, and whether the frontend contract address
matches deployment-info.json. Findings are reported, never treated as errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CheckABI.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewABICheckRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&params.Contract, "contract", "", "Artifact name (defaults to frontend.contract)")
	return cmd
}

func newABISyncCmd() *cobra.Command {
	var params usecase.SyncABIParams

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replace the frontend ABI with the artifact ABI",
		Long: `Rewrite the text between the ABI markers of the frontend config with the
compiled ABI. With --update-address the contract address constant is also set,
from --address or deployment-info.json. Running it twice changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if params.Address != "" {
				params.UpdateAddress = true
			}

			result, err := app.SyncABI.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewSyncABIRenderer(cmd.OutOrStdout()).Render(result, params.DryRun)
		},
	}

	cmd.Flags().StringVar(&params.Contract, "contract", "", "Artifact name (defaults to frontend.contract)")
	cmd.Flags().BoolVar(&params.UpdateAddress, "update-address", false, "Also update the contract address constant")
	cmd.Flags().StringVar(&params.Address, "address", "", "Address to write (implies --update-address)")
	cmd.Flags().BoolVar(&params.DryRun, "dry-run", false, "Report changes without writing")
	return cmd
}

func newABIGenerateCmd() *cobra.Command {
	var (
		params usecase.GenerateParams
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the frontend config from the artifact",
		Long: `Write a complete frontend contract configuration module containing the
contract address, network, chain ID and marker-delimited ABI. An existing file
is only replaced with --force. With --stdout the module is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params.DryRun = stdout
			result, err := app.GenerateFrontendConfig.Run(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to generate frontend config: %w", err)
			}

			return render.NewGenerateRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&params.Contract, "contract", "", "Artifact name (defaults to frontend.contract)")
	cmd.Flags().StringVar(&params.Address, "address", "", "Contract address (defaults to deployment-info.json)")
	cmd.Flags().BoolVar(&params.Force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the module instead of writing it")
	return cmd
}
