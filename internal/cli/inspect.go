package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/hmdeploy/internal/cli/render"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var (
		contract string
		getters  []string
	)

	cmd := &cobra.Command{
		Use:   "inspect [address]",
		Short: "Read the state of a deployed contract",
		Long: `Check that code exists at the address and call every read-only getter.

The address defaults to deployment-info.json. Getters default to [inspect]
getters in hmdeploy.toml, or every zero-argument view function of the ABI.
A failing getter is reported and the remaining getters still run.

Examples:
  hmdeploy inspect
  hmdeploy inspect 0x5FbDB2315678afecb367f032d93F642f64180aa3 --getter platformWallet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.InspectParams{
				Contract: contract,
				Getters:  getters,
			}
			if len(args) == 1 {
				params.Address = args[0]
			}

			result, err := app.InspectContract.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewInspectRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&contract, "contract", "", "Artifact name whose ABI to use (defaults to inspect.contract)")
	cmd.Flags().StringSliceVar(&getters, "getter", nil, "Getter to call (repeatable)")

	return cmd
}
