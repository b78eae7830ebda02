package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/hmdeploy/internal/cli/render"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the deployment record and cached units",
		Long: `Show deployment-info.json and the per-unit deployment cache of the selected network.

Examples:
  hmdeploy show
  hmdeploy show -n sepolia`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowDeployment.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewShowRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
