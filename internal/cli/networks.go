package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/hmdeploy/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List built-in and configured networks",
		Long: `List the built-in networks and those declared under [networks] in hmdeploy.toml,
with their chain IDs and providers. Networks whose RPC URL cannot be resolved
(for instance a missing ALCHEMY_API_KEY) show the reason instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
