package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/hmdeploy/internal/app"
	"github.com/trebuchet-org/hmdeploy/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hmdeploy",
		Short: "Deployment and configuration tool for the health data marketplace",
		Long: `hmdeploy deploys the health data marketplace contracts in dependency order,
inspects and updates live deployments, verifies sources on the block explorer,
and keeps the frontend ABI and contract address in sync with the compiled artifacts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (localhost, sepolia, zama, ...)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the command after this duration (0 disables)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "deployment",
		Title: "Deployment Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "frontend",
		Title: "Frontend Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{NewDeployCmd(), NewInspectCmd(), NewUpdateLibraryCmd(), NewVerifyCmd()} {
		c.GroupID = "deployment"
		rootCmd.AddCommand(c)
	}

	abiCmd := NewABICmd()
	abiCmd.GroupID = "frontend"
	rootCmd.AddCommand(abiCmd)

	for _, c := range []*cobra.Command{NewNetworksCmd(), NewShowCmd()} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command and releases the command context on every exit path
func Execute(ctx context.Context) error {
	return executeRoot(ctx, NewRootCmd())
}

func executeRoot(ctx context.Context, rootCmd *cobra.Command) error {
	// PostRun does not fire when RunE fails
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

// skipsApp reports whether a command runs without project context
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return !cmd.Runnable()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
