package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/hmdeploy/internal/cli/render"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	delay := new(durationFlag)

	cmd := &cobra.Command{
		Use:   "verify [address] [constructor-arg...]",
		Short: "Verify contract source on the block explorer",
		Long: `Submit the contract source for verification with hardhat verify.

The address defaults to deployment-info.json. Without explicit constructor
arguments, the arguments recorded in the deployment cache for that address are
used. A contract that is already verified counts as success.

Examples:
  hmdeploy verify -n sepolia
  hmdeploy verify -n sepolia 0x... 0xLib 0xWallet --delay 0s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.VerifyParams{Delay: delay.ptr()}
			if len(args) > 0 {
				params.Address = args[0]
			}
			if len(args) > 1 {
				params.Args = append([]string{}, args[1:]...)
			}

			result, err := app.VerifySource.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewVerifyRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().Var(delay, "delay", "Wait before submitting (defaults to deploy.verify_delay)")

	return cmd
}
