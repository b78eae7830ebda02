package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/hmdeploy/internal/cli/render"
	"github.com/trebuchet-org/hmdeploy/internal/domain"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// NewUpdateLibraryCmd creates the update-library command
func NewUpdateLibraryCmd() *cobra.Command {
	var params usecase.UpdateLibraryParams

	cmd := &cobra.Command{
		Use:   "update-library",
		Short: "Point a deployed contract at a new library address",
		Long: `Send the library setter transaction and confirm the getter reflects the new value.

Defaults come from [update] in hmdeploy.toml; the contract defaults to
deployment-info.json.

Examples:
  hmdeploy update-library --library 0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0
  hmdeploy update-library -n sepolia --contract 0x... --library 0x... --confirmations 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.UpdateLibrary.Run(cmd.Context(), params)
			if errors.Is(err, usecase.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Update cancelled.")
				return nil
			}
			if rerr := render.NewUpdateLibraryRenderer(cmd.OutOrStdout()).Render(result); rerr != nil {
				return rerr
			}
			if errors.Is(err, domain.ErrValueMismatch) {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatError("Getter does not return the intended library address"))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&params.Contract, "contract", "", "Contract address (defaults to update.contract or deployment-info.json)")
	cmd.Flags().StringVar(&params.Library, "library", "", "New library address (defaults to update.library)")
	cmd.Flags().StringVar(&params.Setter, "setter", "", "Setter function name (defaults to update.setter)")
	cmd.Flags().StringVar(&params.Getter, "getter", "", "Getter function name (defaults to update.getter)")
	cmd.Flags().Uint64Var(&params.Confirmations, "confirmations", 0, "Blocks to wait after inclusion")

	return cmd
}
