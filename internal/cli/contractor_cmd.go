package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newContractorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contractor",
		Short: "Manage the main-contractor list",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List known main contractors",
			RunE: func(cmd *cobra.Command, args []string) error {
				names, err := app.Contractors.Load()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a main contractor",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.Contractors.Add(args[0])
			},
		},
	)
	return cmd
}
