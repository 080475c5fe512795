package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUnitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Manage residential-complex units",
	}
	cmd.AddCommand(newUnitToggleCmd(app))
	return cmd
}

func newUnitToggleCmd(app *App) *cobra.Command {
	var undone bool
	cmd := &cobra.Command{
		Use:   "toggle <project-id> <unit-id>",
		Short: "Mark a unit done (or undone with --undone)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.ToggleUnit(cmd.Context(), args[0], args[1], !undone); err != nil {
				return err
			}
			done, total, err := app.Projects.CompletedCount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed units: %d/%d\n", done, total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undone, "undone", false, "mark the unit as not done")
	return cmd
}
