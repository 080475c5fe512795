package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFloorPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "floorplan",
		Short: "Import floor-plan PDFs into project folders",
	}
	cmd.AddCommand(newFloorPlanImportCmd(app))
	return cmd
}

func newFloorPlanImportCmd(app *App) *cobra.Command {
	var unitName string
	var master bool
	cmd := &cobra.Command{
		Use:   "import <project-id> <pdf-path>",
		Short: "Copy a PDF into the project's or unit's floor-plan folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if master {
				err = app.Projects.ImportMasterFloorPlan(cmd.Context(), args[0], args[1])
			} else {
				err = app.Projects.ImportFloorPlan(cmd.Context(), args[0], unitName, args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Floor plan imported.")
			return nil
		},
	}
	cmd.Flags().StringVar(&unitName, "unit", "", "unit name (required for residential complexes)")
	cmd.Flags().BoolVar(&master, "master", false, "import as the project-level master floor plan")
	return cmd
}
