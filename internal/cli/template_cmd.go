package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect the template source directory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify that every required template file is present",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Provisioner.CheckTemplates(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All template files are present.")
			return nil
		},
	})
	return cmd
}
