package cli

import (
	"github.com/Rhyoz/Project-Manager/internal/contractors"
	"github.com/Rhyoz/Project-Manager/internal/provision"
	"github.com/Rhyoz/Project-Manager/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to the services used by CLI commands.
type App struct {
	Projects    service.ProjectService
	Contractors *contractors.Store
	Provisioner *provision.Provisioner

	// IsInteractive reports whether stdin is an interactive terminal;
	// destructive commands only prompt for confirmation when it is.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "pm" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "pm",
		Short:         "Inspection project tracker with template-provisioned document folders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newUnitCmd(app),
		newFloorPlanCmd(app),
		newContractorCmd(app),
		newTemplateCmd(app),
	)

	return root
}
