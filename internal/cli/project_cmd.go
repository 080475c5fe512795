package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhyoz/Project-Manager/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage inspection projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectUpdateCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectStatusCmd(app),
		newProjectDeleteCmd(app),
		newProjectPreviewCmd(app),
		newProjectRepairCmd(app),
	)
	return cmd
}

type projectFlags struct {
	name       string
	number     string
	contractor string
	worker     string
	start      string
	status     string
	extra      string
	units      []string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "project name")
	cmd.Flags().StringVar(&f.number, "number", "", "project number")
	cmd.Flags().StringVar(&f.contractor, "contractor", "", "main contractor")
	cmd.Flags().StringVar(&f.worker, "worker", "Alex", "assigned worker (e.g. Alex, William)")
	cmd.Flags().StringVar(&f.start, "start", time.Now().UTC().Format(domain.DateLayout), "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.status, "status", string(domain.StatusActive), "project status")
	cmd.Flags().StringVar(&f.extra, "extra", "", "free-text notes")
	cmd.Flags().StringSliceVar(&f.units, "unit", nil, "unit name (repeatable; makes the project a residential complex)")
}

func (f *projectFlags) toProject() (*domain.Project, error) {
	start, err := time.Parse(domain.DateLayout, f.start)
	if err != nil {
		return nil, fmt.Errorf("invalid --start date %q: %w", f.start, err)
	}
	p := &domain.Project{
		Name:           strings.TrimSpace(f.name),
		Number:         strings.TrimSpace(f.number),
		MainContractor: strings.TrimSpace(f.contractor),
		StartDate:      start,
		Status:         domain.ProjectStatus(f.status),
		Worker:         f.worker,
		Extra:          f.extra,
	}
	if len(f.units) > 0 {
		p.IsResidentialComplex = true
		p.NumberOfUnits = len(f.units)
		for _, name := range f.units {
			p.Units = append(p.Units, domain.Unit{Name: strings.TrimSpace(name)})
		}
	}
	return p, nil
}

func newProjectAddCmd(app *App) *cobra.Command {
	var flags projectFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project and provision its document folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.toProject()
			if err != nil {
				return err
			}
			id, err := app.Projects.Create(cmd.Context(), p)
			var warn *domain.ReconcileWarning
			if errors.As(err, &warn) {
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (folder pending: %v)\n", id, warn)
				fmt.Fprintf(cmd.OutOrStdout(), "Run 'pm project repair %s' once the cause is fixed.\n", id)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s in folder %q\n", id, app.Projects.PreviewFolderName(p))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// apply copies only the fields whose flags were set on the command, so an
// untouched flag's default never clobbers a stored value.
func (f *projectFlags) apply(cmd *cobra.Command, p *domain.Project) error {
	set := cmd.Flags().Changed
	if set("name") {
		p.Name = strings.TrimSpace(f.name)
	}
	if set("number") {
		p.Number = strings.TrimSpace(f.number)
	}
	if set("contractor") {
		p.MainContractor = strings.TrimSpace(f.contractor)
	}
	if set("worker") {
		p.Worker = f.worker
	}
	if set("status") {
		p.Status = domain.ProjectStatus(f.status)
	}
	if set("extra") {
		p.Extra = f.extra
	}
	if set("start") {
		start, err := time.Parse(domain.DateLayout, f.start)
		if err != nil {
			return fmt.Errorf("invalid --start date %q: %w", f.start, err)
		}
		p.StartDate = start
	}
	if set("unit") {
		p.IsResidentialComplex = len(f.units) > 0
		p.NumberOfUnits = len(f.units)
		p.Units = nil
		for _, name := range f.units {
			p.Units = append(p.Units, domain.Unit{Name: strings.TrimSpace(name)})
		}
	}
	return nil
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var flags projectFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change project fields and move the folder to its new derived name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, p); err != nil {
				return err
			}
			err = app.Projects.Update(cmd.Context(), p)
			var warn *domain.ReconcileWarning
			if errors.As(err, &warn) {
				fmt.Fprintf(cmd.OutOrStdout(), "Project updated; folder reconciliation pending: %v\n", warn)
				fmt.Fprintf(cmd.OutOrStdout(), "Run 'pm project repair %s' once the cause is fixed.\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s in folder %q\n", args[0], app.Projects.PreviewFolderName(p))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var statusFilter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *domain.ProjectStatus
			if statusFilter != "" {
				s := domain.ProjectStatus(statusFilter)
				filter = &s
			}
			projects, err := app.Projects.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			for _, p := range projects {
				completed := "N/A"
				if p.IsResidentialComplex {
					done, total := p.CompletedCount()
					completed = fmt.Sprintf("%d/%d", done, total)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %-10s %-20s %s  %s\n",
					p.ID, p.Name, p.Number, p.Status, completed, p.Worker)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&statusFilter, "status", "", "only projects with this status")
	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project with its units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", p.Name)
			fmt.Fprintf(out, "Number:     %s\n", p.Number)
			fmt.Fprintf(out, "Contractor: %s\n", p.MainContractor)
			fmt.Fprintf(out, "Status:     %s\n", p.Status)
			fmt.Fprintf(out, "Worker:     %s\n", p.Worker)
			fmt.Fprintf(out, "Start:      %s\n", p.StartDate.Format(domain.DateLayout))
			if p.EndDate != nil {
				fmt.Fprintf(out, "End:        %s\n", p.EndDate.Format(domain.DateLayout))
			}
			fmt.Fprintf(out, "Folder:     %s\n", app.Projects.PreviewFolderName(p))
			if p.IsResidentialComplex {
				done, total := p.CompletedCount()
				fmt.Fprintf(out, "Units:      %d/%d completed\n", done, total)
				for _, u := range p.Units {
					mark := " "
					if u.IsDone {
						mark = "x"
					}
					fmt.Fprintf(out, "  [%s] %s  %s\n", mark, u.ID, u.Name)
				}
			}
			return nil
		},
	}
}

func newProjectStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a project to a new lifecycle status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Projects.ChangeStatus(cmd.Context(), args[0], domain.ProjectStatus(args[1]))
		},
	}
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project, its units and its folder subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && app.IsInteractive != nil && app.IsInteractive() {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete project %s and its folder? [y/N] ", args[0])
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			err := app.Projects.Delete(cmd.Context(), args[0])
			var warn *domain.ReconcileWarning
			if errors.As(err, &warn) {
				fmt.Fprintf(cmd.OutOrStdout(), "Project deleted; folder removal pending: %v\n", warn)
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newProjectPreviewCmd(app *App) *cobra.Command {
	var flags projectFlags
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the folder name a project would get, without saving",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.toProject()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Projects.PreviewFolderName(p))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newProjectRepairCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "repair <id>",
		Short: "Re-run folder provisioning after a reconciliation warning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.Reprovision(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Folder tree reconciled.")
			return nil
		},
	}
}
