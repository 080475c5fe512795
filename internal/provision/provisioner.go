// Package provision stages project and unit folders with copies of the
// required document templates. All operations are idempotent: folders are
// created only when absent and an existing document is never overwritten, so
// re-running provisioning repairs a stale tree without destroying user edits.
package provision

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Rhyoz/Project-Manager/internal/domain"
	"github.com/Rhyoz/Project-Manager/internal/naming"
)

const (
	// FloorPlanDir holds imported floor-plan PDFs inside a project or unit folder.
	FloorPlanDir = "Floor plan"
	// MasterDir holds the project-level floor plan of a residential complex.
	MasterDir = "Master"
)

// Provisioner copies required templates into derived project folders.
type Provisioner struct {
	templateDir string
	projectsDir string
	required    []string
	logger      *slog.Logger
}

// New creates a Provisioner. templateDir is read-only; projectsDir is the
// root under which project folders are derived.
func New(templateDir, projectsDir string, required []string, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provisioner{
		templateDir: templateDir,
		projectsDir: projectsDir,
		required:    required,
		logger:      logger,
	}
}

// CheckTemplates verifies that every required template file exists in the
// template directory. It is called before any filesystem mutation; a failure
// means nothing was created.
func (p *Provisioner) CheckTemplates() error {
	var missing []string
	for _, name := range p.required {
		if _, err := os.Stat(filepath.Join(p.templateDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &domain.TemplateMissingError{Dir: p.templateDir, Missing: missing}
	}
	return nil
}

// RequiredDocs returns the configured required document names.
func (p *Provisioner) RequiredDocs() []string {
	return p.required
}

// ProjectPath returns the on-disk path derived from the project's current fields.
func (p *Provisioner) ProjectPath(proj *domain.Project) string {
	return filepath.Join(p.projectsDir, naming.FolderName(proj))
}

// Project provisions the full folder tree for a project. A non-residential
// project gets the required documents plus a "Floor plan" subfolder directly
// under its folder; a residential complex gets one subfolder per unit (each
// with documents and its own "Floor plan") plus a project-level "Master"
// subfolder.
func (p *Provisioner) Project(proj *domain.Project) error {
	if err := p.CheckTemplates(); err != nil {
		return err
	}

	root := p.ProjectPath(proj)
	if err := mkdir(root); err != nil {
		return err
	}
	p.logger.Info("provisioned project folder", "path", root)

	if !proj.IsResidentialComplex {
		if err := mkdir(filepath.Join(root, FloorPlanDir)); err != nil {
			return err
		}
		return p.copyTemplates(root)
	}

	if err := mkdir(filepath.Join(root, MasterDir)); err != nil {
		return err
	}
	for _, u := range proj.Units {
		if err := p.unitTree(root, u.Name); err != nil {
			return err
		}
	}
	return nil
}

// Unit provisions a single unit subtree under an already existing project
// folder. Used when an update grows the unit set.
func (p *Provisioner) Unit(proj *domain.Project, unitName string) error {
	if err := p.CheckTemplates(); err != nil {
		return err
	}
	return p.unitTree(p.ProjectPath(proj), unitName)
}

func (p *Provisioner) unitTree(projectRoot, unitName string) error {
	unitDir := filepath.Join(projectRoot, naming.UnitFolderName(unitName))
	if err := mkdir(unitDir); err != nil {
		return err
	}
	if err := mkdir(filepath.Join(unitDir, FloorPlanDir)); err != nil {
		return err
	}
	return p.copyTemplates(unitDir)
}

func (p *Provisioner) copyTemplates(dstDir string) error {
	for _, name := range p.required {
		src := filepath.Join(p.templateDir, name)
		dst := filepath.Join(dstDir, name)
		if _, err := os.Stat(dst); err == nil {
			continue // never overwrite an instantiated document
		}
		if err := copyFile(src, dst); err != nil {
			return err
		}
		p.logger.Info("instantiated document", "path", dst)
	}
	return nil
}

func mkdir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return &domain.FilesystemError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &domain.FilesystemError{Op: "copy", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return &domain.FilesystemError{Op: "copy", Path: dst, Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return &domain.FilesystemError{Op: "copy", Path: dst, Err: err}
	}
	if err := out.Sync(); err != nil {
		return &domain.FilesystemError{Op: "copy", Path: dst, Err: err}
	}
	return nil
}
