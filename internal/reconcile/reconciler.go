// Package reconcile keeps the derived folder tree in step with the stored
// project state after renames, unit-set changes and deletions. Every
// operation is safe to re-run: a missing source is treated as already
// reconciled, never as an error.
package reconcile

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Rhyoz/Project-Manager/internal/domain"
	"github.com/Rhyoz/Project-Manager/internal/naming"
	"github.com/Rhyoz/Project-Manager/internal/provision"
)

const (
	// FloorPlanFile is the fixed name of an imported unit/project floor plan.
	FloorPlanFile = "FloorPlan.pdf"
	// MasterFloorPlanFile is the fixed name of the project-level floor plan.
	MasterFloorPlanFile = "MasterFloorPlan.pdf"
)

// Reconciler moves and removes project subtrees under the projects directory.
type Reconciler struct {
	projectsDir string
	logger      *slog.Logger
}

func New(projectsDir string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reconciler{projectsDir: projectsDir, logger: logger}
}

// Rename relocates a project folder from the old derived name to the new one.
// An occupied destination is a PathCollisionError; directory contents are
// never merged. A missing source is a no-op, since provisioning can recreate
// the tree at the new name.
func (r *Reconciler) Rename(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	oldPath := filepath.Join(r.projectsDir, oldName)
	newPath := filepath.Join(r.projectsDir, newName)

	if _, err := os.Stat(newPath); err == nil {
		return &domain.PathCollisionError{Path: newPath}
	}
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		r.logger.Warn("rename source missing, nothing to move", "path", oldPath)
		return nil
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return &domain.FilesystemError{Op: "rename", Path: oldPath, Err: err}
	}
	r.logger.Info("moved project folder", "from", oldPath, "to", newPath)
	return nil
}

// Exists reports whether a folder with the given derived name is present.
func (r *Reconciler) Exists(folderName string) bool {
	_, err := os.Stat(filepath.Join(r.projectsDir, folderName))
	return err == nil
}

// RemoveProject deletes a project's entire folder subtree. Idempotent.
func (r *Reconciler) RemoveProject(folderName string) error {
	path := filepath.Join(r.projectsDir, folderName)
	if err := os.RemoveAll(path); err != nil {
		return &domain.FilesystemError{Op: "remove", Path: path, Err: err}
	}
	r.logger.Info("removed project folder", "path", path)
	return nil
}

// RemoveUnit deletes a single unit subfolder. Idempotent.
func (r *Reconciler) RemoveUnit(folderName, unitName string) error {
	path := filepath.Join(r.projectsDir, folderName, naming.UnitFolderName(unitName))
	if err := os.RemoveAll(path); err != nil {
		return &domain.FilesystemError{Op: "remove", Path: path, Err: err}
	}
	r.logger.Info("removed unit folder", "path", path)
	return nil
}

// RemoveEntries deletes the named files or subfolders directly under a
// project folder. Used to clear leftovers when a project switches between
// residential and non-residential layouts. Idempotent.
func (r *Reconciler) RemoveEntries(folderName string, names ...string) error {
	for _, name := range names {
		path := filepath.Join(r.projectsDir, folderName, name)
		if err := os.RemoveAll(path); err != nil {
			return &domain.FilesystemError{Op: "remove", Path: path, Err: err}
		}
		r.logger.Info("removed stale entry", "path", path)
	}
	return nil
}

// ImportFloorPlan copies a caller-supplied PDF into the floor-plan folder of
// a unit, or of the project itself for a non-residential project. The target
// folder is created if reconciliation is pending.
func (r *Reconciler) ImportFloorPlan(p *domain.Project, unitName, srcPath string) error {
	if p.IsResidentialComplex && unitName == "" {
		return &domain.ValidationError{Field: "unit", Reason: "a residential complex needs a unit for floor-plan import"}
	}
	dir := filepath.Join(r.projectsDir, naming.FolderName(p))
	if unitName != "" {
		dir = filepath.Join(dir, naming.UnitFolderName(unitName))
	}
	return r.importInto(filepath.Join(dir, provision.FloorPlanDir), FloorPlanFile, srcPath)
}

// ImportMasterFloorPlan copies a PDF into the residential project's Master folder.
func (r *Reconciler) ImportMasterFloorPlan(p *domain.Project, srcPath string) error {
	if !p.IsResidentialComplex {
		return &domain.ValidationError{Field: "project", Reason: "only a residential complex has a master floor plan"}
	}
	dir := filepath.Join(r.projectsDir, naming.FolderName(p), provision.MasterDir)
	return r.importInto(dir, MasterFloorPlanFile, srcPath)
}

func (r *Reconciler) importInto(dir, name, srcPath string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &domain.FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}
	dst := filepath.Join(dir, name)
	if err := copyFile(srcPath, dst); err != nil {
		return err
	}
	r.logger.Info("imported floor plan", "path", dst)
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
