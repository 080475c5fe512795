package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Rhyoz/Project-Manager/internal/db"
	"github.com/Rhyoz/Project-Manager/internal/domain"
	"github.com/Rhyoz/Project-Manager/internal/naming"
	"github.com/Rhyoz/Project-Manager/internal/provision"
	"github.com/Rhyoz/Project-Manager/internal/reconcile"
	"github.com/Rhyoz/Project-Manager/internal/repository"
	"github.com/google/uuid"
)

// projectService orchestrates the database-then-filesystem intent handling.
// The database is the authoritative record: combined operations commit rows
// first and reconcile the folder tree after, so a filesystem failure leaves a
// repairable inconsistency surfaced as a domain.ReconcileWarning. The one
// exception is rename, where the folder move runs inside the transaction so a
// collision rolls the row update back and the two stores never diverge.
type projectService struct {
	projects repository.ProjectRepo
	units    repository.UnitRepo
	uow      db.UnitOfWork
	prov     *provision.Provisioner
	rec      *reconcile.Reconciler
	notifier *ChangeNotifier
	observer UseCaseObserver

	// mu serializes mutating operations; reads run without it.
	mu sync.Mutex
}

func NewProjectService(
	projects repository.ProjectRepo,
	units repository.UnitRepo,
	uow db.UnitOfWork,
	prov *provision.Provisioner,
	rec *reconcile.Reconciler,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects: projects,
		units:    units,
		uow:      uow,
		prov:     prov,
		rec:      rec,
		notifier: NewChangeNotifier(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe(ctx, "create-project", time.Now().UTC(), map[string]any{"name": p.Name, "number": p.Number}, &err)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	for i := range p.Units {
		if p.Units[i].ID == "" {
			p.Units[i].ID = uuid.New().String()
		}
		p.Units[i].ProjectID = p.ID
		p.Units[i].Position = i
	}

	if err = p.Validate(); err != nil {
		return "", err
	}
	if err = s.checkFolderNameFree(ctx, p, ""); err != nil {
		return "", err
	}
	// Provisioning preconditions are checked before the row is written so a
	// missing template leaves no record behind.
	if err = s.prov.CheckTemplates(); err != nil {
		return "", err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txUnits := repository.NewSQLiteUnitRepo(tx)
		if err := txProjects.Create(ctx, p); err != nil {
			return err
		}
		for i := range p.Units {
			if err := txUnits.Create(ctx, &p.Units[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	s.notifier.Notify()

	if provErr := s.prov.Project(p); provErr != nil {
		err = &domain.ReconcileWarning{Err: provErr}
		return p.ID, err
	}
	return p.ID, nil
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe(ctx, "update-project", time.Now().UTC(), map[string]any{"id": p.ID}, &err)

	existing, err := s.projects.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	existing.Units, err = s.units.ListByProject(ctx, p.ID)
	if err != nil {
		return err
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	added, removed, kept := diffUnits(existing.Units, p.Units)
	for i := range p.Units {
		p.Units[i].ProjectID = p.ID
		p.Units[i].Position = i
		if cur, ok := kept[p.Units[i].Name]; ok {
			p.Units[i].ID = cur.ID
			p.Units[i].IsDone = cur.IsDone
		} else if p.Units[i].ID == "" {
			p.Units[i].ID = uuid.New().String()
		}
	}

	if err = p.Validate(); err != nil {
		return err
	}

	oldName := naming.FolderName(existing)
	newName := naming.FolderName(p)
	if newName != oldName {
		if err = s.checkFolderNameFree(ctx, p, existing.ID); err != nil {
			return err
		}
	}
	modeFlipped := existing.IsResidentialComplex != p.IsResidentialComplex
	if len(added) > 0 || modeFlipped {
		if err = s.prov.CheckTemplates(); err != nil {
			return err
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txUnits := repository.NewSQLiteUnitRepo(tx)

		if err := txProjects.Update(ctx, p); err != nil {
			return err
		}
		for _, name := range removed {
			if err := txUnits.DeleteByName(ctx, p.ID, name); err != nil {
				return err
			}
		}
		for i := range p.Units {
			u := &p.Units[i]
			if _, ok := kept[u.Name]; ok {
				if err := txUnits.SetPosition(ctx, u.ID, u.Position); err != nil {
					return err
				}
			} else {
				if err := txUnits.Create(ctx, u); err != nil {
					return err
				}
			}
		}
		// Folder move is the last step before commit: if it fails the row
		// updates roll back and the filesystem is untouched.
		return s.rec.Rename(oldName, newName)
	})
	if err != nil {
		return err
	}
	s.notifier.Notify()

	// Filesystem reconciliation after commit: clear leftovers of a layout
	// switch, fill in whatever the new shape is missing, then drop folders of
	// removed units. Best-effort; the committed rows stay authoritative.
	var fsErrs []error
	if modeFlipped {
		stale := []string{provision.MasterDir}
		if p.IsResidentialComplex {
			// The folder held root-level documents before the switch.
			stale = append([]string{provision.FloorPlanDir}, s.prov.RequiredDocs()...)
		}
		if rmErr := s.rec.RemoveEntries(newName, stale...); rmErr != nil {
			fsErrs = append(fsErrs, rmErr)
		}
	}
	// A pure field change with an intact tree needs no provisioning pass.
	if len(added) > 0 || modeFlipped || !s.rec.Exists(newName) {
		if provErr := s.prov.Project(p); provErr != nil {
			fsErrs = append(fsErrs, provErr)
		}
	}
	for _, name := range removed {
		if rmErr := s.rec.RemoveUnit(newName, name); rmErr != nil {
			fsErrs = append(fsErrs, rmErr)
		}
	}
	if len(fsErrs) > 0 {
		err = &domain.ReconcileWarning{Err: errors.Join(fsErrs...)}
		return err
	}
	return nil
}

// Delete removes the project, its units (cascade) and its folder subtree.
// Deleting an unknown id is an idempotent no-op.
func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe(ctx, "delete-project", time.Now().UTC(), map[string]any{"id": id}, &err)

	existing, getErr := s.projects.GetByID(ctx, id)
	if getErr != nil {
		var nf *domain.NotFoundError
		if errors.As(getErr, &nf) {
			return nil
		}
		err = getErr
		return err
	}
	folderName := naming.FolderName(existing)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notifier.Notify()

	if rmErr := s.rec.RemoveProject(folderName); rmErr != nil {
		err = &domain.ReconcileWarning{Err: rmErr}
		return err
	}
	return nil
}

func (s *projectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Units, err = s.units.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error) {
	projects, err := s.projects.List(ctx, status)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.IsResidentialComplex {
			p.Units, err = s.units.ListByProject(ctx, p.ID)
			if err != nil {
				return nil, err
			}
		}
	}
	return projects, nil
}

func (s *projectService) ToggleUnit(ctx context.Context, projectID, unitID string, done bool) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe(ctx, "toggle-unit", time.Now().UTC(), map[string]any{"project": projectID, "unit": unitID, "done": done}, &err)

	if err = s.units.SetDone(ctx, projectID, unitID, done); err != nil {
		return err
	}
	s.notifier.Notify()
	return nil
}

// ChangeStatus moves a project through its lifecycle. Finished stamps the end
// date with today; any other status clears it. Status is not a naming input,
// so no folder reconciliation happens here.
func (s *projectService) ChangeStatus(ctx context.Context, id string, status domain.ProjectStatus) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe(ctx, "change-status", time.Now().UTC(), map[string]any{"id": id, "status": string(status)}, &err)

	if !domain.ValidStatuses[status] {
		err = &domain.ValidationError{Field: "status", Reason: "unknown status " + string(status)}
		return err
	}
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Status = status
	if status.Terminal() {
		today, _ := time.Parse(domain.DateLayout, time.Now().UTC().Format(domain.DateLayout))
		if today.Before(p.StartDate) {
			today = p.StartDate
		}
		p.EndDate = &today
	} else {
		p.EndDate = nil
	}
	p.UpdatedAt = time.Now().UTC()

	if err = s.projects.Update(ctx, p); err != nil {
		return err
	}
	s.notifier.Notify()
	return nil
}

func (s *projectService) CompletedCount(ctx context.Context, id string) (done, total int, err error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	done, total = p.CompletedCount()
	return done, total, nil
}

func (s *projectService) Reprovision(ctx context.Context, id string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe(ctx, "reprovision", time.Now().UTC(), map[string]any{"id": id}, &err)

	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.prov.Project(p)
	return err
}

func (s *projectService) ImportFloorPlan(ctx context.Context, id, unitName, srcPath string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe(ctx, "import-floor-plan", time.Now().UTC(), map[string]any{"id": id, "unit": unitName}, &err)

	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.rec.ImportFloorPlan(p, unitName, srcPath)
	return err
}

func (s *projectService) ImportMasterFloorPlan(ctx context.Context, id, srcPath string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observe(ctx, "import-master-floor-plan", time.Now().UTC(), map[string]any{"id": id}, &err)

	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.rec.ImportMasterFloorPlan(p, srcPath)
	return err
}

func (s *projectService) PreviewFolderName(p *domain.Project) string {
	return naming.FolderName(p)
}

func (s *projectService) Subscribe(fn func()) (cancel func()) {
	return s.notifier.Subscribe(fn)
}

// checkFolderNameFree enforces derived-name uniqueness among stored projects
// and against the disk. Collisions are rejected, never suffixed, so the name
// stays a pure function of the project's fields.
func (s *projectService) checkFolderNameFree(ctx context.Context, p *domain.Project, selfID string) error {
	name := naming.FolderName(p)
	others, err := s.projects.List(ctx, nil)
	if err != nil {
		return err
	}
	for _, other := range others {
		if other.ID == selfID || other.ID == p.ID {
			continue
		}
		if naming.FolderName(other) == name {
			return &domain.PathCollisionError{Path: name}
		}
	}
	if s.rec.Exists(name) {
		return &domain.PathCollisionError{Path: name}
	}
	return nil
}

func (s *projectService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}

// diffUnits compares the stored unit set with the requested one by name.
func diffUnits(current, next []domain.Unit) (added, removed []string, kept map[string]domain.Unit) {
	kept = make(map[string]domain.Unit)
	currentByName := make(map[string]domain.Unit, len(current))
	for _, u := range current {
		currentByName[u.Name] = u
	}
	nextNames := make(map[string]bool, len(next))
	for _, u := range next {
		nextNames[u.Name] = true
		if cu, ok := currentByName[u.Name]; ok {
			kept[u.Name] = cu
		} else {
			added = append(added, u.Name)
		}
	}
	for _, u := range current {
		if !nextNames[u.Name] {
			removed = append(removed, u.Name)
		}
	}
	return added, removed, kept
}
