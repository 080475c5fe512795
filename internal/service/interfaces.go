package service

import (
	"context"

	"github.com/Rhyoz/Project-Manager/internal/domain"
)

// ProjectService is the intent boundary of the core: the presentation layer
// resolves user interaction into these calls and renders the results.
// Mutating operations are serialized; reads observe committed state only.
type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) (string, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error)
	ToggleUnit(ctx context.Context, projectID, unitID string, done bool) error
	ChangeStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	CompletedCount(ctx context.Context, id string) (done, total int, err error)

	// Reprovision re-runs folder provisioning for repair after a
	// ReconcileWarning. Safe to repeat; never overwrites documents.
	Reprovision(ctx context.Context, id string) error

	ImportFloorPlan(ctx context.Context, id, unitName, srcPath string) error
	ImportMasterFloorPlan(ctx context.Context, id, srcPath string) error

	// PreviewFolderName derives the folder name the project would get, for
	// display before saving. Pure; touches neither database nor disk.
	PreviewFolderName(p *domain.Project) string

	// Subscribe registers a change observer; the callback fires after every
	// successful mutating operation. Returns a cancel function.
	Subscribe(fn func()) (cancel func())
}
