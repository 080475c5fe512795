package repository

import (
	"context"

	"github.com/Rhyoz/Project-Manager/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type UnitRepo interface {
	Create(ctx context.Context, u *domain.Unit) error
	GetByID(ctx context.Context, projectID, unitID string) (*domain.Unit, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Unit, error)
	SetDone(ctx context.Context, projectID, unitID string, done bool) error
	SetPosition(ctx context.Context, unitID string, position int) error
	DeleteByName(ctx context.Context, projectID, name string) error
}
