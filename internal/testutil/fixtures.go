package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rhyoz/Project-Manager/internal/domain"
	"github.com/google/uuid"
)

// RequiredDocs is the default required-template list used across tests.
var RequiredDocs = []string{"Innregulering.docx", "Sjekkliste.docx"}

// Project options
type ProjectOption func(*domain.Project)

func WithNumber(number string) ProjectOption {
	return func(p *domain.Project) {
		p.Number = number
	}
}

func WithContractor(name string) ProjectOption {
	return func(p *domain.Project) {
		p.MainContractor = name
	}
}

func WithStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithWorker(name string) ProjectOption {
	return func(p *domain.Project) {
		p.Worker = name
	}
}

// WithUnits turns the project into a residential complex with one unit per name.
func WithUnits(names ...string) ProjectOption {
	return func(p *domain.Project) {
		p.IsResidentialComplex = true
		p.NumberOfUnits = len(names)
		p.Units = nil
		for i, name := range names {
			p.Units = append(p.Units, domain.Unit{
				ID:        uuid.New().String(),
				ProjectID: p.ID,
				Name:      name,
				Position:  i,
			})
		}
	}
}

// NewTestProject builds a valid non-residential project with an assigned id.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.StatusActive,
		StartDate: now.AddDate(0, -1, 0),
		Worker:    "Alex",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TemplateDir creates a temp directory populated with the given template
// files (RequiredDocs when none are named).
func TemplateDir(t *testing.T, docs ...string) string {
	t.Helper()
	if len(docs) == 0 {
		docs = RequiredDocs
	}
	dir := t.TempDir()
	for _, name := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("template: "+name), 0644); err != nil {
			t.Fatalf("writing template %s: %v", name, err)
		}
	}
	return dir
}
