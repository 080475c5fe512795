package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Unit is a single dwelling inside a residential-complex project. Its lifetime
// is bounded by the owning project; it never moves between projects.
type Unit struct {
	ID        string
	ProjectID string
	Name      string
	IsDone    bool
	Position  int
}

// Project is one tracked inspection job. Name and Number are free text but at
// least one must be non-empty. Units is populated only for residential
// complexes and is kept in position order.
type Project struct {
	ID                   string
	Name                 string
	Number               string
	MainContractor       string
	StartDate            time.Time
	EndDate              *time.Time
	Status               ProjectStatus
	IsResidentialComplex bool
	NumberOfUnits        int
	Worker               string
	Extra                string
	Units                []Unit
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// UnitNames returns the unit names in position order.
func (p *Project) UnitNames() []string {
	names := make([]string, 0, len(p.Units))
	for _, u := range p.Units {
		names = append(names, u.Name)
	}
	return names
}

// Validate checks the project's data invariants. It does not check derived
// folder-name uniqueness, which needs the stored project set.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Number) == "" {
		return &ValidationError{Field: "name", Reason: "at least one of name or number must be non-empty"}
	}
	if !ValidStatuses[p.Status] {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(p.Status)}
	}
	if p.StartDate.IsZero() {
		return &ValidationError{Field: "start_date", Reason: "start date is required"}
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return &ValidationError{Field: "end_date", Reason: "end date is earlier than start date"}
	}
	if p.IsResidentialComplex {
		if len(p.Units) == 0 {
			return &ValidationError{Field: "units", Reason: "a residential complex needs at least one unit"}
		}
		if len(p.Units) != p.NumberOfUnits {
			return &ValidationError{Field: "number_of_units", Reason: "number of units does not match the unit list"}
		}
		seen := make(map[string]bool, len(p.Units))
		for _, u := range p.Units {
			name := strings.TrimSpace(u.Name)
			if name == "" {
				return &ValidationError{Field: "units", Reason: "unit names must be non-empty"}
			}
			if seen[name] {
				return &ValidationError{Field: "units", Reason: "duplicate unit name " + name}
			}
			seen[name] = true
		}
	} else {
		if len(p.Units) != 0 {
			return &ValidationError{Field: "units", Reason: "a non-residential project has no units"}
		}
		if p.NumberOfUnits != 0 {
			return &ValidationError{Field: "number_of_units", Reason: "unit count must be zero for a non-residential project"}
		}
	}
	return nil
}

// CompletedCount returns (done, total) over the project's units. A
// non-residential project reports (0, 0); callers display a sentinel.
func (p *Project) CompletedCount() (done, total int) {
	if !p.IsResidentialComplex {
		return 0, 0
	}
	for _, u := range p.Units {
		if u.IsDone {
			done++
		}
	}
	return done, len(p.Units)
}
