// Package naming derives filesystem folder names from project fields. All
// functions are pure: the derived name is never stored, so any field change
// must be followed by tree reconciliation.
package naming

import (
	"strings"
	"unicode"

	"github.com/Rhyoz/Project-Manager/internal/domain"
)

const separator = " - "

// Sanitize strips every character outside the allow-list (letters, digits,
// space, underscore, hyphen) and trims trailing whitespace.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " \t")
}

// FolderName derives the canonical project folder name from the project's
// current field values: main contractor (unless empty or the "none"
// placeholder), name and number, joined by " - " and sanitized. A project
// whose fields sanitize to nothing falls back to a synthetic name from its id.
func FolderName(p *domain.Project) string {
	var parts []string
	if c := strings.TrimSpace(p.MainContractor); c != "" && !strings.EqualFold(c, "none") {
		parts = append(parts, c)
	}
	if p.Name != "" {
		parts = append(parts, p.Name)
	}
	if p.Number != "" {
		parts = append(parts, p.Number)
	}
	name := Sanitize(strings.Join(parts, separator))
	if name == "" {
		name = "Project_" + shortID(p.ID)
	}
	return name
}

// UnitFolderName derives a unit's subfolder name from the bare unit name.
func UnitFolderName(name string) string {
	return Sanitize(name)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
