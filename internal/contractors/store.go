// Package contractors manages the user-editable main-contractor list, stored
// as one name per line in a plain text file inside the projects directory.
package contractors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileName = "main_contractors.txt"

// Store reads and appends contractor names.
type Store struct {
	path string
}

func NewStore(projectsDir string) *Store {
	return &Store{path: filepath.Join(projectsDir, fileName)}
}

// Load returns the contractor names, creating the file with defaults on
// first use.
func (s *Store) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		defaults := "Lindal\nLohne\n"
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return nil, fmt.Errorf("creating contractors directory: %w", err)
		}
		if err := os.WriteFile(s.path, []byte(defaults), 0644); err != nil {
			return nil, fmt.Errorf("seeding contractors file: %w", err)
		}
		data = []byte(defaults)
	} else if err != nil {
		return nil, fmt.Errorf("reading contractors file: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Add appends a contractor name unless it is already listed.
func (s *Store) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("contractor name must be non-empty")
	}
	existing, err := s.Load()
	if err != nil {
		return err
	}
	for _, n := range existing {
		if n == name {
			return nil
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening contractors file: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, name); err != nil {
		return fmt.Errorf("appending contractor: %w", err)
	}
	return nil
}
