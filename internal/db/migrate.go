package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                     TEXT PRIMARY KEY,
		name                   TEXT NOT NULL DEFAULT '',
		number                 TEXT NOT NULL DEFAULT '',
		main_contractor        TEXT NOT NULL DEFAULT '',
		start_date             TEXT NOT NULL,
		end_date               TEXT,
		status                 TEXT NOT NULL DEFAULT 'Active'
		                       CHECK(status IN ('Active','Awaiting Completion','Paused','Completed','Finished')),
		is_residential_complex INTEGER NOT NULL DEFAULT 0,
		number_of_units        INTEGER NOT NULL DEFAULT 0 CHECK(number_of_units >= 0),
		worker                 TEXT NOT NULL DEFAULT '',
		extra                  TEXT NOT NULL DEFAULT '',
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS units (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL CHECK(name != ''),
		is_done    INTEGER NOT NULL DEFAULT 0,
		position   INTEGER NOT NULL DEFAULT 0,
		UNIQUE(project_id, name)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_units_project ON units(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,
}
