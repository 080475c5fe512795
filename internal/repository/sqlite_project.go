package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Rhyoz/Project-Manager/internal/db"
	"github.com/Rhyoz/Project-Manager/internal/domain"
)

// projectColumns is the canonical SELECT column list for projects.
const projectColumns = `id, name, number, main_contractor, start_date, end_date,
		status, is_residential_complex, number_of_units, worker, extra,
		created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo. It accepts either a
// *sql.DB or a transaction-scoped DBTX.
func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Number,
		p.MainContractor,
		p.StartDate.Format(domain.DateLayout),
		nullableTimeToString(p.EndDate, domain.DateLayout),
		string(p.Status),
		boolToInt(p.IsResidentialComplex),
		p.NumberOfUnits,
		p.Worker,
		p.Extra,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return &domain.StorageError{Op: "inserting project", Err: err}
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.NotFoundError{Kind: "project", ID: id}
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, id`
	args := []any{}
	if status != nil {
		query = `SELECT ` + projectColumns + ` FROM projects WHERE status = ? ORDER BY created_at, id`
		args = append(args, string(*status))
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "listing projects", Err: err}
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterating projects", Err: err}
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, number = ?, main_contractor = ?,
		start_date = ?, end_date = ?, status = ?, is_residential_complex = ?,
		number_of_units = ?, worker = ?, extra = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Number,
		p.MainContractor,
		p.StartDate.Format(domain.DateLayout),
		nullableTimeToString(p.EndDate, domain.DateLayout),
		string(p.Status),
		boolToInt(p.IsResidentialComplex),
		p.NumberOfUnits,
		p.Worker,
		p.Extra,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return &domain.StorageError{Op: "updating project", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "updating project", Err: err}
	}
	if n == 0 {
		return &domain.NotFoundError{Kind: "project", ID: p.ID}
	}
	return nil
}

// Delete removes the project row; units follow via the foreign-key cascade.
// Deleting an unknown id is a no-op.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return &domain.StorageError{Op: "deleting project", Err: err}
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var startDateStr, statusStr, createdAtStr, updatedAtStr string
	var endDateStr sql.NullString
	var residential, numUnits int

	err := row.Scan(
		&p.ID, &p.Name, &p.Number, &p.MainContractor,
		&startDateStr, &endDateStr,
		&statusStr, &residential, &numUnits,
		&p.Worker, &p.Extra,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, &domain.StorageError{Op: "scanning project", Err: err}
	}

	p.Status = domain.ProjectStatus(statusStr)
	p.IsResidentialComplex = intToBool(residential)
	p.NumberOfUnits = numUnits

	var parseErr error
	p.StartDate, parseErr = time.Parse(domain.DateLayout, startDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	p.EndDate = parseNullableTime(endDateStr, domain.DateLayout)

	return &p, nil
}
