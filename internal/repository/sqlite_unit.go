package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Rhyoz/Project-Manager/internal/db"
	"github.com/Rhyoz/Project-Manager/internal/domain"
)

// SQLiteUnitRepo implements UnitRepo using a SQLite database.
type SQLiteUnitRepo struct {
	db db.DBTX
}

// NewSQLiteUnitRepo creates a new SQLiteUnitRepo. It accepts either a
// *sql.DB or a transaction-scoped DBTX.
func NewSQLiteUnitRepo(db db.DBTX) *SQLiteUnitRepo {
	return &SQLiteUnitRepo{db: db}
}

func (r *SQLiteUnitRepo) Create(ctx context.Context, u *domain.Unit) error {
	query := `INSERT INTO units (id, project_id, name, is_done, position)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.ProjectID, u.Name, boolToInt(u.IsDone), u.Position)
	if err != nil {
		return &domain.StorageError{Op: "inserting unit", Err: err}
	}
	return nil
}

func (r *SQLiteUnitRepo) GetByID(ctx context.Context, projectID, unitID string) (*domain.Unit, error) {
	query := `SELECT id, project_id, name, is_done, position FROM units
		WHERE id = ? AND project_id = ?`
	row := r.db.QueryRowContext(ctx, query, unitID, projectID)

	var u domain.Unit
	var done int
	if err := row.Scan(&u.ID, &u.ProjectID, &u.Name, &done, &u.Position); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: "unit", ID: unitID}
		}
		return nil, &domain.StorageError{Op: "scanning unit", Err: err}
	}
	u.IsDone = intToBool(done)
	return &u, nil
}

func (r *SQLiteUnitRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Unit, error) {
	query := `SELECT id, project_id, name, is_done, position FROM units
		WHERE project_id = ? ORDER BY position, name`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, &domain.StorageError{Op: "listing units", Err: err}
	}
	defer rows.Close()

	var units []domain.Unit
	for rows.Next() {
		var u domain.Unit
		var done int
		if err := rows.Scan(&u.ID, &u.ProjectID, &u.Name, &done, &u.Position); err != nil {
			return nil, &domain.StorageError{Op: "scanning unit row", Err: err}
		}
		u.IsDone = intToBool(done)
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterating units", Err: err}
	}
	return units, nil
}

func (r *SQLiteUnitRepo) SetDone(ctx context.Context, projectID, unitID string, done bool) error {
	query := `UPDATE units SET is_done = ? WHERE id = ? AND project_id = ?`
	res, err := r.db.ExecContext(ctx, query, boolToInt(done), unitID, projectID)
	if err != nil {
		return &domain.StorageError{Op: "updating unit status", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "updating unit status", Err: err}
	}
	if n == 0 {
		return &domain.NotFoundError{Kind: "unit", ID: unitID}
	}
	return nil
}

func (r *SQLiteUnitRepo) SetPosition(ctx context.Context, unitID string, position int) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE units SET position = ? WHERE id = ?`, position, unitID); err != nil {
		return &domain.StorageError{Op: "updating unit position", Err: err}
	}
	return nil
}

func (r *SQLiteUnitRepo) DeleteByName(ctx context.Context, projectID, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE project_id = ? AND name = ?`, projectID, name); err != nil {
		return &domain.StorageError{Op: "deleting unit", Err: err}
	}
	return nil
}
