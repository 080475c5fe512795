package repository

import (
	"context"
	"testing"

	"github.com/Rhyoz/Project-Manager/internal/domain"
	"github.com/Rhyoz/Project-Manager/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedResidential(t *testing.T, projects *SQLiteProjectRepo, units *SQLiteUnitRepo, names ...string) *domain.Project {
	t.Helper()
	ctx := context.Background()
	proj := testutil.NewTestProject("Complex", testutil.WithUnits(names...))
	require.NoError(t, projects.Create(ctx, proj))
	for i := range proj.Units {
		require.NoError(t, units.Create(ctx, &proj.Units[i]))
	}
	return proj
}

func TestUnitRepo_ListByProject_PositionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	units := NewSQLiteUnitRepo(db)
	proj := seedResidential(t, projects, units, "B", "A", "C")

	list, err := units.ListByProject(context.Background(), proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "B", list[0].Name, "position order wins over name order")
	assert.Equal(t, "A", list[1].Name)
	assert.Equal(t, "C", list[2].Name)
}

func TestUnitRepo_SetDone(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	units := NewSQLiteUnitRepo(db)
	ctx := context.Background()
	proj := seedResidential(t, projects, units, "1", "2")

	unitID := proj.Units[0].ID
	require.NoError(t, units.SetDone(ctx, proj.ID, unitID, true))

	u, err := units.GetByID(ctx, proj.ID, unitID)
	require.NoError(t, err)
	assert.True(t, u.IsDone)

	require.NoError(t, units.SetDone(ctx, proj.ID, unitID, false))
	u, err = units.GetByID(ctx, proj.ID, unitID)
	require.NoError(t, err)
	assert.False(t, u.IsDone)
}

func TestUnitRepo_SetDone_WrongProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	units := NewSQLiteUnitRepo(db)
	ctx := context.Background()
	proj := seedResidential(t, projects, units, "1")

	err := units.SetDone(ctx, "other-project", proj.Units[0].ID, true)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf, "the (project, unit) pair must resolve together")
}

func TestUnitRepo_DuplicateNameRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	units := NewSQLiteUnitRepo(db)
	ctx := context.Background()
	proj := seedResidential(t, projects, units, "1")

	dup := domain.Unit{ID: "dup", ProjectID: proj.ID, Name: "1", Position: 9}
	err := units.Create(ctx, &dup)
	var serr *domain.StorageError
	require.ErrorAs(t, err, &serr, "UNIQUE(project_id, name) enforced")
}

func TestUnitRepo_DeleteByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	units := NewSQLiteUnitRepo(db)
	ctx := context.Background()
	proj := seedResidential(t, projects, units, "1", "2")

	require.NoError(t, units.DeleteByName(ctx, proj.ID, "1"))
	list, err := units.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].Name)

	// Unknown name is a no-op.
	require.NoError(t, units.DeleteByName(ctx, proj.ID, "ghost"))
}
