package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rhyoz/Project-Manager/internal/domain"
	"github.com/Rhyoz/Project-Manager/internal/provision"
	"github.com/Rhyoz/Project-Manager/internal/reconcile"
	"github.com/Rhyoz/Project-Manager/internal/repository"
	"github.com/Rhyoz/Project-Manager/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceEnv struct {
	svc         ProjectService
	projectsDir string
	templateDir string
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	projectsDir := t.TempDir()
	templateDir := testutil.TemplateDir(t)
	svc := NewProjectService(
		repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteUnitRepo(database),
		testutil.NewTestUoW(database),
		provision.New(templateDir, projectsDir, testutil.RequiredDocs, nil),
		reconcile.New(projectsDir, nil),
	)
	return &serviceEnv{svc: svc, projectsDir: projectsDir, templateDir: templateDir}
}

func (e *serviceEnv) path(parts ...string) string {
	return filepath.Join(append([]string{e.projectsDir}, parts...)...)
}

func TestCreate_NonResidential(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.Empty(t, got.Units)

	root := env.path("Alpha - 100")
	assert.DirExists(t, filepath.Join(root, provision.FloorPlanDir))
	for _, doc := range testutil.RequiredDocs {
		assert.FileExists(t, filepath.Join(root, doc))
	}
}

func TestCreate_Residential(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Beta", testutil.WithNumber("200"), testutil.WithUnits("1", "2")))
	require.NoError(t, err)

	done, total, err := env.svc.CompletedCount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, done)
	assert.Equal(t, 2, total)

	root := env.path("Beta - 200")
	assert.DirExists(t, filepath.Join(root, provision.MasterDir))
	for _, unit := range []string{"1", "2"} {
		assert.FileExists(t, filepath.Join(root, unit, testutil.RequiredDocs[0]))
		assert.DirExists(t, filepath.Join(root, unit, provision.FloorPlanDir))
	}
}

func TestCreate_MissingTemplate_NoRecordNoFolder(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	require.NoError(t, os.Remove(filepath.Join(env.templateDir, "Sjekkliste.docx")))

	_, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	var merr *domain.TemplateMissingError
	require.ErrorAs(t, err, &merr)

	all, err := env.svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all, "no record written")
	assert.NoDirExists(t, env.path("Alpha - 100"), "no folder created")
}

func TestCreate_InvalidProjectRejected(t *testing.T) {
	env := newServiceEnv(t)

	p := testutil.NewTestProject("")
	_, err := env.svc.Create(context.Background(), p)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreate_FolderNameCollisionRejected(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	var cerr *domain.PathCollisionError
	require.ErrorAs(t, err, &cerr)

	all, lerr := env.svc.List(ctx, nil)
	require.NoError(t, lerr)
	assert.Len(t, all, 1)
}

func TestUpdate_RenameMovesFolderWithContents(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)

	edited := env.path("Alpha - 100", "Innregulering.docx")
	require.NoError(t, os.WriteFile(edited, []byte("user edits"), 0644))

	p, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	p.Name = "Gamma"
	require.NoError(t, env.svc.Update(ctx, p))

	assert.NoDirExists(t, env.path("Alpha - 100"))
	got, err := os.ReadFile(env.path("Gamma - 100", "Innregulering.docx"))
	require.NoError(t, err)
	assert.Equal(t, "user edits", string(got), "edited document travels with the move")
}

func TestUpdate_RenameCollisionRollsBack(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, testutil.NewTestProject("Gamma", testutil.WithNumber("100")))
	require.NoError(t, err)
	id, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)

	p, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	p.Name = "Gamma"
	err = env.svc.Update(ctx, p)
	var cerr *domain.PathCollisionError
	require.ErrorAs(t, err, &cerr)

	reread, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", reread.Name, "row update rolled back")
	assert.DirExists(t, env.path("Alpha - 100"), "folder untouched")
}

func TestUpdate_UnitSetReplace_PreservesDone(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Beta", testutil.WithNumber("200"), testutil.WithUnits("1", "2")))
	require.NoError(t, err)

	p, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	require.NoError(t, env.svc.ToggleUnit(ctx, id, p.Units[0].ID, true))

	// Replace {1, 2} with {1, 3}: unit 1 keeps its done flag, 2 goes, 3 arrives.
	p, err = env.svc.Get(ctx, id)
	require.NoError(t, err)
	p.Units = []domain.Unit{{Name: "1"}, {Name: "3"}}
	p.NumberOfUnits = 2
	require.NoError(t, env.svc.Update(ctx, p))

	got, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Units, 2)
	assert.Equal(t, "1", got.Units[0].Name)
	assert.True(t, got.Units[0].IsDone, "kept unit retains completion state")
	assert.Equal(t, "3", got.Units[1].Name)
	assert.False(t, got.Units[1].IsDone)

	root := env.path("Beta - 200")
	assert.NoDirExists(t, filepath.Join(root, "2"), "removed unit folder deleted")
	assert.FileExists(t, filepath.Join(root, "3", testutil.RequiredDocs[0]), "added unit provisioned")
}

func TestUpdate_ResidentialToNonResidential_CleansStaleTree(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Beta", testutil.WithNumber("200"), testutil.WithUnits("1", "2")))
	require.NoError(t, err)

	p, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	p.IsResidentialComplex = false
	p.NumberOfUnits = 0
	p.Units = nil
	require.NoError(t, env.svc.Update(ctx, p))

	root := env.path("Beta - 200")
	assert.NoDirExists(t, filepath.Join(root, provision.MasterDir), "Master folder cleared")
	assert.NoDirExists(t, filepath.Join(root, "1"), "unit folders cleared")
	assert.NoDirExists(t, filepath.Join(root, "2"))
	assert.DirExists(t, filepath.Join(root, provision.FloorPlanDir))
	for _, doc := range testutil.RequiredDocs {
		assert.FileExists(t, filepath.Join(root, doc), "root documents provisioned")
	}
}

func TestUpdate_NonResidentialToResidential_CleansStaleTree(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)

	p, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	p.IsResidentialComplex = true
	p.NumberOfUnits = 2
	p.Units = []domain.Unit{{Name: "1"}, {Name: "2"}}
	require.NoError(t, env.svc.Update(ctx, p))

	root := env.path("Alpha - 100")
	for _, doc := range testutil.RequiredDocs {
		assert.NoFileExists(t, filepath.Join(root, doc), "root documents cleared")
	}
	assert.NoDirExists(t, filepath.Join(root, provision.FloorPlanDir), "root floor-plan folder cleared")
	assert.DirExists(t, filepath.Join(root, provision.MasterDir))
	for _, unit := range []string{"1", "2"} {
		assert.FileExists(t, filepath.Join(root, unit, testutil.RequiredDocs[0]))
	}
}

func TestUpdate_PureRenameSucceedsWithoutTemplates(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)

	// Templates vanish after creation; a rename touches no documents and
	// must not degrade into a reconciliation warning.
	require.NoError(t, os.Remove(filepath.Join(env.templateDir, "Innregulering.docx")))

	p, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	p.Name = "Gamma"
	require.NoError(t, env.svc.Update(ctx, p))

	assert.DirExists(t, env.path("Gamma - 100"))
	assert.NoDirExists(t, env.path("Alpha - 100"))
}

func TestDelete_RemovesRecordsAndFolder(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Beta", testutil.WithNumber("200"), testutil.WithUnits("1", "2")))
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, id))

	_, err = env.svc.Get(ctx, id)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.NoDirExists(t, env.path("Beta - 200"))

	require.NoError(t, env.svc.Delete(ctx, id), "second delete is a no-op")
	require.NoError(t, env.svc.Delete(ctx, "never-existed"))
}

func TestToggleUnit_RoundTrips(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Beta", testutil.WithNumber("200"), testutil.WithUnits("1", "2")))
	require.NoError(t, err)
	p, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	unitID := p.Units[0].ID

	require.NoError(t, env.svc.ToggleUnit(ctx, id, unitID, true))
	done, total, err := env.svc.CompletedCount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)

	require.NoError(t, env.svc.ToggleUnit(ctx, id, unitID, false))
	done, _, err = env.svc.CompletedCount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, done)
}

func TestChangeStatus_FinishedStampsEndDate(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)

	require.NoError(t, env.svc.ChangeStatus(ctx, id, domain.StatusFinished))
	p, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinished, p.Status)
	require.NotNil(t, p.EndDate)

	require.NoError(t, env.svc.ChangeStatus(ctx, id, domain.StatusActive))
	p, err = env.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p.EndDate, "leaving Finished clears the end date")
}

func TestChangeStatus_UnknownStatusRejected(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)

	err = env.svc.ChangeStatus(ctx, id, domain.ProjectStatus("Archived"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestList_FiltersByStatus(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)
	id2, err := env.svc.Create(ctx, testutil.NewTestProject("Beta", testutil.WithNumber("200")))
	require.NoError(t, err)
	require.NoError(t, env.svc.ChangeStatus(ctx, id2, domain.StatusPaused))

	paused := domain.StatusPaused
	got, err := env.svc.List(ctx, &paused)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Beta", got[0].Name)
}

func TestReprovision_RepairsDeletedTree(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(env.path("Alpha - 100")))
	require.NoError(t, env.svc.Reprovision(ctx, id))
	assert.FileExists(t, env.path("Alpha - 100", testutil.RequiredDocs[0]))
}

func TestImportFloorPlans(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "plan.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0644))

	resID, err := env.svc.Create(ctx, testutil.NewTestProject("Beta", testutil.WithNumber("200"), testutil.WithUnits("1")))
	require.NoError(t, err)
	require.NoError(t, env.svc.ImportFloorPlan(ctx, resID, "1", src))
	assert.FileExists(t, env.path("Beta - 200", "1", provision.FloorPlanDir, reconcile.FloorPlanFile))

	require.NoError(t, env.svc.ImportMasterFloorPlan(ctx, resID, src))
	assert.FileExists(t, env.path("Beta - 200", provision.MasterDir, reconcile.MasterFloorPlanFile))

	nonResID, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)
	require.NoError(t, env.svc.ImportFloorPlan(ctx, nonResID, "", src))
	assert.FileExists(t, env.path("Alpha - 100", provision.FloorPlanDir, reconcile.FloorPlanFile))
}

func TestPreviewFolderName(t *testing.T) {
	env := newServiceEnv(t)
	p := testutil.NewTestProject("Alpha", testutil.WithNumber("100"), testutil.WithContractor("Lindal"))
	assert.Equal(t, "Lindal - Alpha - 100", env.svc.PreviewFolderName(p))
}

func TestSubscribe_NotifiedOnMutations(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	var fired int
	cancel := env.svc.Subscribe(func() { fired++ })

	id, err := env.svc.Create(ctx, testutil.NewTestProject("Alpha", testutil.WithNumber("100")))
	require.NoError(t, err)
	assert.Equal(t, 1, fired)

	require.NoError(t, env.svc.ChangeStatus(ctx, id, domain.StatusPaused))
	assert.Equal(t, 2, fired)

	cancel()
	require.NoError(t, env.svc.Delete(ctx, id))
	assert.Equal(t, 2, fired, "cancelled subscriber no longer notified")
}
