package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepo_NameUniquePerOwner(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLCategoryRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestCategory("alice", "Work")))

	err := repo.Create(ctx, testutil.NewTestCategory("alice", "Work"))
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	assert.NoError(t, repo.Create(ctx, testutil.NewTestCategory("bob", "Work")))
}

func TestCategoryRepo_ListAndMaxSortOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLCategoryRepo(database)
	ctx := context.Background()

	got, err := repo.MaxSortOrder(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, got)

	home := testutil.NewTestCategory("alice", "Home")
	home.SortOrder = 1
	work := testutil.NewTestCategory("alice", "Work")
	require.NoError(t, repo.Create(ctx, home))
	require.NoError(t, repo.Create(ctx, work))

	got, err = repo.MaxSortOrder(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, *got)

	list, err := repo.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Work", list[0].Name)
	assert.Equal(t, "Home", list[1].Name)
}

func TestCategoryRepo_UpdateAndRenameConflict(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLCategoryRepo(database)
	ctx := context.Background()

	work := testutil.NewTestCategory("alice", "Work")
	home := testutil.NewTestCategory("alice", "Home")
	require.NoError(t, repo.Create(ctx, work))
	require.NoError(t, repo.Create(ctx, home))

	require.NoError(t, repo.Update(ctx, "alice", work.ID, domain.CategoryPatch{Name: domain.Some("Office")}))
	got, err := repo.GetByID(ctx, "alice", work.ID)
	require.NoError(t, err)
	assert.Equal(t, "Office", got.Name)

	err = repo.Update(ctx, "alice", home.ID, domain.CategoryPatch{Name: domain.Some("Office")})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	err = repo.Update(ctx, "bob", home.ID, domain.CategoryPatch{Name: domain.Some("Garden")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryRepo_Delete_ClearsTaskReference(t *testing.T) {
	database := testutil.NewTestDB(t)
	categories := NewSQLCategoryRepo(database)
	tasks := NewSQLTaskRepo(database)
	ctx := context.Background()

	cat := testutil.NewTestCategory("alice", "Errands")
	require.NoError(t, categories.Create(ctx, cat))
	task := testutil.NewTestTask("alice", "Post office", testutil.WithCategory(cat.ID))
	require.NoError(t, tasks.Create(ctx, task))

	require.NoError(t, categories.Delete(ctx, "alice", cat.ID))

	got, err := tasks.GetByID(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	assert.ErrorIs(t, categories.Delete(ctx, "alice", cat.ID), domain.ErrNotFound)
}
