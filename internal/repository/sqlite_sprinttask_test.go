package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSprintTaskRepo_CreateGetAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	tasks := NewSQLiteSprintTaskRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Compiler")
	require.NoError(t, projects.Create(ctx, proj))

	t2 := testutil.NewTestTask(proj.ID, "Week 2", testutil.WithOrder(2))
	t1 := testutil.NewTestTask(proj.ID, "Week 1", testutil.WithOrder(1), testutil.WithTaskHours(7.5))
	require.NoError(t, tasks.Create(ctx, t2))
	require.NoError(t, tasks.Create(ctx, t1))

	got, err := tasks.GetByID(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.5, got.EstimatedHours)
	assert.Equal(t, domain.TaskTodo, got.Status)
	assert.Equal(t, t1.SprintWeek, got.SprintWeek)

	list, err := tasks.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Week 1", list[0].Title)
	assert.Equal(t, "Week 2", list[1].Title)

	_, err = tasks.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSprintTaskRepo_FetchActiveTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	tasks := NewSQLiteSprintTaskRepo(db)
	ctx := context.Background()

	mine := testutil.NewTestProject("Mine")
	alsoMine := testutil.NewTestProject("Also mine")
	theirs := testutil.NewTestProject("Theirs", testutil.WithProjectUser("other"))
	for _, p := range []*domain.Project{mine, alsoMine, theirs} {
		require.NoError(t, projects.Create(ctx, p))
	}

	fixtures := []*domain.SprintTask{
		testutil.NewTestTask(mine.ID, "a", testutil.WithSprintBucket(11, 2025)),
		testutil.NewTestTask(alsoMine.ID, "b", testutil.WithSprintBucket(11, 2025)),
		testutil.NewTestTask(mine.ID, "c", testutil.WithSprintBucket(12, 2025)),
		testutil.NewTestTask(mine.ID, "done", testutil.WithSprintBucket(11, 2025), testutil.WithTaskStatus(domain.TaskCompleted)),
		testutil.NewTestTask(theirs.ID, "theirs", testutil.WithSprintBucket(11, 2025)),
	}
	for _, task := range fixtures {
		require.NoError(t, tasks.Create(ctx, task))
	}

	all, err := tasks.FetchActiveTasks(ctx, testutil.TestUserID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	week11, err := tasks.FetchActiveTasks(ctx, testutil.TestUserID, &WeekFilter{Week: 11, Year: 2025})
	require.NoError(t, err)
	require.Len(t, week11, 2)
	for _, task := range week11 {
		assert.NotEqual(t, domain.TaskCompleted, task.Status)
		assert.Equal(t, 11, task.SprintWeek)
	}
}

func TestSprintTaskRepo_UpdateStatusAndDeleteOpen(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	tasks := NewSQLiteSprintTaskRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projects.Create(ctx, proj))
	done := testutil.NewTestTask(proj.ID, "done")
	open := testutil.NewTestTask(proj.ID, "open")
	require.NoError(t, tasks.Create(ctx, done))
	require.NoError(t, tasks.Create(ctx, open))

	require.NoError(t, tasks.UpdateStatus(ctx, done.ID, domain.TaskCompleted))
	assert.ErrorIs(t, tasks.UpdateStatus(ctx, "missing", domain.TaskBlocked), ErrNotFound)

	n, err := tasks.DeleteOpenByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := tasks.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, done.ID, left[0].ID)
}
