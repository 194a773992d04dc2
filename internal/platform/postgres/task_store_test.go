package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/postgres"
	"github.com/taskwell/taskwell-api/internal/store"
	"github.com/taskwell/taskwell-api/internal/testutils"
)

// insertOwner persists a user inside the transaction so tasks have a valid
// foreign key to reference.
func insertOwner(ctx context.Context, t *testing.T, tx *sql.Tx, email string) uuid.UUID {
	t.Helper()
	userStore := postgres.NewPostgresUserStore(tx, testutils.DiscardLogger())
	user := newStoredUser(t, email)
	require.NoError(t, userStore.Create(ctx, user))
	return user.ID
}

func createTask(
	ctx context.Context,
	t *testing.T,
	taskStore store.TaskStore,
	ownerID uuid.UUID,
	title string,
) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, title, nil)
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(ctx, task))
	require.NotZero(t, task.ID, "store must assign an ID")
	return task
}

func TestTaskStoreCreateAndGet(t *testing.T) {
	t.Parallel()
	requireTestDB(t)

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		ownerID := insertOwner(ctx, t, tx, "task-create@example.com")
		taskStore := postgres.NewPostgresTaskStore(tx, testutils.DiscardLogger())

		description := "with a description"
		task, err := domain.NewTask(ownerID, "First task", &description)
		require.NoError(t, err)
		require.NoError(t, taskStore.Create(ctx, task))

		got, err := taskStore.GetByID(ctx, ownerID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, ownerID, got.UserID)
		assert.Equal(t, "First task", got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, description, *got.Description)
		assert.False(t, got.Completed)
	})
}

func TestTaskStoreCreateUnknownOwner(t *testing.T) {
	t.Parallel()
	requireTestDB(t)

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		taskStore := postgres.NewPostgresTaskStore(tx, testutils.DiscardLogger())
		task, err := domain.NewTask(uuid.New(), "Orphan task", nil)
		require.NoError(t, err)

		err = taskStore.Create(ctx, task)
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestTaskStoreListFiltersAndSorts(t *testing.T) {
	t.Parallel()
	requireTestDB(t)

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		ownerID := insertOwner(ctx, t, tx, "task-list@example.com")
		otherID := insertOwner(ctx, t, tx, "task-list-other@example.com")
		taskStore := postgres.NewPostgresTaskStore(tx, testutils.DiscardLogger())

		zebra := createTask(ctx, t, taskStore, ownerID, "Zebra")
		apple := createTask(ctx, t, taskStore, ownerID, "Apple")
		createTask(ctx, t, taskStore, otherID, "Someone else's task")

		_, err := taskStore.SetCompleted(ctx, ownerID, zebra.ID, true)
		require.NoError(t, err)

		all, err := taskStore.List(ctx, ownerID, store.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2, "listing must be owner-scoped")

		pending, err := taskStore.List(ctx, ownerID, store.ListFilter{Status: store.StatusPending})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, apple.ID, pending[0].ID)

		completed, err := taskStore.List(ctx, ownerID, store.ListFilter{Status: store.StatusCompleted})
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, zebra.ID, completed[0].ID)

		byTitle, err := taskStore.List(ctx, ownerID, store.ListFilter{Sort: store.SortTitle})
		require.NoError(t, err)
		require.Len(t, byTitle, 2)
		assert.Equal(t, "Apple", byTitle[0].Title)
		assert.Equal(t, "Zebra", byTitle[1].Title)
	})
}

func TestTaskStoreListEmpty(t *testing.T) {
	t.Parallel()
	requireTestDB(t)

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		ownerID := insertOwner(ctx, t, tx, "task-empty@example.com")
		taskStore := postgres.NewPostgresTaskStore(tx, testutils.DiscardLogger())

		tasks, err := taskStore.List(ctx, ownerID, store.ListFilter{})
		require.NoError(t, err)
		assert.NotNil(t, tasks, "empty listing must be a slice, not nil")
		assert.Empty(t, tasks)
	})
}

func TestTaskStoreUpdate(t *testing.T) {
	t.Parallel()
	requireTestDB(t)

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		ownerID := insertOwner(ctx, t, tx, "task-update@example.com")
		taskStore := postgres.NewPostgresTaskStore(tx, testutils.DiscardLogger())
		task := createTask(ctx, t, taskStore, ownerID, "Original")

		newTitle := "Renamed"
		updated, err := taskStore.Update(ctx, ownerID, task.ID, store.TaskUpdate{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Nil(t, updated.Description, "untouched fields keep their values")
		assert.False(t, updated.Completed)
		assert.True(t, updated.UpdatedAt.After(task.UpdatedAt) || updated.UpdatedAt.Equal(task.UpdatedAt))

		// Updating someone else's task must read as not found
		_, err = taskStore.Update(ctx, uuid.New(), task.ID, store.TaskUpdate{Title: &newTitle})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreSetCompleted(t *testing.T) {
	t.Parallel()
	requireTestDB(t)

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		ownerID := insertOwner(ctx, t, tx, "task-complete@example.com")
		taskStore := postgres.NewPostgresTaskStore(tx, testutils.DiscardLogger())
		task := createTask(ctx, t, taskStore, ownerID, "To complete")

		done, err := taskStore.SetCompleted(ctx, ownerID, task.ID, true)
		require.NoError(t, err)
		assert.True(t, done.Completed)

		// Setting the same value again is not a flip
		still, err := taskStore.SetCompleted(ctx, ownerID, task.ID, true)
		require.NoError(t, err)
		assert.True(t, still.Completed)

		reopened, err := taskStore.SetCompleted(ctx, ownerID, task.ID, false)
		require.NoError(t, err)
		assert.False(t, reopened.Completed)
	})
}

func TestTaskStoreDelete(t *testing.T) {
	t.Parallel()
	requireTestDB(t)

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		ownerID := insertOwner(ctx, t, tx, "task-delete@example.com")
		taskStore := postgres.NewPostgresTaskStore(tx, testutils.DiscardLogger())
		task := createTask(ctx, t, taskStore, ownerID, "Doomed")

		// Owner mismatch leaves the task alone
		err := taskStore.Delete(ctx, uuid.New(), task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		require.NoError(t, taskStore.Delete(ctx, ownerID, task.ID))

		_, err = taskStore.GetByID(ctx, ownerID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		err = taskStore.Delete(ctx, ownerID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}
