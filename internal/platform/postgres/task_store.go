package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// Every query is scoped by user_id, so a task owned by a different user
// produces the same store.ErrTaskNotFound as a task that does not exist.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// taskColumns is the column list shared by every query returning full tasks.
const taskColumns = "id, user_id, title, description, completed, created_at, updated_at"

// scanTask reads one task row from a row scanner.
func scanTask(row interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create implements store.TaskStore.Create
// It persists a new task and fills in the store-assigned ID.
// Returns store.ErrInvalidEntity if the owner does not exist (foreign key
// violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// List implements store.TaskStore.List
// It returns the owner's tasks restricted and ordered per the filter.
// An owner with no matching tasks gets an empty slice, not an error.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.ListFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = $1"
	args := []any{ownerID}

	switch filter.Status {
	case store.StatusPending:
		query += " AND completed = FALSE"
	case store.StatusCompleted:
		query += " AND completed = TRUE"
	}

	// Sort orders map to fixed SQL fragments; the filter value is never
	// interpolated into the query.
	switch filter.Sort {
	case store.SortTitle:
		query += " ORDER BY title ASC"
	case store.SortUpdated:
		query += " ORDER BY updated_at DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.String("user_id", ownerID.String()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, MapError(err)
	}

	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if no task with this ID belongs to the owner.
func (s *PostgresTaskStore) GetByID(
	ctx context.Context,
	ownerID uuid.UUID,
	id int64,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1 AND user_id = $2"

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("task not found",
				slog.Int64("task_id", id),
				slog.String("user_id", ownerID.String()))
			return nil, fmt.Errorf("%w: %v", store.ErrTaskNotFound, err)
		}

		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.String("user_id", ownerID.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update
// It applies the merge-patch in a single UPDATE: nil fields keep their
// current value via COALESCE, changed fields are validated first, and
// updated_at is always bumped. Returns store.ErrTaskNotFound if no owned
// task matches.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	ownerID uuid.UUID,
	id int64,
	update store.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.Title != nil {
		if err := domain.ValidateTitle(*update.Title); err != nil {
			return nil, err
		}
	}
	if update.Description != nil {
		if err := domain.ValidateDescription(*update.Description); err != nil {
			return nil, err
		}
	}

	query := `
		UPDATE tasks
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    completed = COALESCE($5, completed),
		    updated_at = $6
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		id,
		ownerID,
		update.Title,
		update.Description,
		update.Completed,
		time.Now().UTC(),
	))

	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("task not found for update",
				slog.Int64("task_id", id),
				slog.String("user_id", ownerID.String()))
			return nil, fmt.Errorf("%w: %v", store.ErrTaskNotFound, err)
		}

		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.String("user_id", ownerID.String()))
		return nil, MapError(err)
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", id),
		slog.String("user_id", ownerID.String()))
	return task, nil
}

// SetCompleted implements store.TaskStore.SetCompleted
// It sets the completed flag to exactly the given value; repeating the call
// is harmless. Returns store.ErrTaskNotFound if no owned task matches.
func (s *PostgresTaskStore) SetCompleted(
	ctx context.Context,
	ownerID uuid.UUID,
	id int64,
	completed bool,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET completed = $3,
		    updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		id,
		ownerID,
		completed,
		time.Now().UTC(),
	))

	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("task not found for completion update",
				slog.Int64("task_id", id),
				slog.String("user_id", ownerID.String()))
			return nil, fmt.Errorf("%w: %v", store.ErrTaskNotFound, err)
		}

		log.Error("failed to set task completion",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.String("user_id", ownerID.String()))
		return nil, MapError(err)
	}

	log.Info("task completion updated",
		slog.Int64("task_id", id),
		slog.String("user_id", ownerID.String()),
		slog.Bool("completed", completed))
	return task, nil
}

// Delete implements store.TaskStore.Delete
// The delete is permanent; there is no tombstone.
// Returns store.ErrTaskNotFound if no owned task matches.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "DELETE FROM tasks WHERE id = $1 AND user_id = $2"

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.String("user_id", ownerID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for delete",
			slog.Int64("task_id", id),
			slog.String("user_id", ownerID.String()))
		return fmt.Errorf("%w: %v", store.ErrTaskNotFound, err)
	}

	log.Info("task deleted",
		slog.Int64("task_id", id),
		slog.String("user_id", ownerID.String()))
	return nil
}

// WithTx implements store.TaskStore.WithTx
// It returns a new TaskStore backed by the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}
