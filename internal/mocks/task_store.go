package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, task *domain.Task) error
	ListFn         func(ctx context.Context, ownerID uuid.UUID, filter store.ListFilter) ([]*domain.Task, error)
	GetByIDFn      func(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Task, error)
	UpdateFn       func(ctx context.Context, ownerID uuid.UUID, id int64, update store.TaskUpdate) (*domain.Task, error)
	SetCompletedFn func(ctx context.Context, ownerID uuid.UUID, id int64, completed bool) (*domain.Task, error)
	DeleteFn       func(ctx context.Context, ownerID uuid.UUID, id int64) error

	// Data for the default in-memory implementation
	Tasks  map[int64]*domain.Task
	NextID int64

	Err error
}

// NewMockTaskStore creates a new mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks:  make(map[int64]*domain.Task),
		NextID: 1,
	}
}

// Create implements the store.TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}
	task.ID = m.NextID
	m.NextID++
	m.Tasks[task.ID] = task
	return nil
}

// List implements the store.TaskStore interface.
func (m *MockTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.ListFilter,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, filter)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.UserID != ownerID {
			continue
		}
		switch filter.Status {
		case store.StatusPending:
			if task.Completed {
				continue
			}
		case store.StatusCompleted:
			if !task.Completed {
				continue
			}
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		switch filter.Sort {
		case store.SortTitle:
			return tasks[i].Title < tasks[j].Title
		case store.SortUpdated:
			return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
		default:
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
	})
	return tasks, nil
}

// GetByID implements the store.TaskStore interface.
func (m *MockTaskStore) GetByID(
	ctx context.Context,
	ownerID uuid.UUID,
	id int64,
) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	task, ok := m.Tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// Update implements the store.TaskStore interface.
func (m *MockTaskStore) Update(
	ctx context.Context,
	ownerID uuid.UUID,
	id int64,
	update store.TaskUpdate,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ownerID, id, update)
	}
	// Mirror the real store: changed fields are validated before anything
	// is touched.
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
	task, err := m.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	task.UpdatedAt = time.Now().UTC()
	return task, nil
}

// SetCompleted implements the store.TaskStore interface.
func (m *MockTaskStore) SetCompleted(
	ctx context.Context,
	ownerID uuid.UUID,
	id int64,
	completed bool,
) (*domain.Task, error) {
	if m.SetCompletedFn != nil {
		return m.SetCompletedFn(ctx, ownerID, id, completed)
	}
	task, err := m.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	task.Completed = completed
	task.UpdatedAt = time.Now().UTC()
	return task, nil
}

// Delete implements the store.TaskStore interface.
func (m *MockTaskStore) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}
	if _, err := m.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	delete(m.Tasks, id)
	return nil
}

// WithTx implements the store.TaskStore interface. The mock has no real
// transaction to bind, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

var _ store.TaskStore = (*MockTaskStore)(nil)
