package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// StatusFilter restricts a task listing by the completed flag.
type StatusFilter string

// Valid status filters. The zero value applies no restriction.
const (
	StatusAny       StatusFilter = ""
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// SortOrder selects the ordering of a task listing.
type SortOrder string

// Valid sort orders. Created and updated order newest first; title orders
// ascending lexicographically.
const (
	SortCreated SortOrder = "created" // default
	SortTitle   SortOrder = "title"
	SortUpdated SortOrder = "updated"
)

// ListFilter bundles the optional restrictions for TaskStore.List.
type ListFilter struct {
	Status StatusFilter
	Sort   SortOrder
}

// TaskUpdate describes a merge-patch update to a task.
// Only non-nil fields are applied; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the update would change nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}

// TaskStore defines the interface for task data persistence.
//
// Every operation is scoped to the given owner ID: a task that exists but
// belongs to a different user is indistinguishable from a task that does
// not exist, and is reported as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task and assigns its ID from the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// List returns the owner's tasks matching the filter, ordered per the
	// filter's sort order. Returns an empty slice (not an error) when no
	// tasks match.
	List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*domain.Task, error)

	// GetByID retrieves a single owned task.
	// Returns ErrTaskNotFound if no task with this ID belongs to the owner.
	GetByID(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Task, error)

	// Update applies a merge-patch to an owned task, bumping updated_at.
	// Changed fields are re-validated against the domain constraints.
	// Returns the updated task, or ErrTaskNotFound if no owned task matches.
	Update(ctx context.Context, ownerID uuid.UUID, id int64, update TaskUpdate) (*domain.Task, error)

	// SetCompleted sets the completed flag to exactly the given value and
	// bumps updated_at. This is an explicit set, not a flip; repeating the
	// call with the same value succeeds and changes nothing but updated_at.
	// Returns the updated task, or ErrTaskNotFound if no owned task matches.
	SetCompleted(ctx context.Context, ownerID uuid.UUID, id int64, completed bool) (*domain.Task, error)

	// Delete permanently removes an owned task.
	// Returns ErrTaskNotFound if no owned task matches.
	Delete(ctx context.Context, ownerID uuid.UUID, id int64) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
