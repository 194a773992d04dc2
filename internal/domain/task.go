package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrTaskEmptyTitle         = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong       = errors.New("task title cannot exceed 200 characters")
	ErrTaskDescriptionTooLong = errors.New("task description cannot exceed 1000 characters")
	ErrTaskEmptyOwner         = errors.New("task owner ID cannot be empty")
)

// Task field limits, enforced both here and by the database schema.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Task represents a single item on a user's task list.
// A task belongs to exactly one user and is only ever visible or mutable
// through the API by that user.
type Task struct {
	ID          int64     `json:"id"` // Store-assigned, auto-incrementing
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user.
// The ID is zero until the store assigns one. Completed always starts false.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title string, description *string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrTaskEmptyOwner
	}

	if err := ValidateTitle(t.Title); err != nil {
		return err
	}

	if t.Description != nil {
		if err := ValidateDescription(*t.Description); err != nil {
			return err
		}
	}

	return nil
}

// ValidateTitle checks the task title against its length constraints.
// Limits count characters, not bytes, matching the varchar schema.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrTaskEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}
	return nil
}

// ValidateDescription checks a task description against its length constraint.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrTaskDescriptionTooLong
	}
	return nil
}
