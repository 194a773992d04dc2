// Package api provides HTTP handlers for the API.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/redact"
	"github.com/taskwell/taskwell-api/internal/store"
)

// TaskHandler handles task-related HTTP requests.
// Every operation is scoped to the authenticated caller; the handler never
// sees, much less returns, another user's tasks.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the auth middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathTaskID extracts the task ID from the URL path.
// Task IDs are store-assigned positive integers; anything else cannot name
// an existing task, so parse failures report not-found rather than a
// distinct bad-request shape.
func getPathTaskID(r *http.Request) (int64, error) {
	pathID := chi.URLParam(r, "id")
	if pathID == "" {
		return 0, store.ErrTaskNotFound
	}

	id, err := strconv.ParseInt(pathID, 10, 64)
	if err != nil || id <= 0 {
		return 0, store.ErrTaskNotFound
	}

	return id, nil
}

// requireOwnerAndTaskID resolves the caller and the path task ID, writing
// the appropriate error response when either is missing.
func (h *TaskHandler) requireOwnerAndTaskID(
	w http.ResponseWriter,
	r *http.Request,
) (uuid.UUID, int64, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, InvalidCredentialsMessage)
		return uuid.Nil, 0, false
	}

	taskID, err := getPathTaskID(r)
	if err != nil {
		log.Debug("unparseable task ID in path",
			slog.String("value", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusNotFound, GetSafeErrorMessage(err))
		return uuid.Nil, 0, false
	}

	return userID, taskID, true
}

// CreateTask handles POST /tasks/ requests.
// The new task is owned by the authenticated caller and starts pending.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, InvalidCredentialsMessage)
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("task create validation failed",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithValidationError(w, r, ValidationMessage, ValidationFields(err))
		return
	}

	task, err := domain.NewTask(userID, req.Title, req.Description)
	if err != nil {
		shared.RespondWithValidationError(w, r, ValidationMessage, ValidationFields(err))
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /tasks/ requests.
// Optional query parameters: status (pending|completed) restricts by the
// completed flag, sort (created|title|updated) selects the ordering.
// Unknown values fall back to no filter and the default ordering.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, InvalidCredentialsMessage)
		return
	}

	filter := store.ListFilter{}
	switch store.StatusFilter(r.URL.Query().Get("status")) {
	case store.StatusPending:
		filter.Status = store.StatusPending
	case store.StatusCompleted:
		filter.Status = store.StatusCompleted
	}
	switch store.SortOrder(r.URL.Query().Get("sort")) {
	case store.SortTitle:
		filter.Sort = store.SortTitle
	case store.SortUpdated:
		filter.Sort = store.SortUpdated
	default:
		filter.Sort = store.SortCreated
	}

	tasks, err := h.taskStore.List(r.Context(), userID, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.requireOwnerAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{id} requests.
// Despite the method, semantics are merge-patch: only fields present in the
// body are applied, absent fields keep their current values.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := h.requireOwnerAndTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()),
			slog.Int64("task_id", taskID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("task update validation failed",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()),
			slog.Int64("task_id", taskID))
		shared.RespondWithValidationError(w, r, ValidationMessage, ValidationFields(err))
		return
	}

	update := store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	task, err := h.taskStore.Update(r.Context(), userID, taskID, update)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CompleteTask handles PATCH /tasks/{id}/complete requests.
// The completed flag is set to exactly the supplied value; calling this
// twice with the same value succeeds both times.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := h.requireOwnerAndTaskID(w, r)
	if !ok {
		return
	}

	var req CompleteTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()),
			slog.Int64("task_id", taskID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("task completion validation failed",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()),
			slog.Int64("task_id", taskID))
		shared.RespondWithValidationError(w, r, ValidationMessage, ValidationFields(err))
		return
	}

	task, err := h.taskStore.SetCompleted(r.Context(), userID, taskID, *req.Completed)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests.
// The delete is permanent; success is an empty 204.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := h.requireOwnerAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, taskID); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	log.Debug("task deleted",
		slog.Int64("task_id", taskID),
		slog.String("user_id", userID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// respondStoreError translates a store/domain error into the right HTTP
// response, logging full detail for server errors only.
func (h *TaskHandler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)

	if statusCode == http.StatusUnprocessableEntity {
		shared.RespondWithValidationError(w, r, safeMessage, ValidationFields(err))
		return
	}

	if errors.Is(err, store.ErrTaskNotFound) {
		shared.RespondWithError(w, r, statusCode, safeMessage)
		return
	}

	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}
