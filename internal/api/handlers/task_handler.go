package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/taskhub/taskhub-be/internal/services"
)

// TaskHandler handles HTTP requests for task management.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTaskPayload defines the structure for task creation requests.
type CreateTaskPayload struct {
	Description string `json:"description"`
	User        string `json:"user"`
	Completed   bool   `json:"completed"`
}

// Create handles new task creation.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreateTaskPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	task, err := h.service.CreateTask(payload.Description, payload.User, payload.Completed)
	if err != nil {
		log.Warn().Err(err).Str("user_id", payload.User).Msg("Failed to create task")
		writeError(w, err, "Failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// GetAll handles filtered, paginated task listing.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, limit := paginationParams(r)
	filters := services.TaskFilters{
		UserID:    r.URL.Query().Get("userId"),
		Completed: boolParam(r, "completed"),
		Search:    r.URL.Query().Get("search"),
	}

	tasks, err := h.service.GetAllTasks(filters, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get tasks")
		writeError(w, err, "Failed to get tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Search handles description search, case-insensitive substring match.
func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Query parameter q is required"})
		return
	}

	page, limit := paginationParams(r)
	filters := services.TaskFilters{
		Search: q,
		UserID: r.URL.Query().Get("userId"),
	}

	tasks, err := h.service.GetAllTasks(filters, page, limit)
	if err != nil {
		log.Error().Err(err).Str("q", q).Msg("Failed to search tasks")
		writeError(w, err, "Failed to search tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Get handles retrieving a task by its ID.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	task, err := h.service.GetTaskByID(id)
	if err != nil {
		log.Warn().Err(err).Str("task_id", id).Msg("Failed to get task")
		writeError(w, err, "Failed to get task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// GetByUser handles listing a user's tasks.
func (h *TaskHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	page, limit := paginationParams(r)

	tasks, err := h.service.GetTasksByUser(userID, page, limit, boolParam(r, "completed"))
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to get user tasks")
		writeError(w, err, "Failed to get user tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// StatsByUser handles retrieving task statistics for a user.
func (h *TaskHandler) StatsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	stats, err := h.service.GetTaskStatsByUser(userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to get task stats")
		writeError(w, err, "Failed to get task statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Update handles partial updates of a task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	task, err := h.service.UpdateTask(id, payload.Description, payload.Completed)
	if err != nil {
		log.Warn().Err(err).Str("task_id", id).Msg("Failed to update task")
		writeError(w, err, "Failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Toggle handles flipping a task's completion flag.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	task, err := h.service.ToggleTaskCompletion(id)
	if err != nil {
		log.Warn().Err(err).Str("task_id", id).Msg("Failed to toggle task completion")
		writeError(w, err, "Failed to toggle task completion")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// MarkCompleted handles bulk completion of tasks.
func (h *TaskHandler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TaskIDs []string `json:"taskIds"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	updated, err := h.service.MarkTasksAsCompleted(payload.TaskIDs)
	if err != nil {
		log.Error().Err(err).Msg("Failed to mark tasks as completed")
		writeError(w, err, "Failed to mark tasks as completed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Tasks marked as completed",
		"modifiedCount": updated,
	})
}

// Delete handles deleting a single task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteTask(id); err != nil {
		log.Warn().Err(err).Str("task_id", id).Msg("Failed to delete task")
		writeError(w, err, "Failed to delete task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
