package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/taskhub/taskhub-be/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUserPayload defines the structure for user creation requests.
type CreateUserPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Create handles new user creation.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreateUserPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.service.CreateUser(payload.Username, payload.Password, payload.Name)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to create user")
		writeError(w, err, "Failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// GetAll handles paginated user listing.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, limit := paginationParams(r)
	users, err := h.service.GetAllUsers(page, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get users")
		writeError(w, err, "Failed to get users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to get user")
		writeError(w, err, "Failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetWithTasks handles retrieving a user with their task list resolved.
func (h *UserHandler) GetWithTasks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserWithTasks(id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to get user with tasks")
		writeError(w, err, "Failed to get user with tasks")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetTaskStats handles retrieving a user's aggregate task statistics.
func (h *UserHandler) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stats, err := h.service.GetUserTaskStats(id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to get user task stats")
		writeError(w, err, "Failed to get user task statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Update handles partial updates of a user.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Username *string `json:"username"`
		Password *string `json:"password"`
		Name     *string `json:"name"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.service.UpdateUser(id, payload.Username, payload.Password, payload.Name)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to update user")
		writeError(w, err, "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete handles user deletion, cascading to the user's tasks.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := h.service.DeleteUser(id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to delete user")
		writeError(w, err, "Failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "User deleted",
		"deletedTasks": removed,
	})
}
