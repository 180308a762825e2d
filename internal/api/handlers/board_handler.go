package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/taskhub/taskhub-be/internal/services"
)

// BoardHandler handles HTTP requests for board management.
type BoardHandler struct {
	service services.BoardServiceProvider
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(service services.BoardServiceProvider) *BoardHandler {
	return &BoardHandler{service: service}
}

// CreateBoardPayload defines the structure for board creation requests.
type CreateBoardPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"ownerId"`
}

// Create handles new board creation.
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreateBoardPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	board, err := h.service.CreateBoard(payload.Name, payload.Description, payload.OwnerID)
	if err != nil {
		log.Warn().Err(err).Str("owner_id", payload.OwnerID).Msg("Failed to create board")
		writeError(w, err, "Failed to create board")
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// Get handles retrieving a board by its ID.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	board, err := h.service.GetBoardByID(id)
	if err != nil {
		log.Warn().Err(err).Str("board_id", id).Msg("Failed to get board")
		writeError(w, err, "Failed to get board")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// GetAll answers the board listing route. Listing was never implemented in
// this system; the route exists but reports so instead of guessing behavior.
func (h *BoardHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "Board listing is not implemented"})
}

// AddMember handles adding a user to a board's membership.
func (h *BoardHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		UserID string `json:"userId"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	board, err := h.service.AddMemberToBoard(id, payload.UserID)
	if err != nil {
		log.Warn().Err(err).Str("board_id", id).Str("user_id", payload.UserID).Msg("Failed to add board member")
		writeError(w, err, "Failed to add member to board")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// RemoveMember handles removing a user from a board's membership.
func (h *BoardHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")

	board, err := h.service.RemoveMemberFromBoard(id, userID)
	if err != nil {
		log.Warn().Err(err).Str("board_id", id).Str("user_id", userID).Msg("Failed to remove board member")
		writeError(w, err, "Failed to remove member from board")
		return
	}
	writeJSON(w, http.StatusOK, board)
}
