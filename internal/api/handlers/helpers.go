package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/taskhub/taskhub-be/internal/services"
)

// errorResponse is the JSON body returned on every failure.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeError maps the service error taxonomy onto HTTP statuses and always
// returns the JSON error envelope.
func writeError(w http.ResponseWriter, err error, msg string) {
	writeJSON(w, statusForError(err), errorResponse{Error: msg, Details: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrPolicy):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// paginationParams reads page/limit query parameters. Pages are 1-indexed.
func paginationParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = services.DefaultPageSize
	}
	return page, limit
}

// boolParam parses an optional boolean query parameter, nil when absent.
func boolParam(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
