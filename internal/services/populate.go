package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/taskhub/taskhub-be/internal/models"
)

// Relationship resolution: after fetching base entities, related users are
// looked up by foreign key in one batch and attached to the response shape.
// A relation with cardinality one resolves to a pointer (nil when the
// referenced user no longer exists); a many relation resolves to a slice that
// is empty, never null.

// userSummaries looks up the reduced user shape for a set of IDs.
func userSummaries(db *sql.DB, ids []string) (map[string]models.UserSummary, error) {
	out := make(map[string]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	seen := make(map[string]bool, len(ids))
	unique := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(unique)), ",")
	args := make([]any, len(unique))
	for i, id := range unique {
		args[i] = id
	}

	rows, err := db.Query("SELECT id, name, username FROM users WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Username); err != nil {
			return nil, err
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

// populateTaskOwners attaches the owning user summary to each task.
func populateTaskOwners(db *sql.DB, tasks []models.Task) error {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.UserID)
	}
	summaries, err := userSummaries(db, ids)
	if err != nil {
		return err
	}
	for i := range tasks {
		if s, ok := summaries[tasks[i].UserID]; ok {
			tasks[i].UserInfo = &s
		}
	}
	return nil
}

// populateBoard attaches the owner summary and the member summaries to a board.
func populateBoard(db *sql.DB, board *models.Board) error {
	ids := append([]string{board.OwnerID}, board.Members...)
	summaries, err := userSummaries(db, ids)
	if err != nil {
		return err
	}

	if s, ok := summaries[board.OwnerID]; ok {
		board.OwnerInfo = &s
	}
	board.Users = make([]models.UserSummary, 0, len(board.Members))
	for _, id := range board.Members {
		if s, ok := summaries[id]; ok {
			board.Users = append(board.Users, s)
		}
	}
	return nil
}
