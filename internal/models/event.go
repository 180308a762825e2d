package models

import "time"

// Event represents one entry in the activity log.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "user.created", "board.member.added"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	SubjectID *string   `json:"subjectId,omitempty"` // Entity the event refers to, nullable
	CreatedAt time.Time `json:"createdAt"`
}
