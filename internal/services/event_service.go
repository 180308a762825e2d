package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskhub/taskhub-be/internal/models"
)

// EventServiceProvider defines the interface for the activity log.
type EventServiceProvider interface {
	Record(eventType, level, message string, subjectID *string) error
	RecentEvents(limit int) ([]models.Event, error)
}

// EventService records entity mutations to the activity log.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// Record logs a new event to the database.
func (s *EventService) Record(eventType, level, message string, subjectID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		SubjectID: subjectID,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, subject_id, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.SubjectID, event.CreatedAt)
	return err
}

// RecentEvents retrieves the most recent events from the database.
func (s *EventService) RecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, subject_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.SubjectID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
