package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taskhub/taskhub-be/internal/database"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newServices(t *testing.T) (*sql.DB, *UserService, *TaskService, *BoardService) {
	t.Helper()
	db := setupDB(t)
	events := NewEventService(db)
	return db, NewUserService(db, events), NewTaskService(db, events), NewBoardService(db, events)
}

func mustCreateUser(t *testing.T, users *UserService, username, name string) string {
	t.Helper()
	user, err := users.CreateUser(username, "secret", name)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user.ID
}

// baseTime is a fixed whole-second instant for ordering fixtures.
func baseTime() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

// insertTask writes a task row directly with an explicit creation time, for
// tests that depend on ordering.
func insertTask(t *testing.T, db *sql.DB, userID, description string, completed bool, createdAt time.Time) string {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec("INSERT INTO tasks(id, description, completed, user_id, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)",
		id, description, completed, userID, createdAt, createdAt)
	if err != nil {
		t.Fatalf("insert task: %v", err)
	}
	return id
}
