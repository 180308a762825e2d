package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/taskhub/taskhub-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(username, password, name string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserWithTasks(id string) (models.UserWithTasks, error)
	GetAllUsers(page, limit int) (models.UserPage, error)
	UpdateUser(id string, username, password, name *string) (models.User, error)
	DeleteUser(id string) (int64, error)
	UsernameExists(username string) (bool, error)
	GetUserTaskStats(id string) (models.TaskStats, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events EventServiceProvider) *UserService {
	return &UserService{db: db, events: events}
}

// CreateUser creates a new user. The username must be unique; the existence
// check is advisory and the UNIQUE constraint on the users table is the
// authoritative guard against concurrent creates.
func (s *UserService) CreateUser(username, password, name string) (models.User, error) {
	if strings.TrimSpace(username) == "" {
		return models.User{}, fmt.Errorf("username is required: %w", ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		return models.User{}, fmt.Errorf("name is required: %w", ErrValidation)
	}

	existing, err := s.GetUserByUsername(username)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, fmt.Errorf("username %q: %w", username, ErrConflict)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Password:  password,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, password, name, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Username, user.Password, user.Name, user.CreatedAt, user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("username %q: %w", username, ErrConflict)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.record("user.created", fmt.Sprintf("user %q created", user.Username), user.ID)
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password, name, created_at, updated_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username. A nil result without an
// error means no such user exists; callers treat that as a valid outcome.
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password, name, created_at, updated_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// GetUserWithTasks retrieves a user with their task list resolved, newest
// tasks first.
func (s *UserService) GetUserWithTasks(id string) (models.UserWithTasks, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.UserWithTasks{}, err
	}

	rows, err := s.db.Query("SELECT id, description, completed, user_id, created_at, updated_at FROM tasks WHERE user_id = ? ORDER BY created_at DESC", id)
	if err != nil {
		return models.UserWithTasks{}, fmt.Errorf("get user tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return models.UserWithTasks{}, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return models.UserWithTasks{}, err
	}
	return models.UserWithTasks{User: user, Tasks: tasks}, nil
}

// GetAllUsers retrieves users with pagination, newest first.
func (s *UserService) GetAllUsers(page, limit int) (models.UserPage, error) {
	page, limit = normalizePage(page, limit)

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return models.UserPage{}, fmt.Errorf("count users: %w", err)
	}

	rows, err := s.db.Query("SELECT id, username, password, name, created_at, updated_at FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?", limit, (page-1)*limit)
	if err != nil {
		return models.UserPage{}, fmt.Errorf("get users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Password, &user.Name, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return models.UserPage{}, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return models.UserPage{}, err
	}

	return models.UserPage{Users: users, Total: total, Page: page, Pages: pageCount(total, limit)}, nil
}

// UpdateUser applies a partial update to a user.
func (s *UserService) UpdateUser(id string, username, password, name *string) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if username != nil && *username != user.Username {
		if strings.TrimSpace(*username) == "" {
			return models.User{}, fmt.Errorf("username is required: %w", ErrValidation)
		}
		other, err := s.GetUserByUsername(*username)
		if err != nil {
			return models.User{}, err
		}
		if other != nil && other.ID != id {
			return models.User{}, fmt.Errorf("username %q: %w", *username, ErrConflict)
		}
		user.Username = *username
	}
	if password != nil {
		user.Password = *password
	}
	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return models.User{}, fmt.Errorf("name is required: %w", ErrValidation)
		}
		user.Name = *name
	}
	user.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec("UPDATE users SET username = ?, password = ?, name = ?, updated_at = ? WHERE id = ?",
		user.Username, user.Password, user.Name, user.UpdatedAt, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("username %q: %w", user.Username, ErrConflict)
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user and cascades to their tasks. The task cascade and
// the user row removal run in one transaction so no observer sees one without
// the other. Returns the number of tasks removed.
func (s *UserService) DeleteUser(id string) (int64, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Cascade first, then the user row.
	res, err := tx.Exec("DELETE FROM tasks WHERE user_id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("cascade delete tasks: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec("DELETE FROM users WHERE id = ?", id); err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.record("user.deleted", fmt.Sprintf("user %q deleted along with %d tasks", user.Username, removed), id)
	return removed, nil
}

// UsernameExists reports whether a username is already taken.
func (s *UserService) UsernameExists(username string) (bool, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// GetUserTaskStats returns aggregate task counts for a user.
func (s *UserService) GetUserTaskStats(id string) (models.TaskStats, error) {
	if _, err := s.GetUserByID(id); err != nil {
		return models.TaskStats{}, err
	}
	return taskCounts(s.db, id)
}

// record writes to the activity log; failures are logged, never surfaced.
func (s *UserService) record(eventType, message, subjectID string) {
	if err := s.events.Record(eventType, "info", message, &subjectID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
