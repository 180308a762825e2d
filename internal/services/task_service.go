package services

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/taskhub/taskhub-be/internal/models"
)

// MaxDescriptionLength bounds a task description.
const MaxDescriptionLength = 500

// TaskFilters narrows a task listing.
type TaskFilters struct {
	UserID    string
	Completed *bool
	Search    string // Case-insensitive substring match on description
}

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	CreateTask(description, userID string, completed bool) (models.Task, error)
	GetTaskByID(id string) (models.Task, error)
	GetTasksByUser(userID string, page, limit int, completed *bool) (models.TaskPage, error)
	GetAllTasks(filters TaskFilters, page, limit int) (models.TaskPage, error)
	UpdateTask(id string, description *string, completed *bool) (models.Task, error)
	ToggleTaskCompletion(id string) (models.Task, error)
	DeleteTask(id string) error
	DeleteTasksByUser(userID string) (int64, error)
	MarkTasksAsCompleted(ids []string) (int64, error)
	GetTaskStatsByUser(userID string) (models.TaskStats, error)
}

// TaskService provides business logic for task management.
type TaskService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB, events EventServiceProvider) *TaskService {
	return &TaskService{db: db, events: events}
}

// CreateTask creates a task after verifying the owning user exists.
func (s *TaskService) CreateTask(description, userID string, completed bool) (models.Task, error) {
	if err := validateDescription(description); err != nil {
		return models.Task{}, err
	}

	var ownerExists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&ownerExists); err != nil {
		return models.Task{}, fmt.Errorf("verify task owner: %w", err)
	}
	if !ownerExists {
		return models.Task{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:          uuid.New().String(),
		Description: description,
		Completed:   completed,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stmt, err := s.db.Prepare("INSERT INTO tasks(id, description, completed, user_id, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Task{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(task.ID, task.Description, task.Completed, task.UserID, task.CreatedAt, task.UpdatedAt); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}

	if err := s.populateOne(&task); err != nil {
		return models.Task{}, err
	}

	s.record("task.created", fmt.Sprintf("task created for user %s", userID), task.ID)
	return task, nil
}

// GetTaskByID retrieves a task with its owner resolved.
func (s *TaskService) GetTaskByID(id string) (models.Task, error) {
	row := s.db.QueryRow("SELECT id, description, completed, user_id, created_at, updated_at FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return models.Task{}, err
	}
	if err := s.populateOne(&task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// GetTasksByUser retrieves one page of a user's tasks, newest first.
func (s *TaskService) GetTasksByUser(userID string, page, limit int, completed *bool) (models.TaskPage, error) {
	return s.GetAllTasks(TaskFilters{UserID: userID, Completed: completed}, page, limit)
}

// GetAllTasks retrieves one page of tasks matching the filters, newest first.
func (s *TaskService) GetAllTasks(filters TaskFilters, page, limit int) (models.TaskPage, error) {
	page, limit = normalizePage(page, limit)

	where, args := buildTaskFilter(filters)

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tasks"+where, args...).Scan(&total); err != nil {
		return models.TaskPage{}, fmt.Errorf("count tasks: %w", err)
	}

	query := "SELECT id, description, completed, user_id, created_at, updated_at FROM tasks" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := s.db.Query(query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return models.TaskPage{}, fmt.Errorf("get tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return models.TaskPage{}, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return models.TaskPage{}, err
	}

	if err := populateTaskOwners(s.db, tasks); err != nil {
		return models.TaskPage{}, err
	}
	return models.TaskPage{Tasks: tasks, Total: total, Page: page, Pages: pageCount(total, limit)}, nil
}

// UpdateTask applies a partial update to a task.
func (s *TaskService) UpdateTask(id string, description *string, completed *bool) (models.Task, error) {
	task, err := s.GetTaskByID(id)
	if err != nil {
		return models.Task{}, err
	}

	if description != nil {
		if err := validateDescription(*description); err != nil {
			return models.Task{}, err
		}
		task.Description = *description
	}
	if completed != nil {
		task.Completed = *completed
	}
	task.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec("UPDATE tasks SET description = ?, completed = ?, updated_at = ? WHERE id = ?",
		task.Description, task.Completed, task.UpdatedAt, task.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// ToggleTaskCompletion flips a task's completed flag.
func (s *TaskService) ToggleTaskCompletion(id string) (models.Task, error) {
	task, err := s.GetTaskByID(id)
	if err != nil {
		return models.Task{}, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = time.Now().UTC()
	_, err = s.db.Exec("UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ?", task.Completed, task.UpdatedAt, task.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("toggle task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a single task.
func (s *TaskService) DeleteTask(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	s.record("task.deleted", "task deleted", id)
	return nil
}

// DeleteTasksByUser removes all tasks owned by a user and returns the count.
func (s *TaskService) DeleteTasksByUser(userID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM tasks WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("delete tasks by user: %w", err)
	}
	return res.RowsAffected()
}

// MarkTasksAsCompleted sets completed on every task in ids and returns the
// number of tasks updated.
func (s *TaskService) MarkTasksAsCompleted(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := []any{time.Now().UTC()}
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := s.db.Exec("UPDATE tasks SET completed = 1, updated_at = ? WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("mark tasks as completed: %w", err)
	}
	return res.RowsAffected()
}

// GetTaskStatsByUser returns aggregate counts and the five most recent tasks
// for a user.
func (s *TaskService) GetTaskStatsByUser(userID string) (models.TaskStats, error) {
	stats, err := taskCounts(s.db, userID)
	if err != nil {
		return models.TaskStats{}, err
	}

	rows, err := s.db.Query("SELECT id, description, completed, user_id, created_at, updated_at FROM tasks WHERE user_id = ? ORDER BY created_at DESC LIMIT 5", userID)
	if err != nil {
		return models.TaskStats{}, fmt.Errorf("get recent tasks: %w", err)
	}
	defer rows.Close()

	recent := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return models.TaskStats{}, err
		}
		recent = append(recent, task)
	}
	if err := rows.Err(); err != nil {
		return models.TaskStats{}, err
	}
	if err := populateTaskOwners(s.db, recent); err != nil {
		return models.TaskStats{}, err
	}

	stats.RecentTasks = recent
	return stats, nil
}

// populateOne resolves the owner summary for a single task.
func (s *TaskService) populateOne(task *models.Task) error {
	summaries, err := userSummaries(s.db, []string{task.UserID})
	if err != nil {
		return err
	}
	if summary, ok := summaries[task.UserID]; ok {
		task.UserInfo = &summary
	}
	return nil
}

// record writes to the activity log; failures are logged, never surfaced.
func (s *TaskService) record(eventType, message, subjectID string) {
	if err := s.events.Record(eventType, "info", message, &subjectID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row.
func scanTask(row rowScanner) (models.Task, error) {
	var task models.Task
	err := row.Scan(&task.ID, &task.Description, &task.Completed, &task.UserID, &task.CreatedAt, &task.UpdatedAt)
	return task, err
}

// buildTaskFilter turns TaskFilters into a WHERE clause and its arguments.
func buildTaskFilter(filters TaskFilters) (string, []any) {
	conds := []string{}
	args := []any{}

	if filters.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filters.UserID)
	}
	if filters.Completed != nil {
		conds = append(conds, "completed = ?")
		args = append(args, *filters.Completed)
	}
	if filters.Search != "" {
		conds = append(conds, `description LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filters.Search)+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike escapes LIKE wildcards in a user-supplied search term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// validateDescription enforces the task description constraints.
func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description is required: %w", ErrValidation)
	}
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters: %w", MaxDescriptionLength, ErrValidation)
	}
	return nil
}

// taskCounts computes the aggregate stats shared by the task and user views.
func taskCounts(db *sql.DB, userID string) (models.TaskStats, error) {
	var total, completed int
	if err := db.QueryRow("SELECT COUNT(*) FROM tasks WHERE user_id = ?", userID).Scan(&total); err != nil {
		return models.TaskStats{}, fmt.Errorf("count tasks: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM tasks WHERE user_id = ? AND completed = 1", userID).Scan(&completed); err != nil {
		return models.TaskStats{}, fmt.Errorf("count completed tasks: %w", err)
	}

	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(completed)/float64(total)*100*100) / 100
	}
	return models.TaskStats{
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
		CompletionRate: rate,
	}, nil
}
