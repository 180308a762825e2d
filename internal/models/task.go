package models

import "time"

// Task represents a single task owned by one user.
type Task struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Completed   bool         `json:"completed"`
	UserID      string       `json:"user"`
	UserInfo    *UserSummary `json:"userInfo,omitempty"` // Populated owner, nil when unresolved
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}

// TaskStats summarizes a user's tasks.
type TaskStats struct {
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	PendingTasks   int     `json:"pendingTasks"`
	CompletionRate float64 `json:"completionRate"` // Percentage, rounded to 2 decimals
	RecentTasks    []Task  `json:"recentTasks,omitempty"`
}
