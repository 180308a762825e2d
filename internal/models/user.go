package models

import "time"

// User represents a user account in the system.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // Stored verbatim, never exposed to the client
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the reduced user shape attached to related entities.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Summary returns the reduced shape of a user.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Username: u.Username}
}

// UserWithTasks is a user together with their resolved task list.
type UserWithTasks struct {
	User
	Tasks []Task `json:"tasks"`
}

// UserPage is one page of a user listing.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}
