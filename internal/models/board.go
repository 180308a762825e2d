package models

import "time"

// Board represents a shared board with one owner and a set of members.
// The owner is implicitly a member and never appears in Members.
type Board struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	OwnerID     string        `json:"owner"`
	Members     []string      `json:"members"`
	OwnerInfo   *UserSummary  `json:"ownerInfo"` // Populated owner, null if the user is gone
	Users       []UserSummary `json:"users"`     // Populated members, empty when none
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
