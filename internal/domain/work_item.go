package domain

import "time"

// WorkItem is the aggregate for tracked tasks.
//
// Version is a store-managed counter used to detect conflicting concurrent
// updates; it is never exposed to callers.
type WorkItem struct {
	ID              string
	Title           string
	Description     string
	AssignedUserID  string
	CreatedByUserID string
	StatusID        string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
