package domain

import "time"

// User is the domain model for accounts that create and work on items.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	RoleID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name the way list responses render it.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
