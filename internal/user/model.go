package user

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes staff users from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a row in the users table. Staff users ("gestores") carry
// optional career and team references; the team reference is mutated only by
// the user lifecycle, never by team roster operations.
type User struct {
	ID           uuid.UUID
	Document     string
	Email        string
	PasswordHash string
	Name         string
	LastName     string
	Address      *string
	IsActive     bool
	Role         Role
	CareerID     *uuid.UUID
	TeamID       *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateFields holds user-updatable fields on a user record.
// Nil fields are not updated.
type UpdateFields struct {
	Name     *string
	LastName *string
	Address  *string
	IsActive *bool
	CareerID *uuid.UUID
	TeamID   *uuid.UUID
}

// IsEmpty reports whether the update carries no change at all.
func (f UpdateFields) IsEmpty() bool {
	return f.Name == nil &&
		f.LastName == nil &&
		f.Address == nil &&
		f.IsActive == nil &&
		f.CareerID == nil &&
		f.TeamID == nil
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Users []User
	Total int
	Page  int
	Limit int
}
