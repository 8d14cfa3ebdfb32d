package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user record is not found.
var ErrNotFound = errors.New("user not found")

// ErrDuplicate is returned when a user with the same document or email
// already exists.
var ErrDuplicate = errors.New("user document or email already exists")

// Repository provides CRUD operations on the users table.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context, page, limit int) (*ListResult, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
