package career

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a career record is not found.
var ErrNotFound = errors.New("career not found")

// ErrDuplicateName is returned when a career with the same name already exists.
var ErrDuplicateName = errors.New("career name already exists")

// Repository provides CRUD operations on the careers table.
type Repository interface {
	Create(ctx context.Context, c *Career) error
	GetByID(ctx context.Context, id uuid.UUID) (*Career, error)
	List(ctx context.Context, page, limit int) (*ListResult, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*Career, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
