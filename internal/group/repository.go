package group

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a group record is not found.
var ErrNotFound = errors.New("group not found")

// ErrDuplicateName is returned when a group with the same name already exists.
var ErrDuplicateName = errors.New("group name already exists")

// ErrHasTeams is returned when attempting to delete a group that still owns teams.
var ErrHasTeams = errors.New("group has teams")

// Repository provides CRUD operations on the groups table.
type Repository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	List(ctx context.Context, page, limit int) (*ListResult, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
