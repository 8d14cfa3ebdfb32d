package caregiver

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a caregiver record is not found.
var ErrNotFound = errors.New("caregiver not found")

// ErrDuplicateDocument is returned when a caregiver with the same document
// number already exists.
var ErrDuplicateDocument = errors.New("caregiver document already exists")

// ErrHasPatient is returned when attempting to delete a caregiver that is
// still assigned to a patient.
var ErrHasPatient = errors.New("caregiver has a patient")

// Repository provides CRUD operations on the caregivers table.
type Repository interface {
	Create(ctx context.Context, c *Caregiver) error
	GetByID(ctx context.Context, id uuid.UUID) (*Caregiver, error)
	List(ctx context.Context, page, limit int) (*ListResult, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Caregiver, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
