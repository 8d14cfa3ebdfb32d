package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a patient record is not found.
var ErrNotFound = errors.New("patient not found")

// ErrDuplicateDocument is returned when a patient with the same document
// number already exists.
var ErrDuplicateDocument = errors.New("patient document already exists")

// ErrCaregiverNotFound is returned when the referenced caregiver does not exist.
var ErrCaregiverNotFound = errors.New("caregiver not found")

// Repository provides CRUD operations on the patients table.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, page, limit int) (*ListResult, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
