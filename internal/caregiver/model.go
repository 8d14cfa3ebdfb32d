package caregiver

import (
	"time"

	"github.com/google/uuid"
)

// Caregiver represents a row in the caregivers table. Every patient is
// registered together with the caregiver responsible for them at home.
type Caregiver struct {
	ID                  uuid.UUID
	Document            string
	FullName            string
	Gender              string // "male" or "female"
	ConventionalNumbers []string
	CellphoneNumbers    []string
	Canton              string
	Parish              string
	ZoneType            string
	Address             string
	Reference           string
	PatientRelationship string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UpdateFields holds user-updatable fields on a caregiver record.
// Nil fields are not updated.
type UpdateFields struct {
	FullName            *string
	ConventionalNumbers *[]string
	CellphoneNumbers    *[]string
	Canton              *string
	Parish              *string
	ZoneType            *string
	Address             *string
	Reference           *string
	PatientRelationship *string
}

// IsEmpty reports whether the update carries no change at all.
func (f UpdateFields) IsEmpty() bool {
	return f.FullName == nil &&
		f.ConventionalNumbers == nil &&
		f.CellphoneNumbers == nil &&
		f.Canton == nil &&
		f.Parish == nil &&
		f.ZoneType == nil &&
		f.Address == nil &&
		f.Reference == nil &&
		f.PatientRelationship == nil
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Caregivers []Caregiver
	Total      int
	Page       int
	Limit      int
}
