package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a row in the patients table.
//
// TeamID is the membership back-reference: a patient belongs to at most one
// team at a time. The field is read-only through the patient API; it
// transitions exclusively through team lifecycle operations.
type Patient struct {
	ID                   uuid.UUID
	Document             string
	Name                 string
	LastName             string
	Gender               string // "male" or "female"
	Birthday             time.Time
	TypeBeneficiary      string
	TypeDisability       string
	PercentageDisability int
	Zone                 string
	IsActive             bool
	CaregiverID          uuid.UUID
	TeamID               *uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// UpdateFields holds user-updatable fields on a patient record.
// Nil fields are not updated. The team reference is deliberately absent.
type UpdateFields struct {
	Name                 *string
	LastName             *string
	TypeBeneficiary      *string
	TypeDisability       *string
	PercentageDisability *int
	Zone                 *string
	IsActive             *bool
	CaregiverID          *uuid.UUID
}

// IsEmpty reports whether the update carries no change at all.
func (f UpdateFields) IsEmpty() bool {
	return f.Name == nil &&
		f.LastName == nil &&
		f.TypeBeneficiary == nil &&
		f.TypeDisability == nil &&
		f.PercentageDisability == nil &&
		f.Zone == nil &&
		f.IsActive == nil &&
		f.CaregiverID == nil
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Patients []Patient
	Total    int
	Page     int
	Limit    int
}
