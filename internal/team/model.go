package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table. A team belongs to exactly one
// group and claims a roster of patients plus a set of staff users.
type Team struct {
	ID        uuid.UUID
	Name      string
	GroupID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member is the patient summary carried by a team view.
type Member struct {
	ID       uuid.UUID
	Document string
	Name     string
	LastName string
}

// View is a team with its populated roster. Patients is always non-nil so
// callers see a uniform shape regardless of roster size.
type View struct {
	Team
	Patients     []Member
	PatientCount int
	UserCount    int
}

// Summary is a team annotated with roster counts for list responses. Counts
// are computed at read time, never stored.
type Summary struct {
	Team
	PatientCount int
	UserCount    int
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Teams []Summary
	Total int
	Page  int
	Limit int
}

// UpdateFields holds the changes requested for a team.
//
// A nil PatientIDs leaves the roster untouched; a non-nil empty slice clears
// it. The distinction is load-bearing and must survive the API boundary.
type UpdateFields struct {
	Name       *string
	GroupID    *uuid.UUID
	PatientIDs *[]uuid.UUID
}

// IsEmpty reports whether the update carries no change at all.
func (f UpdateFields) IsEmpty() bool {
	return f.Name == nil && f.GroupID == nil && f.PatientIDs == nil
}
