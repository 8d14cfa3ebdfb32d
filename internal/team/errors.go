package team

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a team record is not found.
var ErrNotFound = errors.New("team not found")

// ErrDuplicateName is returned when a team with the same name already exists.
var ErrDuplicateName = errors.New("team name already exists")

// ErrEmptyUpdate is returned when an update carries no change at all.
var ErrEmptyUpdate = errors.New("nothing to update")

// NotFoundError reports referenced entities that did not resolve. When it is
// returned, no part of the requested mutation has been applied.
type NotFoundError struct {
	Entity string
	IDs    []uuid.UUID
}

func (e *NotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, strings.Join(ids, ", "))
}

// Conflict names a requested patient that already belongs to another team.
type Conflict struct {
	PatientID uuid.UUID `json:"patientId"`
	TeamID    uuid.UUID `json:"teamId"`
	TeamName  string    `json:"teamName"`
}

// ConflictError rejects a roster request that would steal patients from other
// teams. Cross-team moves must be an explicit release-then-assign sequence;
// when this error is returned none of the requested assignments were applied.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = fmt.Sprintf("patient %s belongs to team %q (%s)", c.PatientID, c.TeamName, c.TeamID)
	}
	return "roster conflict: " + strings.Join(parts, "; ")
}
