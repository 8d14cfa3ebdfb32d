package team

import (
	"context"

	"github.com/google/uuid"
)

// Membership is a patient's current assignment as read inside a transaction.
// TeamName is populated when TeamID is set.
type Membership struct {
	PatientID uuid.UUID
	TeamID    *uuid.UUID
	TeamName  string
}

// Tx exposes the row operations the roster engine performs inside a single
// transaction. Implementations must guarantee that membership reads lock the
// patient rows they return, so two concurrent assignments over overlapping
// patients serialize instead of both winning.
type Tx interface {
	// TeamByID loads and locks a team row. Returns ErrNotFound.
	TeamByID(ctx context.Context, id uuid.UUID) (*Team, error)
	// InsertTeam creates a team row. Returns ErrDuplicateName.
	InsertTeam(ctx context.Context, t *Team) error
	// UpdateTeam writes a team's name and group reference.
	UpdateTeam(ctx context.Context, t *Team) error
	// DeleteTeam removes a team row. Returns ErrNotFound.
	DeleteTeam(ctx context.Context, id uuid.UUID) error

	// GroupExists checks a group reference.
	GroupExists(ctx context.Context, id uuid.UUID) (bool, error)

	// MembershipsForUpdate resolves and locks the given patients, reporting
	// each one's current team. Patients that do not exist are simply absent
	// from the result.
	MembershipsForUpdate(ctx context.Context, patientIDs []uuid.UUID) ([]Membership, error)
	// ClearMembers clears the team reference of every patient belonging to
	// teamID except those listed in keep.
	ClearMembers(ctx context.Context, teamID uuid.UUID, keep []uuid.UUID) error
	// SetMembers points the given patients at teamID.
	SetMembers(ctx context.Context, teamID uuid.UUID, patientIDs []uuid.UUID) error

	// GetView loads a team with its ordered roster, including the writes made
	// earlier in this transaction. Returns ErrNotFound.
	GetView(ctx context.Context, id uuid.UUID) (*View, error)
}

// Store is the entity store the team service runs against. Mutations go
// through InTx; fn's error aborts the transaction and is returned unchanged.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// GetView loads a team with its ordered roster. Returns ErrNotFound.
	GetView(ctx context.Context, id uuid.UUID) (*View, error)
	// List returns a page of teams ordered by creation time, with roster
	// counts computed at read time.
	List(ctx context.Context, page, limit int) (*ListResult, error)
}
