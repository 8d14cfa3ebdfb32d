package team

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// The roster engine keeps the membership invariant: a patient belongs to at
// most one team at any instant. All of it runs inside the caller's
// transaction, so a failed step leaves no partial assignment behind.

// validateGroup checks that a group reference resolves.
func validateGroup(ctx context.Context, tx Tx, groupID uuid.UUID) error {
	ok, err := tx.GroupExists(ctx, groupID)
	if err != nil {
		return fmt.Errorf("checking group: %w", err)
	}
	if !ok {
		return &NotFoundError{Entity: "group", IDs: []uuid.UUID{groupID}}
	}
	return nil
}

// validatePatients resolves and locks the requested patients, failing with a
// NotFoundError naming every identifier that did not resolve.
func validatePatients(ctx context.Context, tx Tx, patientIDs []uuid.UUID) ([]Membership, error) {
	memberships, err := tx.MembershipsForUpdate(ctx, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving patients: %w", err)
	}

	if len(memberships) != len(patientIDs) {
		found := make(map[uuid.UUID]bool, len(memberships))
		for _, m := range memberships {
			found[m.PatientID] = true
		}
		var missing []uuid.UUID
		for _, id := range patientIDs {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, &NotFoundError{Entity: "patient", IDs: missing}
	}

	return memberships, nil
}

// assignRoster replaces teamID's roster with exactly the requested patients.
//
// Patients already on another team are a conflict and fail the whole request;
// stealing must be an explicit release-then-assign by the caller. Once
// conflicts are excluded, the patients being cleared and the patients being
// assigned are disjoint row sets, so the two writes cannot reintroduce a
// double membership in either order.
func assignRoster(ctx context.Context, tx Tx, teamID uuid.UUID, patientIDs []uuid.UUID) error {
	requested := dedupe(patientIDs)

	memberships, err := validatePatients(ctx, tx, requested)
	if err != nil {
		return err
	}

	var conflicts []Conflict
	for _, m := range memberships {
		if m.TeamID != nil && *m.TeamID != teamID {
			conflicts = append(conflicts, Conflict{
				PatientID: m.PatientID,
				TeamID:    *m.TeamID,
				TeamName:  m.TeamName,
			})
		}
	}
	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}

	if err := tx.ClearMembers(ctx, teamID, requested); err != nil {
		return fmt.Errorf("clearing departing members: %w", err)
	}
	if err := tx.SetMembers(ctx, teamID, requested); err != nil {
		return fmt.Errorf("assigning members: %w", err)
	}

	return nil
}

// releaseRoster clears the team reference of every patient on teamID.
// Idempotent: releasing an empty or already-released team is a no-op.
func releaseRoster(ctx context.Context, tx Tx, teamID uuid.UUID) error {
	if err := tx.ClearMembers(ctx, teamID, nil); err != nil {
		return fmt.Errorf("releasing members: %w", err)
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
