package team

import (
	"context"

	"github.com/google/uuid"
)

// Service is the team lifecycle surface. Every mutation runs its validation,
// roster reconciliation and row writes inside one store transaction, so a
// rejected roster can never leave a half-assigned team behind.
type Service struct {
	store Store
}

// NewService creates a new team Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateParams holds the fields required to create a team.
type CreateParams struct {
	Name       string
	GroupID    uuid.UUID
	PatientIDs []uuid.UUID
}

// Create validates the group and initial roster, inserts the team and assigns
// its members. A roster conflict aborts the transaction, so the team row is
// never committed in a conflicting state. The returned view is read inside the
// same transaction, so it reflects exactly what was committed.
func (s *Service) Create(ctx context.Context, params CreateParams) (*View, error) {
	var v *View
	err := s.store.InTx(ctx, func(tx Tx) error {
		if err := validateGroup(ctx, tx, params.GroupID); err != nil {
			return err
		}

		t := &Team{Name: params.Name, GroupID: params.GroupID}
		if err := tx.InsertTeam(ctx, t); err != nil {
			return err
		}
		if err := assignRoster(ctx, tx, t.ID, params.PatientIDs); err != nil {
			return err
		}

		view, err := tx.GetView(ctx, t.ID)
		if err != nil {
			return err
		}
		v = view
		return nil
	})
	if err != nil {
		return nil, err
	}

	return v, nil
}

// Update applies the requested changes to a team. A nil PatientIDs leaves the
// roster unchanged; a non-nil empty slice clears it. An update with no fields
// at all fails with ErrEmptyUpdate.
func (s *Service) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*View, error) {
	if fields.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	var v *View
	err := s.store.InTx(ctx, func(tx Tx) error {
		t, err := tx.TeamByID(ctx, id)
		if err != nil {
			return err
		}

		if fields.GroupID != nil {
			if err := validateGroup(ctx, tx, *fields.GroupID); err != nil {
				return err
			}
			t.GroupID = *fields.GroupID
		}
		if fields.Name != nil {
			t.Name = *fields.Name
		}
		if err := tx.UpdateTeam(ctx, t); err != nil {
			return err
		}

		if fields.PatientIDs != nil {
			if err := assignRoster(ctx, tx, t.ID, *fields.PatientIDs); err != nil {
				return err
			}
		}

		v, err = tx.GetView(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return v, nil
}

// Remove releases every member patient and then deletes the team, in that
// order, so no patient is ever left pointing at a team that no longer
// resolves.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.TeamByID(ctx, id); err != nil {
			return err
		}
		if err := releaseRoster(ctx, tx, id); err != nil {
			return err
		}
		return tx.DeleteTeam(ctx, id)
	})
}

// GetByID returns a team with its populated roster.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*View, error) {
	return s.store.GetView(ctx, id)
}

// List returns a page of teams with roster counts derived at read time.
func (s *Service) List(ctx context.Context, page, limit int) (*ListResult, error) {
	return s.store.List(ctx, page, limit)
}
