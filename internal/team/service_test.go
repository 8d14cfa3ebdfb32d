package team_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinadmin/clinadmin/internal/team"
)

// --- Fake Store ---
//
// fakeStore keeps teams, patients and users in maps and implements the same
// transaction contract as the postgres store: the mutation callback runs
// against live state, and any error restores the pre-transaction snapshot.

type fakePatient struct {
	id       uuid.UUID
	document string
	name     string
	lastName string
	teamID   *uuid.UUID
	order    int
}

type fakeStore struct {
	teams    map[uuid.UUID]*team.Team
	groups   map[uuid.UUID]bool
	patients map[uuid.UUID]*fakePatient
	userTeam map[uuid.UUID]uuid.UUID // user id -> team id
	seq      int
	viewErr  error // when set, fails reads outside a transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		teams:    make(map[uuid.UUID]*team.Team),
		groups:   make(map[uuid.UUID]bool),
		patients: make(map[uuid.UUID]*fakePatient),
		userTeam: make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *fakeStore) addGroup() uuid.UUID {
	id := uuid.New()
	s.groups[id] = true
	return id
}

func (s *fakeStore) addPatient(name string) uuid.UUID {
	s.seq++
	id := uuid.New()
	s.patients[id] = &fakePatient{
		id:       id,
		document: fmt.Sprintf("doc-%03d", s.seq),
		name:     name,
		lastName: "Test",
		order:    s.seq,
	}
	return id
}

func (s *fakeStore) addUser(teamID uuid.UUID) uuid.UUID {
	id := uuid.New()
	s.userTeam[id] = teamID
	return id
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	cp.seq = s.seq
	for id, t := range s.teams {
		tc := *t
		cp.teams[id] = &tc
	}
	for id := range s.groups {
		cp.groups[id] = true
	}
	for id, p := range s.patients {
		pc := *p
		if p.teamID != nil {
			tid := *p.teamID
			pc.teamID = &tid
		}
		cp.patients[id] = &pc
	}
	for id, tid := range s.userTeam {
		cp.userTeam[id] = tid
	}
	return cp
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.teams = snap.teams
	s.groups = snap.groups
	s.patients = snap.patients
	s.userTeam = snap.userTeam
	s.seq = snap.seq
}

func (s *fakeStore) InTx(_ context.Context, fn func(tx team.Tx) error) error {
	snap := s.snapshot()
	if err := fn(&fakeTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *fakeStore) members(teamID uuid.UUID) []team.Member {
	byOrder := make([]*fakePatient, 0)
	for _, p := range s.patients {
		if p.teamID != nil && *p.teamID == teamID {
			byOrder = append(byOrder, p)
		}
	}
	for i := 0; i < len(byOrder); i++ {
		for j := i + 1; j < len(byOrder); j++ {
			if byOrder[j].order < byOrder[i].order {
				byOrder[i], byOrder[j] = byOrder[j], byOrder[i]
			}
		}
	}
	out := make([]team.Member, 0, len(byOrder))
	for _, p := range byOrder {
		out = append(out, team.Member{ID: p.id, Document: p.document, Name: p.name, LastName: p.lastName})
	}
	return out
}

func (s *fakeStore) userCount(teamID uuid.UUID) int {
	n := 0
	for _, tid := range s.userTeam {
		if tid == teamID {
			n++
		}
	}
	return n
}

func (s *fakeStore) view(id uuid.UUID) (*team.View, error) {
	t, ok := s.teams[id]
	if !ok {
		return nil, team.ErrNotFound
	}
	members := s.members(id)
	return &team.View{
		Team:         *t,
		Patients:     members,
		PatientCount: len(members),
		UserCount:    s.userCount(id),
	}, nil
}

func (s *fakeStore) GetView(_ context.Context, id uuid.UUID) (*team.View, error) {
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	return s.view(id)
}

func (s *fakeStore) List(_ context.Context, page, limit int) (*team.ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	ordered := make([]*team.Team, 0, len(s.teams))
	for _, t := range s.teams {
		ordered = append(ordered, t)
	}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].CreatedAt.Before(ordered[i].CreatedAt) {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}

	start := (page - 1) * limit
	if start > len(ordered) {
		start = len(ordered)
	}
	end := start + limit
	if end > len(ordered) {
		end = len(ordered)
	}

	teams := make([]team.Summary, 0, end-start)
	for _, t := range ordered[start:end] {
		teams = append(teams, team.Summary{
			Team:         *t,
			PatientCount: len(s.members(t.ID)),
			UserCount:    s.userCount(t.ID),
		})
	}

	return &team.ListResult{Teams: teams, Total: len(ordered), Page: page, Limit: limit}, nil
}

type fakeTx struct {
	s *fakeStore
}

func (tx *fakeTx) TeamByID(_ context.Context, id uuid.UUID) (*team.Team, error) {
	t, ok := tx.s.teams[id]
	if !ok {
		return nil, team.ErrNotFound
	}
	tc := *t
	return &tc, nil
}

func (tx *fakeTx) InsertTeam(_ context.Context, t *team.Team) error {
	for _, existing := range tx.s.teams {
		if existing.Name == t.Name {
			return team.ErrDuplicateName
		}
	}
	tx.s.seq++
	t.ID = uuid.New()
	t.CreatedAt = time.Unix(int64(tx.s.seq), 0)
	t.UpdatedAt = t.CreatedAt
	tc := *t
	tx.s.teams[t.ID] = &tc
	return nil
}

func (tx *fakeTx) UpdateTeam(_ context.Context, t *team.Team) error {
	existing, ok := tx.s.teams[t.ID]
	if !ok {
		return team.ErrNotFound
	}
	for id, other := range tx.s.teams {
		if id != t.ID && other.Name == t.Name {
			return team.ErrDuplicateName
		}
	}
	existing.Name = t.Name
	existing.GroupID = t.GroupID
	return nil
}

func (tx *fakeTx) DeleteTeam(_ context.Context, id uuid.UUID) error {
	if _, ok := tx.s.teams[id]; !ok {
		return team.ErrNotFound
	}
	delete(tx.s.teams, id)
	return nil
}

func (tx *fakeTx) GroupExists(_ context.Context, id uuid.UUID) (bool, error) {
	return tx.s.groups[id], nil
}

func (tx *fakeTx) MembershipsForUpdate(_ context.Context, patientIDs []uuid.UUID) ([]team.Membership, error) {
	memberships := make([]team.Membership, 0, len(patientIDs))
	for _, id := range patientIDs {
		p, ok := tx.s.patients[id]
		if !ok {
			continue
		}
		m := team.Membership{PatientID: id}
		if p.teamID != nil {
			tid := *p.teamID
			m.TeamID = &tid
			if t, ok := tx.s.teams[tid]; ok {
				m.TeamName = t.Name
			}
		}
		memberships = append(memberships, m)
	}
	return memberships, nil
}

func (tx *fakeTx) ClearMembers(_ context.Context, teamID uuid.UUID, keep []uuid.UUID) error {
	keepSet := make(map[uuid.UUID]bool, len(keep))
	for _, id := range keep {
		keepSet[id] = true
	}
	for _, p := range tx.s.patients {
		if p.teamID != nil && *p.teamID == teamID && !keepSet[p.id] {
			p.teamID = nil
		}
	}
	return nil
}

func (tx *fakeTx) SetMembers(_ context.Context, teamID uuid.UUID, patientIDs []uuid.UUID) error {
	for _, id := range patientIDs {
		tid := teamID
		tx.s.patients[id].teamID = &tid
	}
	return nil
}

func (tx *fakeTx) GetView(_ context.Context, id uuid.UUID) (*team.View, error) {
	return tx.s.view(id)
}

// requireInvariant asserts that every patient's team reference resolves to an
// existing team. Single-valuedness is structural (one field per patient), so
// a dangling reference is the only way the membership invariant can break.
func requireInvariant(t *testing.T, s *fakeStore) {
	t.Helper()
	for _, p := range s.patients {
		if p.teamID != nil {
			_, ok := s.teams[*p.teamID]
			require.True(t, ok, "patient %s references missing team %s", p.id, *p.teamID)
		}
	}
}

func memberIDs(v *team.View) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(v.Patients))
	for _, m := range v.Patients {
		out = append(out, m.ID)
	}
	return out
}

// --- Create ---

func TestCreate_WithValidRoster(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	groupID := store.addGroup()
	p1 := store.addPatient("Ana")
	p2 := store.addPatient("Luis")

	v, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: groupID, PatientIDs: []uuid.UUID{p1, p2}})
	require.NoError(t, err)

	assert.Equal(t, "Team A", v.Name)
	assert.Equal(t, groupID, v.GroupID)
	assert.ElementsMatch(t, []uuid.UUID{p1, p2}, memberIDs(v))
	assert.Equal(t, 2, v.PatientCount)

	require.NotNil(t, store.patients[p1].teamID)
	require.NotNil(t, store.patients[p2].teamID)
	assert.Equal(t, v.ID, *store.patients[p1].teamID)
	assert.Equal(t, v.ID, *store.patients[p2].teamID)
	requireInvariant(t, store)
}

func TestCreate_EmptyRoster(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)

	v, err := svc.Create(context.Background(), team.CreateParams{Name: "Team A", GroupID: store.addGroup()})
	require.NoError(t, err)

	assert.NotNil(t, v.Patients)
	assert.Empty(t, v.Patients)
	assert.Equal(t, 0, v.PatientCount)
}

func TestCreate_DuplicatePatientIDsCollapse(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)

	p1 := store.addPatient("Ana")
	v, err := svc.Create(context.Background(), team.CreateParams{
		Name:       "Team A",
		GroupID:    store.addGroup(),
		PatientIDs: []uuid.UUID{p1, p1, p1},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p1}, memberIDs(v))
}

func TestCreate_GroupNotFound(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)

	missing := uuid.New()
	_, err := svc.Create(context.Background(), team.CreateParams{Name: "Team A", GroupID: missing})

	var nf *team.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "group", nf.Entity)
	assert.Equal(t, []uuid.UUID{missing}, nf.IDs)
	assert.Empty(t, store.teams)
}

func TestCreate_MissingPatientsNamed(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)

	p1 := store.addPatient("Ana")
	missing1 := uuid.New()
	missing2 := uuid.New()

	_, err := svc.Create(context.Background(), team.CreateParams{
		Name:       "Team A",
		GroupID:    store.addGroup(),
		PatientIDs: []uuid.UUID{p1, missing1, missing2},
	})

	var nf *team.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "patient", nf.Entity)
	assert.ElementsMatch(t, []uuid.UUID{missing1, missing2}, nf.IDs)

	// Nothing was applied: the team row rolled back and p1 stayed free.
	assert.Empty(t, store.teams)
	assert.Nil(t, store.patients[p1].teamID)
}

func TestCreate_ConflictingRosterRollsBack(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	groupID := store.addGroup()
	p1 := store.addPatient("Ana")
	p2 := store.addPatient("Luis")

	teamB, err := svc.Create(ctx, team.CreateParams{Name: "Team B", GroupID: groupID, PatientIDs: []uuid.UUID{p2}})
	require.NoError(t, err)

	_, err = svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: groupID, PatientIDs: []uuid.UUID{p1, p2}})

	var conflict *team.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, p2, conflict.Conflicts[0].PatientID)
	assert.Equal(t, teamB.ID, conflict.Conflicts[0].TeamID)
	assert.Equal(t, "Team B", conflict.Conflicts[0].TeamName)

	// All-or-nothing: Team A does not exist, p1 stayed free, p2 stayed on B.
	require.Len(t, store.teams, 1)
	assert.Nil(t, store.patients[p1].teamID)
	assert.Equal(t, teamB.ID, *store.patients[p2].teamID)
	requireInvariant(t, store)
}

func TestCreate_DuplicateName(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()
	groupID := store.addGroup()

	_, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: groupID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: groupID})
	assert.ErrorIs(t, err, team.ErrDuplicateName)
}

// Create and Update read the returned view inside the write transaction, so a
// remove landing right after the commit cannot turn a successful mutation into
// ErrNotFound for its caller.
func TestMutations_ViewReadInsideTransaction(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	groupID := store.addGroup()
	p1 := store.addPatient("Ana")
	store.viewErr = fmt.Errorf("read outside transaction")

	v, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: groupID, PatientIDs: []uuid.UUID{p1}})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p1}, memberIDs(v))

	name := "Team A2"
	updated, err := svc.Update(ctx, v.ID, team.UpdateFields{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Team A2", updated.Name)
	assert.Equal(t, []uuid.UUID{p1}, memberIDs(updated))
}

// --- Update ---

func TestUpdate_EmptyPayload(t *testing.T) {
	svc := team.NewService(newFakeStore())

	_, err := svc.Update(context.Background(), uuid.New(), team.UpdateFields{})
	assert.ErrorIs(t, err, team.ErrEmptyUpdate)
}

func TestUpdate_TeamNotFound(t *testing.T) {
	svc := team.NewService(newFakeStore())

	name := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New(), team.UpdateFields{Name: &name})
	assert.ErrorIs(t, err, team.ErrNotFound)
}

func TestUpdate_RosterShrink(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	p1 := store.addPatient("Ana")
	p2 := store.addPatient("Luis")
	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup(), PatientIDs: []uuid.UUID{p1, p2}})
	require.NoError(t, err)

	roster := []uuid.UUID{p1}
	v, err := svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &roster})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{p1}, memberIDs(v))
	assert.Nil(t, store.patients[p2].teamID)
	assert.Equal(t, teamA.ID, *store.patients[p1].teamID)
	requireInvariant(t, store)
}

func TestUpdate_OmittedRosterLeavesMembersAlone(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	p1 := store.addPatient("Ana")
	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup(), PatientIDs: []uuid.UUID{p1}})
	require.NoError(t, err)

	name := "Team A renamed"
	v, err := svc.Update(ctx, teamA.ID, team.UpdateFields{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Team A renamed", v.Name)
	assert.Equal(t, []uuid.UUID{p1}, memberIDs(v))
}

func TestUpdate_EmptyRosterClears(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	p1 := store.addPatient("Ana")
	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup(), PatientIDs: []uuid.UUID{p1}})
	require.NoError(t, err)

	empty := []uuid.UUID{}
	v, err := svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &empty})
	require.NoError(t, err)

	assert.Empty(t, v.Patients)
	assert.Nil(t, store.patients[p1].teamID)
}

func TestUpdate_UnassignReassignRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	p1 := store.addPatient("Ana")
	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup(), PatientIDs: []uuid.UUID{p1}})
	require.NoError(t, err)

	empty := []uuid.UUID{}
	_, err = svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &empty})
	require.NoError(t, err)
	require.Nil(t, store.patients[p1].teamID)

	roster := []uuid.UUID{p1}
	v, err := svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &roster})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{p1}, memberIDs(v))
	assert.Equal(t, teamA.ID, *store.patients[p1].teamID)
	requireInvariant(t, store)
}

func TestUpdate_NoOpReassignKeepsRoster(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	p1 := store.addPatient("Ana")
	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup(), PatientIDs: []uuid.UUID{p1}})
	require.NoError(t, err)

	roster := []uuid.UUID{p1}
	v, err := svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &roster})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{p1}, memberIDs(v))
	assert.Equal(t, teamA.ID, *store.patients[p1].teamID)
}

func TestUpdate_ConflictAppliesNothing(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()
	groupID := store.addGroup()

	p1 := store.addPatient("Ana")
	p2 := store.addPatient("Luis")
	p3 := store.addPatient("Marta")

	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: groupID, PatientIDs: []uuid.UUID{p1}})
	require.NoError(t, err)
	teamB, err := svc.Create(ctx, team.CreateParams{Name: "Team B", GroupID: groupID, PatientIDs: []uuid.UUID{p3}})
	require.NoError(t, err)

	// p2 is free, p3 belongs to Team B: the whole request must fail and p2
	// must not be assigned as a side effect.
	roster := []uuid.UUID{p2, p3}
	_, err = svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &roster})

	var conflict *team.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, p3, conflict.Conflicts[0].PatientID)
	assert.Equal(t, teamB.ID, conflict.Conflicts[0].TeamID)

	assert.Nil(t, store.patients[p2].teamID)
	assert.Equal(t, teamA.ID, *store.patients[p1].teamID, "existing roster must survive the failed update")
	assert.Equal(t, teamB.ID, *store.patients[p3].teamID)
	requireInvariant(t, store)
}

func TestUpdate_ExplicitTwoStepMove(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()
	groupID := store.addGroup()

	p1 := store.addPatient("Ana")
	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: groupID, PatientIDs: []uuid.UUID{p1}})
	require.NoError(t, err)
	teamB, err := svc.Create(ctx, team.CreateParams{Name: "Team B", GroupID: groupID})
	require.NoError(t, err)

	// Direct steal is rejected.
	roster := []uuid.UUID{p1}
	_, err = svc.Update(ctx, teamB.ID, team.UpdateFields{PatientIDs: &roster})
	var conflict *team.ConflictError
	require.ErrorAs(t, err, &conflict)

	// Release from A, then assign to B.
	empty := []uuid.UUID{}
	_, err = svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &empty})
	require.NoError(t, err)

	v, err := svc.Update(ctx, teamB.ID, team.UpdateFields{PatientIDs: &roster})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p1}, memberIDs(v))
	assert.Equal(t, teamB.ID, *store.patients[p1].teamID)
	requireInvariant(t, store)
}

func TestUpdate_SwapGroupValidated(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup()})
	require.NoError(t, err)

	missing := uuid.New()
	_, err = svc.Update(ctx, teamA.ID, team.UpdateFields{GroupID: &missing})
	var nf *team.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "group", nf.Entity)

	newGroup := store.addGroup()
	v, err := svc.Update(ctx, teamA.ID, team.UpdateFields{GroupID: &newGroup})
	require.NoError(t, err)
	assert.Equal(t, newGroup, v.GroupID)
}

// --- Remove ---

func TestRemove_ReleasesMembersThenDeletes(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	p1 := store.addPatient("Ana")
	p2 := store.addPatient("Luis")
	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup(), PatientIDs: []uuid.UUID{p1, p2}})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, teamA.ID))

	assert.Nil(t, store.patients[p1].teamID)
	assert.Nil(t, store.patients[p2].teamID)

	_, err = svc.GetByID(ctx, teamA.ID)
	assert.ErrorIs(t, err, team.ErrNotFound)
	requireInvariant(t, store)
}

func TestRemove_NotFound(t *testing.T) {
	svc := team.NewService(newFakeStore())
	err := svc.Remove(context.Background(), uuid.New())
	assert.ErrorIs(t, err, team.ErrNotFound)
}

func TestRemove_EmptyTeam(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup()})
	require.NoError(t, err)

	assert.NoError(t, svc.Remove(ctx, teamA.ID))
}

func TestRelease_Idempotent(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	p1 := store.addPatient("Ana")
	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup(), PatientIDs: []uuid.UUID{p1}})
	require.NoError(t, err)

	empty := []uuid.UUID{}
	_, err = svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &empty})
	require.NoError(t, err)

	// Clearing an already-empty roster succeeds and changes nothing.
	v, err := svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, v.Patients)
	assert.Nil(t, store.patients[p1].teamID)
}

// --- Queries ---

func TestGetByID_NotFound(t *testing.T) {
	svc := team.NewService(newFakeStore())
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, team.ErrNotFound)
}

func TestList_DerivedCounts(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()
	groupID := store.addGroup()

	p1 := store.addPatient("Ana")
	p2 := store.addPatient("Luis")
	p3 := store.addPatient("Marta")

	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: groupID, PatientIDs: []uuid.UUID{p1, p2, p3}})
	require.NoError(t, err)
	teamB, err := svc.Create(ctx, team.CreateParams{Name: "Team B", GroupID: groupID})
	require.NoError(t, err)

	store.addUser(teamA.ID)

	result, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Teams, 2)
	assert.Equal(t, 2, result.Total)

	assert.Equal(t, teamA.ID, result.Teams[0].ID)
	assert.Equal(t, 3, result.Teams[0].PatientCount)
	assert.Equal(t, 1, result.Teams[0].UserCount)

	assert.Equal(t, teamB.ID, result.Teams[1].ID)
	assert.Equal(t, 0, result.Teams[1].PatientCount)
	assert.Equal(t, 0, result.Teams[1].UserCount)
}

func TestList_CountsNotStale(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()

	p1 := store.addPatient("Ana")
	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: store.addGroup(), PatientIDs: []uuid.UUID{p1}})
	require.NoError(t, err)

	empty := []uuid.UUID{}
	_, err = svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &empty})
	require.NoError(t, err)

	result, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Teams, 1)
	assert.Equal(t, 0, result.Teams[0].PatientCount, "count must reflect the shrunk roster")
}

// --- Invariant over a whole lifecycle ---

func TestLifecycle_InvariantHeldAfterEveryStep(t *testing.T) {
	store := newFakeStore()
	svc := team.NewService(store)
	ctx := context.Background()
	groupID := store.addGroup()

	p1 := store.addPatient("Ana")
	p2 := store.addPatient("Luis")
	p3 := store.addPatient("Marta")

	teamA, err := svc.Create(ctx, team.CreateParams{Name: "Team A", GroupID: groupID, PatientIDs: []uuid.UUID{p1, p2}})
	require.NoError(t, err)
	requireInvariant(t, store)

	teamB, err := svc.Create(ctx, team.CreateParams{Name: "Team B", GroupID: groupID, PatientIDs: []uuid.UUID{p3}})
	require.NoError(t, err)
	requireInvariant(t, store)

	// Attempted steal fails, state untouched.
	roster := []uuid.UUID{p1, p3}
	_, err = svc.Update(ctx, teamB.ID, team.UpdateFields{PatientIDs: &roster})
	require.Error(t, err)
	requireInvariant(t, store)

	shrunk := []uuid.UUID{p2}
	_, err = svc.Update(ctx, teamA.ID, team.UpdateFields{PatientIDs: &shrunk})
	require.NoError(t, err)
	requireInvariant(t, store)

	grown := []uuid.UUID{p1, p3}
	_, err = svc.Update(ctx, teamB.ID, team.UpdateFields{PatientIDs: &grown})
	require.NoError(t, err)
	requireInvariant(t, store)

	require.NoError(t, svc.Remove(ctx, teamA.ID))
	requireInvariant(t, store)
	require.NoError(t, svc.Remove(ctx, teamB.ID))
	requireInvariant(t, store)

	for _, id := range []uuid.UUID{p1, p2, p3} {
		assert.Nil(t, store.patients[id].teamID)
	}
}

// The conflict error message names every offender; useful when the caller
// logs it verbatim.
func TestConflictError_Message(t *testing.T) {
	patientID := uuid.New()
	teamID := uuid.New()
	err := &team.ConflictError{Conflicts: []team.Conflict{{PatientID: patientID, TeamID: teamID, TeamName: "Team B"}}}

	msg := err.Error()
	assert.Contains(t, msg, patientID.String())
	assert.Contains(t, msg, "Team B")
}

func TestNotFoundError_Message(t *testing.T) {
	id := uuid.New()
	err := &team.NotFoundError{Entity: "patient", IDs: []uuid.UUID{id}}
	assert.Contains(t, err.Error(), "patient not found")
	assert.Contains(t, err.Error(), id.String())
}
