package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinadmin/clinadmin/internal/database"
)

// PostgresStore implements Store using pgxpool. Mutations run inside a pgx
// transaction; membership reads lock the patient rows (SELECT ... FOR UPDATE)
// so concurrent roster changes over the same patients serialize.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &PostgresStore{pool: pool}
}

// InTx runs fn inside a transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return database.WithTx(ctx, s.pool, func(ptx pgx.Tx) error {
		return fn(&postgresTx{tx: ptx})
	})
}

// querier is the query surface shared by the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetView loads a team with its ordered roster and user count.
func (s *PostgresStore) GetView(ctx context.Context, id uuid.UUID) (*View, error) {
	return queryView(ctx, s.pool, id)
}

func queryView(ctx context.Context, q querier, id uuid.UUID) (*View, error) {
	query := `
		SELECT t.id, t.name, t.group_id, t.created_at, t.updated_at,
		       (SELECT COUNT(*) FROM users u WHERE u.team_id = t.id)
		FROM teams t
		WHERE t.id = $1`

	var v View
	err := q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.GroupID, &v.CreatedAt, &v.UpdatedAt, &v.UserCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	memberQuery := `
		SELECT id, document, name, last_name
		FROM patients
		WHERE team_id = $1
		ORDER BY created_at ASC`

	rows, err := q.Query(ctx, memberQuery, id)
	if err != nil {
		return nil, fmt.Errorf("querying team members: %w", err)
	}
	defer rows.Close()

	v.Patients = []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Document, &m.Name, &m.LastName); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		v.Patients = append(v.Patients, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	v.PatientCount = len(v.Patients)
	return &v, nil
}

// List retrieves a paginated list of teams ordered by creation time, with
// patient and user counts computed per row.
func (s *PostgresStore) List(ctx context.Context, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM teams").Scan(&total); err != nil {
		return nil, fmt.Errorf("counting teams: %w", err)
	}

	query := `
		SELECT t.id, t.name, t.group_id, t.created_at, t.updated_at,
		       (SELECT COUNT(*) FROM patients p WHERE p.team_id = t.id),
		       (SELECT COUNT(*) FROM users u WHERE u.team_id = t.id)
		FROM teams t
		ORDER BY t.created_at ASC
		LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []Summary
	for rows.Next() {
		var sm Summary
		err := rows.Scan(
			&sm.ID, &sm.Name, &sm.GroupID, &sm.CreatedAt, &sm.UpdatedAt,
			&sm.PatientCount, &sm.UserCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	if teams == nil {
		teams = []Summary{}
	}

	return &ListResult{Teams: teams, Total: total, Page: page, Limit: limit}, nil
}

// postgresTx implements Tx over a pgx transaction.
type postgresTx struct {
	tx pgx.Tx
}

// TeamByID loads and locks a team row for the duration of the transaction.
func (t *postgresTx) TeamByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, name, group_id, created_at, updated_at
		FROM teams
		WHERE id = $1
		FOR UPDATE`

	var tm Team
	err := t.tx.QueryRow(ctx, query, id).Scan(&tm.ID, &tm.Name, &tm.GroupID, &tm.CreatedAt, &tm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &tm, nil
}

// InsertTeam creates a team row.
func (t *postgresTx) InsertTeam(ctx context.Context, tm *Team) error {
	query := `
		INSERT INTO teams (name, group_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := t.tx.QueryRow(ctx, query, tm.Name, tm.GroupID).Scan(&tm.ID, &tm.CreatedAt, &tm.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateName
		}
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// UpdateTeam writes a team's name and group reference.
func (t *postgresTx) UpdateTeam(ctx context.Context, tm *Team) error {
	query := `
		UPDATE teams
		SET name = $2, group_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := t.tx.QueryRow(ctx, query, tm.ID, tm.Name, tm.GroupID).Scan(&tm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateName
		}
		return fmt.Errorf("updating team: %w", err)
	}

	return nil
}

// DeleteTeam removes a team row.
func (t *postgresTx) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	result, err := t.tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GroupExists checks a group reference.
func (t *postgresTx) GroupExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking group: %w", err)
	}
	return ok, nil
}

// MembershipsForUpdate resolves the requested patients and locks their rows.
func (t *postgresTx) MembershipsForUpdate(ctx context.Context, patientIDs []uuid.UUID) ([]Membership, error) {
	if len(patientIDs) == 0 {
		return []Membership{}, nil
	}

	query := `
		SELECT p.id, p.team_id, COALESCE(tm.name, '')
		FROM patients p
		LEFT JOIN teams tm ON tm.id = p.team_id
		WHERE p.id = ANY($1)
		FOR UPDATE OF p`

	rows, err := t.tx.Query(ctx, query, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("locking patient rows: %w", err)
	}
	defer rows.Close()

	var memberships []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.PatientID, &m.TeamID, &m.TeamName); err != nil {
			return nil, fmt.Errorf("scanning membership row: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating membership rows: %w", err)
	}

	return memberships, nil
}

// ClearMembers clears the team reference of every patient on teamID except
// those listed in keep.
func (t *postgresTx) ClearMembers(ctx context.Context, teamID uuid.UUID, keep []uuid.UUID) error {
	var err error
	if len(keep) == 0 {
		_, err = t.tx.Exec(ctx,
			`UPDATE patients SET team_id = NULL, updated_at = NOW() WHERE team_id = $1`,
			teamID)
	} else {
		_, err = t.tx.Exec(ctx,
			`UPDATE patients SET team_id = NULL, updated_at = NOW() WHERE team_id = $1 AND NOT (id = ANY($2))`,
			teamID, keep)
	}
	if err != nil {
		return fmt.Errorf("clearing members: %w", err)
	}
	return nil
}

// GetView loads a team with its ordered roster as of this transaction's
// writes.
func (t *postgresTx) GetView(ctx context.Context, id uuid.UUID) (*View, error) {
	return queryView(ctx, t.tx, id)
}

// SetMembers points the given patients at teamID.
func (t *postgresTx) SetMembers(ctx context.Context, teamID uuid.UUID, patientIDs []uuid.UUID) error {
	if len(patientIDs) == 0 {
		return nil
	}

	_, err := t.tx.Exec(ctx,
		`UPDATE patients SET team_id = $1, updated_at = NOW() WHERE id = ANY($2)`,
		teamID, patientIDs)
	if err != nil {
		return fmt.Errorf("setting members: %w", err)
	}
	return nil
}
