package caregiver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

const caregiverColumns = `id, document, full_name, gender, conventional_numbers, cellphone_numbers,
	canton, parish, zone_type, address, reference, patient_relationship, created_at, updated_at`

func scanCaregiver(row pgx.Row) (*Caregiver, error) {
	var c Caregiver
	err := row.Scan(
		&c.ID, &c.Document, &c.FullName, &c.Gender,
		&c.ConventionalNumbers, &c.CellphoneNumbers,
		&c.Canton, &c.Parish, &c.ZoneType, &c.Address, &c.Reference,
		&c.PatientRelationship, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new caregiver record.
func (r *PostgresRepository) Create(ctx context.Context, c *Caregiver) error {
	query := `
		INSERT INTO caregivers (document, full_name, gender, conventional_numbers, cellphone_numbers,
		                        canton, parish, zone_type, address, reference, patient_relationship)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.Document, c.FullName, c.Gender,
		c.ConventionalNumbers, c.CellphoneNumbers,
		c.Canton, c.Parish, c.ZoneType, c.Address, c.Reference, c.PatientRelationship,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateDocument
		}
		return fmt.Errorf("inserting caregiver: %w", err)
	}

	return nil
}

// GetByID retrieves a single caregiver by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Caregiver, error) {
	query := fmt.Sprintf(`SELECT %s FROM caregivers WHERE id = $1`, caregiverColumns)

	c, err := scanCaregiver(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying caregiver: %w", err)
	}

	return c, nil
}

// List retrieves a paginated list of caregivers ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context, page, limit int) (*ListResult, error) {
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM caregivers").Scan(&total); err != nil {
		return nil, fmt.Errorf("counting caregivers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM caregivers
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`, caregiverColumns)

	rows, err := r.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listing caregivers: %w", err)
	}
	defer rows.Close()

	var caregivers []Caregiver
	for rows.Next() {
		c, err := scanCaregiver(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning caregiver row: %w", err)
		}
		caregivers = append(caregivers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating caregiver rows: %w", err)
	}

	if caregivers == nil {
		caregivers = []Caregiver{}
	}

	return &ListResult{Caregivers: caregivers, Total: total, Page: page, Limit: limit}, nil
}

// Update modifies user-updatable fields on a caregiver record.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Caregiver, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if fields.FullName != nil {
		set("full_name", *fields.FullName)
	}
	if fields.ConventionalNumbers != nil {
		set("conventional_numbers", *fields.ConventionalNumbers)
	}
	if fields.CellphoneNumbers != nil {
		set("cellphone_numbers", *fields.CellphoneNumbers)
	}
	if fields.Canton != nil {
		set("canton", *fields.Canton)
	}
	if fields.Parish != nil {
		set("parish", *fields.Parish)
	}
	if fields.ZoneType != nil {
		set("zone_type", *fields.ZoneType)
	}
	if fields.Address != nil {
		set("address", *fields.Address)
	}
	if fields.Reference != nil {
		set("reference", *fields.Reference)
	}
	if fields.PatientRelationship != nil {
		set("patient_relationship", *fields.PatientRelationship)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE caregivers
		SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(setClauses, ", "), argIdx, caregiverColumns)
	args = append(args, id)

	c, err := scanCaregiver(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating caregiver: %w", err)
	}

	return c, nil
}

// Delete removes a caregiver by its UUID. Returns ErrHasPatient if a patient
// still references the caregiver (FK RESTRICT).
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM caregivers WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrHasPatient
		}
		return fmt.Errorf("deleting caregiver: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
