package patient

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

const patientColumns = `id, document, name, last_name, gender, birthday, type_beneficiary,
	type_disability, percentage_disability, zone, is_active, caregiver_id, team_id,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.Document, &p.Name, &p.LastName, &p.Gender, &p.Birthday,
		&p.TypeBeneficiary, &p.TypeDisability, &p.PercentageDisability,
		&p.Zone, &p.IsActive, &p.CaregiverID, &p.TeamID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new patient record. The team reference always starts empty.
func (r *PostgresRepository) Create(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patients (document, name, last_name, gender, birthday, type_beneficiary,
		                      type_disability, percentage_disability, zone, is_active, caregiver_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.Document, p.Name, p.LastName, p.Gender, p.Birthday,
		p.TypeBeneficiary, p.TypeDisability, p.PercentageDisability,
		p.Zone, p.IsActive, p.CaregiverID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateDocument
			case "23503":
				return ErrCaregiverNotFound
			}
		}
		return fmt.Errorf("inserting patient: %w", err)
	}

	p.TeamID = nil
	return nil
}

// GetByID retrieves a single patient by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE id = $1`, patientColumns)

	p, err := scanPatient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying patient: %w", err)
	}

	return p, nil
}

// List retrieves a paginated list of patients ordered by creation time.
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM patients").Scan(&total); err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM patients
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`, patientColumns)

	rows, err := r.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning patient row: %w", err)
		}
		patients = append(patients, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating patient rows: %w", err)
	}

	if patients == nil {
		patients = []Patient{}
	}

	return &ListResult{Patients: patients, Total: total, Page: page, Limit: limit}, nil
}

// Update modifies user-updatable fields on a patient record. The team
// reference is never touched here.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Patient, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if fields.Name != nil {
		set("name", *fields.Name)
	}
	if fields.LastName != nil {
		set("last_name", *fields.LastName)
	}
	if fields.TypeBeneficiary != nil {
		set("type_beneficiary", *fields.TypeBeneficiary)
	}
	if fields.TypeDisability != nil {
		set("type_disability", *fields.TypeDisability)
	}
	if fields.PercentageDisability != nil {
		set("percentage_disability", *fields.PercentageDisability)
	}
	if fields.Zone != nil {
		set("zone", *fields.Zone)
	}
	if fields.IsActive != nil {
		set("is_active", *fields.IsActive)
	}
	if fields.CaregiverID != nil {
		set("caregiver_id", *fields.CaregiverID)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE patients
		SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(setClauses, ", "), argIdx, patientColumns)
	args = append(args, id)

	p, err := scanPatient(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrCaregiverNotFound
		}
		return nil, fmt.Errorf("updating patient: %w", err)
	}

	return p, nil
}

// Delete removes a patient by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting patient: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
