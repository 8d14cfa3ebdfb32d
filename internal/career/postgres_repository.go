package career

import (
	"context"
	"errors"
	"fmt"

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

// Create inserts a new career record.
func (r *PostgresRepository) Create(ctx context.Context, c *Career) error {
	query := `
		INSERT INTO careers (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, c.Name).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateName
		}
		return fmt.Errorf("inserting career: %w", err)
	}

	return nil
}

// GetByID retrieves a single career by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Career, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM careers
		WHERE id = $1`

	var c Career
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying career: %w", err)
	}

	return &c, nil
}

// List retrieves a paginated list of careers ordered by creation time.
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM careers").Scan(&total); err != nil {
		return nil, fmt.Errorf("counting careers: %w", err)
	}

	query := `
		SELECT id, name, created_at, updated_at
		FROM careers
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listing careers: %w", err)
	}
	defer rows.Close()

	var careers []Career
	for rows.Next() {
		var c Career
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning career row: %w", err)
		}
		careers = append(careers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating career rows: %w", err)
	}

	if careers == nil {
		careers = []Career{}
	}

	return &ListResult{Careers: careers, Total: total, Page: page, Limit: limit}, nil
}

// Rename updates a career's name.
func (r *PostgresRepository) Rename(ctx context.Context, id uuid.UUID, name string) (*Career, error) {
	query := `
		UPDATE careers
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, created_at, updated_at`

	var c Career
	err := r.pool.QueryRow(ctx, query, id, name).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("renaming career: %w", err)
	}

	return &c, nil
}

// Delete removes a career by its UUID. Users referencing the career are
// detached (FK SET NULL) rather than blocked.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM careers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting career: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
