package career

import (
	"time"

	"github.com/google/uuid"
)

// Career represents a row in the careers table. Staff users optionally
// reference the career they practice.
type Career struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Careers []Career
	Total   int
	Page    int
	Limit   int
}
