package group

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a row in the groups table. A group is the top-level
// organizational unit; teams reference exactly one group.
type Group struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Groups []Group
	Total  int
	Page   int
	Limit  int
}
