package activity

import (
	"context"
	"database/sql"
	"time"
)

// ActionDataUpdated is the audit action recorded by a successful manual
// reconciliation. The manual-trigger cooldown is enforced by reading the
// newest record carrying this action.
const ActionDataUpdated = "Updated the data"

// Record is one append-only audit-log entry of a faculty action.
type Record struct {
	ID          int64
	Actor       string
	Action      string
	Course      string
	Semester    int
	Week        sql.NullInt64
	Description sql.NullString
	Timestamp   time.Time
}

// Repository defines the append-only audit log.
type Repository interface {
	Append(ctx context.Context, r *Record) error
	// LatestByAction returns the most recent record with the given action,
	// or ErrRecordNotFound from the infra layer when none exists.
	LatestByAction(ctx context.Context, action string) (*Record, error)
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}
