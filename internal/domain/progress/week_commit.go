// internal/domain/progress/week_commit.go
package progress

import (
	"database/sql"
	"time"
)

// WeekCommit records the most recent repository change touching one week's
// directory. One row per (student, week); updated only when the fetched
// commit actually differs from the stored one, and never cleared once known.
type WeekCommit struct {
	ID             int64
	StudentID      int64
	WeekNumber     int
	LastCommitTime sql.NullTime
	LastCommitHash sql.NullString // full SHA, at most 40 chars
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
