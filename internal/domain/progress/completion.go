// internal/domain/progress/completion.go
package progress

import (
	"database/sql"
	"time"
)

// Completion is the stored determination of whether, and via which artifact
// URLs, a student solved a given problem. At most one row exists per
// (student, problem); reconciliation updates in place rather than
// duplicating. AIAnalysis is populated asynchronously by the analysis worker
// and is never touched by reconciliation.
type Completion struct {
	ID             int64
	StudentID      int64
	ProblemID      int64
	IsCompleted    bool
	SolutionURL    sql.NullString
	OutputImageURL sql.NullString
	AIAnalysis     sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
