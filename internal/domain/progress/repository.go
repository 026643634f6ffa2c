// internal/domain/progress/repository.go
package progress

import (
	"context"
)

// CompletionRepository defines operations for ProblemCompletion records.
type CompletionRepository interface {
	Create(ctx context.Context, c *Completion) error
	Update(ctx context.Context, c *Completion) error
	GetByID(ctx context.Context, id int64) (*Completion, error)
	// GetByStudentAndProblem returns the unique completion row for the pair,
	// or ErrCompletionNotFound from the infra layer when none exists yet.
	GetByStudentAndProblem(ctx context.Context, studentID, problemID int64) (*Completion, error)
	// UpdateAnalysis persists the AI review text for one completion without
	// touching the reconciliation-owned fields.
	UpdateAnalysis(ctx context.Context, id int64, analysis string) error
}

// WeekCommitRepository defines operations for per-week commit records.
type WeekCommitRepository interface {
	Create(ctx context.Context, wc *WeekCommit) error
	Update(ctx context.Context, wc *WeekCommit) error
	// GetByStudentAndWeek returns the unique row for the pair, or
	// ErrWeekCommitNotFound when the week has no recorded commit yet.
	GetByStudentAndWeek(ctx context.Context, studentID int64, weekNumber int) (*WeekCommit, error)
}
