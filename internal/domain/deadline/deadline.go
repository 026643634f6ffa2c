package deadline

import (
	"context"
	"time"
)

// WeekDeadline is the last acceptable date for a given week's submissions.
// It is written by faculty screens and read by reporting, which classifies a
// WeekCommit as on-time or late by comparing the commit date against it. The
// reconciliation core itself never computes lateness.
type WeekDeadline struct {
	ID       int64
	Course   string
	Semester int
	Week     int
	LastDate time.Time
}

// Repository defines access to week deadlines.
type Repository interface {
	// Set creates or replaces the deadline for (course, semester, week).
	Set(ctx context.Context, d *WeekDeadline) error
	// Get returns the deadline for the triple, or ErrDeadlineNotFound from
	// the infra layer when none is set.
	Get(ctx context.Context, course string, semester, week int) (*WeekDeadline, error)
	ListByCourseSemester(ctx context.Context, course string, semester int) ([]*WeekDeadline, error)
}
