package problem

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Problems.
type Repository interface {
	Create(ctx context.Context, p *Problem) error
	// Upsert creates the problem or, when the (course, semester, week,
	// number) tuple already exists, updates its description in place.
	Upsert(ctx context.Context, p *Problem) error
	GetByID(ctx context.Context, id int64) (*Problem, error)
	ListByCourseSemester(ctx context.Context, course string, semester int) ([]*Problem, error)
}
