package student

import (
	"context"
)

// Repository defines read access to the student roster.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Student, error)
	// ListNonPrivileged returns every student that is neither staff nor
	// superuser, in a stable order. This is the nightly batch roster.
	ListNonPrivileged(ctx context.Context) ([]*Student, error)
	// ListByCourseSemester returns the non-privileged students of one class.
	ListByCourseSemester(ctx context.Context, course string, semester int) ([]*Student, error)
}
