package problem

import (
	"database/sql"
	"time"
)

// Problem identifies one unit of lab work, assigned to a (course, semester,
// week) and labelled by Number (e.g. "Problem 1"). Unique on the 4-tuple
// (course, semester, week, number). Created and edited by faculty; the
// reconciliation core only reads it.
type Problem struct {
	ID          int64
	Course      string
	Semester    int
	Week        int
	Number      string
	Description string
	ImagePath   sql.NullString
	CreatedAt   time.Time
}
