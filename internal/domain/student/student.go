package student

import (
	"fmt"
	"strings"
	"time"
)

// Student represents one enrolled student. The roster is owned by the
// registration subsystem; the reconciliation core only reads it.
type Student struct {
	ID               int64
	Username         string
	EnrollmentNumber string
	FacultyNumber    string
	Course           string
	Semester         int
	IsStaff          bool
	IsSuperuser      bool
	CreatedAt        time.Time
}

// RepoName derives the student's GitHub repository name from course and
// semester, e.g. course "BCA" semester 3 -> "BCALab3". Dots in course
// names ("M.Sc") are stripped so the name stays a valid repository name.
func (s *Student) RepoName() string {
	course := strings.ReplaceAll(s.Course, ".", "")
	return fmt.Sprintf("%sLab%d", course, s.Semester)
}
