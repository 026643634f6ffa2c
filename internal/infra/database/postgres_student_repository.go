package database

import (
	"context"
	"database/sql"
	"fmt"

	"lab_tracker/internal/domain/student"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrStudentNotFound = fmt.Errorf("student not found")

type PostgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

const studentColumns = `id, username, enrollment_number, faculty_number, course, semester, is_staff, is_superuser, created_at`

func (r *PostgresStudentRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	s := &student.Student{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Username, &s.EnrollmentNumber, &s.FacultyNumber,
		&s.Course, &s.Semester, &s.IsStaff, &s.IsSuperuser, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresStudentRepository) ListNonPrivileged(ctx context.Context) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + `
               FROM students
               WHERE is_staff = FALSE AND is_superuser = FALSE
               ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing non-privileged students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func (r *PostgresStudentRepository) ListByCourseSemester(ctx context.Context, course string, semester int) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + `
               FROM students
               WHERE course = $1 AND semester = $2
                 AND is_staff = FALSE AND is_superuser = FALSE
               ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, course, semester)
	if err != nil {
		return nil, fmt.Errorf("error listing students for %s semester %d: %w", course, semester, err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func scanStudents(rows *sql.Rows) ([]*student.Student, error) {
	students := make([]*student.Student, 0)
	for rows.Next() {
		s := &student.Student{}
		if err := rows.Scan(
			&s.ID, &s.Username, &s.EnrollmentNumber, &s.FacultyNumber,
			&s.Course, &s.Semester, &s.IsStaff, &s.IsSuperuser, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}
