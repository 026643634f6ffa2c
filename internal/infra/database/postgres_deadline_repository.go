package database

import (
	"context"
	"database/sql"
	"fmt"

	"lab_tracker/internal/domain/deadline"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrDeadlineNotFound = fmt.Errorf("week deadline not found")

type PostgresDeadlineRepository struct {
	db *sql.DB
}

func NewPostgresDeadlineRepository(db *sql.DB) *PostgresDeadlineRepository {
	return &PostgresDeadlineRepository{db: db}
}

func (r *PostgresDeadlineRepository) Set(ctx context.Context, d *deadline.WeekDeadline) error {
	query := `INSERT INTO week_deadlines (course, semester, week, last_date)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (course, semester, week)
               DO UPDATE SET last_date = EXCLUDED.last_date
               RETURNING id`

	err := r.db.QueryRowContext(ctx, query, d.Course, d.Semester, d.Week, d.LastDate).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("error setting week deadline: %w", err)
	}
	return nil
}

func (r *PostgresDeadlineRepository) Get(ctx context.Context, course string, semester, week int) (*deadline.WeekDeadline, error) {
	query := `SELECT id, course, semester, week, last_date
               FROM week_deadlines
               WHERE course = $1 AND semester = $2 AND week = $3`

	d := &deadline.WeekDeadline{}
	err := r.db.QueryRowContext(ctx, query, course, semester, week).Scan(
		&d.ID, &d.Course, &d.Semester, &d.Week, &d.LastDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDeadlineNotFound
		}
		return nil, fmt.Errorf("error getting week deadline: %w", err)
	}
	return d, nil
}

func (r *PostgresDeadlineRepository) ListByCourseSemester(ctx context.Context, course string, semester int) ([]*deadline.WeekDeadline, error) {
	query := `SELECT id, course, semester, week, last_date
               FROM week_deadlines
               WHERE course = $1 AND semester = $2
               ORDER BY week`

	rows, err := r.db.QueryContext(ctx, query, course, semester)
	if err != nil {
		return nil, fmt.Errorf("error listing week deadlines: %w", err)
	}
	defer rows.Close()

	deadlines := make([]*deadline.WeekDeadline, 0)
	for rows.Next() {
		d := &deadline.WeekDeadline{}
		if err := rows.Scan(&d.ID, &d.Course, &d.Semester, &d.Week, &d.LastDate); err != nil {
			return nil, fmt.Errorf("error scanning week deadline: %w", err)
		}
		deadlines = append(deadlines, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating week deadlines: %w", err)
	}
	return deadlines, nil
}
