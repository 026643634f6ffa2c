package database

import (
	"context"
	"database/sql"
	"fmt"

	"lab_tracker/internal/domain/activity"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrActivityNotFound = fmt.Errorf("activity record not found")

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) Append(ctx context.Context, rec *activity.Record) error {
	query := `INSERT INTO faculty_activities (actor, action, course, semester, week, description)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, timestamp`

	err := r.db.QueryRowContext(ctx, query,
		rec.Actor, rec.Action, rec.Course, rec.Semester, rec.Week, rec.Description).
		Scan(&rec.ID, &rec.Timestamp)
	if err != nil {
		return fmt.Errorf("error appending activity record: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) LatestByAction(ctx context.Context, action string) (*activity.Record, error) {
	query := `SELECT id, actor, action, course, semester, week, description, timestamp
               FROM faculty_activities
               WHERE action = $1
               ORDER BY timestamp DESC
               LIMIT 1`

	rec := &activity.Record{}
	err := r.db.QueryRowContext(ctx, query, action).Scan(
		&rec.ID, &rec.Actor, &rec.Action, &rec.Course, &rec.Semester,
		&rec.Week, &rec.Description, &rec.Timestamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("error getting latest activity by action: %w", err)
	}
	return rec, nil
}

func (r *PostgresActivityRepository) ListRecent(ctx context.Context, limit int) ([]*activity.Record, error) {
	query := `SELECT id, actor, action, course, semester, week, description, timestamp
               FROM faculty_activities
               ORDER BY timestamp DESC
               LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent activities: %w", err)
	}
	defer rows.Close()

	records := make([]*activity.Record, 0)
	for rows.Next() {
		rec := &activity.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.Actor, &rec.Action, &rec.Course, &rec.Semester,
			&rec.Week, &rec.Description, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("error scanning activity record: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity records: %w", err)
	}
	return records, nil
}
