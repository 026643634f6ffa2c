package database

import (
	"context"
	"database/sql"
	"fmt"

	"lab_tracker/internal/domain/progress"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrWeekCommitNotFound = fmt.Errorf("week commit not found")

type PostgresWeekCommitRepository struct {
	db *sql.DB
}

func NewPostgresWeekCommitRepository(db *sql.DB) *PostgresWeekCommitRepository {
	return &PostgresWeekCommitRepository{db: db}
}

func (r *PostgresWeekCommitRepository) Create(ctx context.Context, wc *progress.WeekCommit) error {
	query := `INSERT INTO week_commits (student_id, week_number, last_commit_time, last_commit_hash)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		wc.StudentID, wc.WeekNumber, wc.LastCommitTime, wc.LastCommitHash).
		Scan(&wc.ID, &wc.CreatedAt, &wc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating week commit: %w", err)
	}
	return nil
}

func (r *PostgresWeekCommitRepository) Update(ctx context.Context, wc *progress.WeekCommit) error {
	query := `UPDATE week_commits
               SET last_commit_time = $1, last_commit_hash = $2, updated_at = NOW()
               WHERE id = $3
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		wc.LastCommitTime, wc.LastCommitHash, wc.ID).Scan(&wc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrWeekCommitNotFound
		}
		return fmt.Errorf("error updating week commit: %w", err)
	}
	return nil
}

func (r *PostgresWeekCommitRepository) GetByStudentAndWeek(ctx context.Context, studentID int64, weekNumber int) (*progress.WeekCommit, error) {
	query := `SELECT id, student_id, week_number, last_commit_time, last_commit_hash, created_at, updated_at
               FROM week_commits WHERE student_id = $1 AND week_number = $2`
	wc := &progress.WeekCommit{}
	err := r.db.QueryRowContext(ctx, query, studentID, weekNumber).Scan(
		&wc.ID, &wc.StudentID, &wc.WeekNumber,
		&wc.LastCommitTime, &wc.LastCommitHash, &wc.CreatedAt, &wc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWeekCommitNotFound
		}
		return nil, fmt.Errorf("error getting week commit: %w", err)
	}
	return wc, nil
}
