package database

import (
	"context"
	"database/sql"
	"fmt"

	"lab_tracker/internal/domain/progress"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrCompletionNotFound = fmt.Errorf("problem completion not found")

type PostgresCompletionRepository struct {
	db *sql.DB
}

func NewPostgresCompletionRepository(db *sql.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

const completionColumns = `id, student_id, problem_id, is_completed, solution_url, output_image_url, ai_analysis, created_at, updated_at`

func (r *PostgresCompletionRepository) Create(ctx context.Context, c *progress.Completion) error {
	query := `INSERT INTO problem_completions (student_id, problem_id, is_completed, solution_url, output_image_url)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.StudentID, c.ProblemID, c.IsCompleted, c.SolutionURL, c.OutputImageURL).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating problem completion: %w", err)
	}
	return nil
}

// Update rewrites the three reconciliation-derived fields. The ai_analysis
// column is deliberately left alone so re-evaluation never wipes a stored
// review.
func (r *PostgresCompletionRepository) Update(ctx context.Context, c *progress.Completion) error {
	query := `UPDATE problem_completions
               SET is_completed = $1, solution_url = $2, output_image_url = $3, updated_at = NOW()
               WHERE id = $4
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.IsCompleted, c.SolutionURL, c.OutputImageURL, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCompletionNotFound
		}
		return fmt.Errorf("error updating problem completion: %w", err)
	}
	return nil
}

func (r *PostgresCompletionRepository) GetByID(ctx context.Context, id int64) (*progress.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM problem_completions WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresCompletionRepository) GetByStudentAndProblem(ctx context.Context, studentID, problemID int64) (*progress.Completion, error) {
	query := `SELECT ` + completionColumns + `
               FROM problem_completions WHERE student_id = $1 AND problem_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, studentID, problemID))
}

func (r *PostgresCompletionRepository) UpdateAnalysis(ctx context.Context, id int64, analysis string) error {
	query := `UPDATE problem_completions
               SET ai_analysis = $1, updated_at = NOW()
               WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, analysis, id)
	if err != nil {
		return fmt.Errorf("error updating ai analysis: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking ai analysis update: %w", err)
	}
	if affected == 0 {
		return ErrCompletionNotFound
	}
	return nil
}

func (r *PostgresCompletionRepository) scanOne(row *sql.Row) (*progress.Completion, error) {
	c := &progress.Completion{}
	err := row.Scan(
		&c.ID, &c.StudentID, &c.ProblemID, &c.IsCompleted,
		&c.SolutionURL, &c.OutputImageURL, &c.AIAnalysis, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCompletionNotFound
		}
		return nil, fmt.Errorf("error getting problem completion: %w", err)
	}
	return c, nil
}
