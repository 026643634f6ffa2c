package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lab_tracker/internal/domain/problem"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrProblemNotFound = fmt.Errorf("problem not found")
var ErrDuplicateProblem = fmt.Errorf("problem with this course, semester, week and number already exists")

type PostgresProblemRepository struct {
	db *sql.DB
}

func NewPostgresProblemRepository(db *sql.DB) *PostgresProblemRepository {
	return &PostgresProblemRepository{db: db}
}

func (r *PostgresProblemRepository) Create(ctx context.Context, p *problem.Problem) error {
	query := `INSERT INTO problems (course, semester, week, number, description, image_path)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Course, p.Semester, p.Week, p.Number, p.Description, p.ImagePath).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		// Unique violation on (course, semester, week, number).
		if strings.Contains(err.Error(), "unique constraint") {
			return ErrDuplicateProblem
		}
		return fmt.Errorf("error creating problem: %w", err)
	}
	return nil
}

func (r *PostgresProblemRepository) Upsert(ctx context.Context, p *problem.Problem) error {
	query := `INSERT INTO problems (course, semester, week, number, description, image_path)
               VALUES ($1, $2, $3, $4, $5, $6)
               ON CONFLICT (course, semester, week, number)
               DO UPDATE SET description = EXCLUDED.description
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Course, p.Semester, p.Week, p.Number, p.Description, p.ImagePath).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("error upserting problem: %w", err)
	}
	return nil
}

func (r *PostgresProblemRepository) GetByID(ctx context.Context, id int64) (*problem.Problem, error) {
	query := `SELECT id, course, semester, week, number, description, image_path, created_at
               FROM problems WHERE id = $1`
	p := &problem.Problem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Course, &p.Semester, &p.Week, &p.Number, &p.Description, &p.ImagePath, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("error getting problem by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresProblemRepository) ListByCourseSemester(ctx context.Context, course string, semester int) ([]*problem.Problem, error) {
	query := `SELECT id, course, semester, week, number, description, image_path, created_at
               FROM problems
               WHERE course = $1 AND semester = $2
               ORDER BY week, number`

	rows, err := r.db.QueryContext(ctx, query, course, semester)
	if err != nil {
		return nil, fmt.Errorf("error listing problems for %s semester %d: %w", course, semester, err)
	}
	defer rows.Close()

	problems := make([]*problem.Problem, 0)
	for rows.Next() {
		p := &problem.Problem{}
		if err := rows.Scan(
			&p.ID, &p.Course, &p.Semester, &p.Week, &p.Number, &p.Description, &p.ImagePath, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning problem: %w", err)
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating problems: %w", err)
	}
	return problems, nil
}
