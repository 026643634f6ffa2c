// internal/app/import_service.go
package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lab_tracker/internal/domain/problem"

	"github.com/sirupsen/logrus"
)

// RowError reports one rejected CSV row; the import continues past it.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ImportResult summarizes one CSV import run.
type ImportResult struct {
	Imported  int
	RowErrors []RowError
}

// ImportService loads the problem catalog from faculty-provided CSV files.
// Expected header: course,semester,week,problem,description. Existing
// problems (same course, semester, week and number) get their description
// updated instead of being duplicated.
type ImportService struct {
	problemRepo problem.Repository
	logger      *logrus.Logger
}

func NewImportService(pr problem.Repository, logger *logrus.Logger) *ImportService {
	return &ImportService{problemRepo: pr, logger: logger}
}

// ImportProblems reads CSV rows from r and upserts each one. Malformed rows
// are collected per-row and skipped; one bad row never aborts the import.
func (s *ImportService) ImportProblems(ctx context.Context, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"course", "semester", "week", "problem", "description"} {
		if _, ok := columns[required]; !ok {
			return ImportResult{}, fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	var result ImportResult
	line := 1 // header consumed
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err})
			continue
		}

		p, err := parseProblemRow(record, columns)
		if err != nil {
			s.logger.Warnf("Import: skipping row %d: %v", line, err)
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err})
			continue
		}

		if err := s.problemRepo.Upsert(ctx, p); err != nil {
			s.logger.Warnf("Import: failed to store row %d: %v", line, err)
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err})
			continue
		}
		result.Imported++
	}

	s.logger.Infof("Import finished: %d problems imported, %d rows rejected.", result.Imported, len(result.RowErrors))
	return result, nil
}

func parseProblemRow(record []string, columns map[string]int) (*problem.Problem, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	course := field("course")
	if course == "" {
		return nil, fmt.Errorf("empty course")
	}
	number := field("problem")
	if number == "" {
		return nil, fmt.Errorf("empty problem number")
	}

	semester, err := strconv.Atoi(field("semester"))
	if err != nil {
		return nil, fmt.Errorf("invalid semester: %w", err)
	}
	week, err := strconv.Atoi(field("week"))
	if err != nil {
		return nil, fmt.Errorf("invalid week: %w", err)
	}

	return &problem.Problem{
		Course:      course,
		Semester:    semester,
		Week:        week,
		Number:      number,
		Description: field("description"),
	}, nil
}
