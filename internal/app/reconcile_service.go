// internal/app/reconcile_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"lab_tracker/internal/domain/activity"
	"lab_tracker/internal/domain/githubapi"
	"lab_tracker/internal/domain/problem"
	"lab_tracker/internal/domain/progress"
	"lab_tracker/internal/domain/student"
	idb "lab_tracker/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrTriggerInProgress is returned when a manual reconciliation is requested
// while another one is still running in this process.
var ErrTriggerInProgress = fmt.Errorf("a manual update is already in progress")

// CooldownActiveError is returned by ReconcileCourse when the previous manual
// update happened too recently. It carries enough context for a
// human-readable message.
type CooldownActiveError struct {
	Actor    string
	Course   string
	Semester int
	Until    time.Time
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("updates are disabled until %s because %s updated the data for %s, Semester %d",
		e.Until.Format("15:04:05"), e.Actor, e.Course, e.Semester)
}

// RunSummary aggregates the outcome of one reconciliation run.
type RunSummary struct {
	Processed int `json:"processed"` // students fully reconciled
	Skipped   int `json:"skipped"`   // students without a repository (404)
	Failed    int `json:"failed"`    // students aborted by a transient error
}

// ReconcileService walks students' GitHub repositories and records problem
// completions and per-week commit metadata. It serves both trigger paths:
// the nightly batch over the whole roster and the faculty-triggered update
// of one course+semester.
type ReconcileService struct {
	studentRepo    student.Repository
	problemRepo    problem.Repository
	completionRepo progress.CompletionRepository
	weekCommitRepo progress.WeekCommitRepository
	activityRepo   activity.Repository

	// The two trigger paths authenticate with separate tokens, hence two
	// clients with independent quota pools.
	scheduledClient githubapi.Client
	manualClient    githubapi.Client

	logger *logrus.Logger

	batchSize      int
	batchCooldown  time.Duration
	manualCooldown time.Duration

	// manualMu rejects overlapping manual triggers within this process; the
	// audit-log cooldown check alone is race-prone under concurrent requests.
	manualMu sync.Mutex
}

func NewReconcileService(
	sr student.Repository,
	pr problem.Repository,
	cr progress.CompletionRepository,
	wr progress.WeekCommitRepository,
	ar activity.Repository,
	scheduledClient githubapi.Client,
	manualClient githubapi.Client,
	logger *logrus.Logger,
	batchSize int,
	batchCooldown time.Duration,
	manualCooldown time.Duration,
) *ReconcileService {
	return &ReconcileService{
		studentRepo:     sr,
		problemRepo:     pr,
		completionRepo:  cr,
		weekCommitRepo:  wr,
		activityRepo:    ar,
		scheduledClient: scheduledClient,
		manualClient:    manualClient,
		logger:          logger,
		batchSize:       batchSize,
		batchCooldown:   batchCooldown,
		manualCooldown:  manualCooldown,
	}
}

// ReconcileAll processes the entire non-privileged roster in fixed-size
// batches, sleeping between batches so the run stays under the API's hourly
// quota. It runs single-threaded on purpose: the quota is the bottleneck,
// not CPU. Per-student failures are absorbed; the run always moves forward.
func (s *ReconcileService) ReconcileAll(ctx context.Context) (RunSummary, error) {
	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)

	students, err := s.studentRepo.ListNonPrivileged(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to list students for reconciliation: %w", err)
	}
	log.Infof("Starting full reconciliation of %d students (batch size %d)", len(students), s.batchSize)

	// The problem catalog is identical for every student of a class, so one
	// lookup per (course, semester) pair serves the whole run.
	catalogs := make(map[string][]*problem.Problem)

	var summary RunSummary
	for i := 0; i < len(students); i += s.batchSize {
		end := i + s.batchSize
		if end > len(students) {
			end = len(students)
		}
		batch := students[i:end]

		for _, st := range batch {
			problems, err := s.catalogFor(ctx, catalogs, st.Course, st.Semester)
			if err != nil {
				log.Errorf("Failed to load problem catalog for %s semester %d: %v", st.Course, st.Semester, err)
				summary.Failed++
				continue
			}
			s.reconcileStudent(ctx, log, s.scheduledClient, st, problems, &summary)
		}
		log.Infof("Processed batch starting at %d, students: %d", i, len(batch))

		if end < len(students) {
			log.Warnf("Sleeping for %s before the next batch...", s.batchCooldown)
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(s.batchCooldown):
			}
		}
	}

	log.Infof("Full reconciliation finished: %d processed, %d skipped, %d failed",
		summary.Processed, summary.Skipped, summary.Failed)
	return summary, nil
}

// ReconcileCourse runs a synchronous reconciliation scoped to one
// (course, semester), on behalf of actor. It is rate-limited to one
// invocation per cooldown window across all callers, checked against the
// newest "Updated the data" audit record, and additionally rejects
// overlapping in-process triggers.
func (s *ReconcileService) ReconcileCourse(ctx context.Context, actor, course string, semester int) (RunSummary, error) {
	if !s.manualMu.TryLock() {
		return RunSummary{}, ErrTriggerInProgress
	}
	defer s.manualMu.Unlock()

	last, err := s.activityRepo.LatestByAction(ctx, activity.ActionDataUpdated)
	if err != nil && err != idb.ErrActivityNotFound {
		return RunSummary{}, fmt.Errorf("failed to check last update time: %w", err)
	}
	if last != nil && time.Since(last.Timestamp) < s.manualCooldown {
		return RunSummary{}, &CooldownActiveError{
			Actor:    last.Actor,
			Course:   last.Course,
			Semester: last.Semester,
			Until:    last.Timestamp.Add(s.manualCooldown),
		}
	}

	runID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{"run_id": runID, "course": course, "semester": semester})

	students, err := s.studentRepo.ListByCourseSemester(ctx, course, semester)
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to list students of %s semester %d: %w", course, semester, err)
	}
	problems, err := s.problemRepo.ListByCourseSemester(ctx, course, semester)
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to list problems of %s semester %d: %w", course, semester, err)
	}
	log.Infof("Starting manual reconciliation of %d students", len(students))

	var summary RunSummary
	for _, st := range students {
		s.reconcileStudent(ctx, log, s.manualClient, st, problems, &summary)
	}

	record := &activity.Record{
		Actor:    actor,
		Action:   activity.ActionDataUpdated,
		Course:   course,
		Semester: semester,
		Description: sql.NullString{
			String: fmt.Sprintf("run %s: %d processed, %d skipped, %d failed",
				runID, summary.Processed, summary.Skipped, summary.Failed),
			Valid: true,
		},
	}
	if err := s.activityRepo.Append(ctx, record); err != nil {
		// The reconciliation itself succeeded; a missing audit record only
		// weakens the next cooldown check.
		log.Errorf("Failed to append audit record for manual update: %v", err)
	}

	log.Infof("Manual reconciliation finished: %d processed, %d skipped, %d failed",
		summary.Processed, summary.Skipped, summary.Failed)
	return summary, nil
}

func (s *ReconcileService) catalogFor(ctx context.Context, cache map[string][]*problem.Problem, course string, semester int) ([]*problem.Problem, error) {
	key := fmt.Sprintf("%s/%d", course, semester)
	if problems, ok := cache[key]; ok {
		return problems, nil
	}
	problems, err := s.problemRepo.ListByCourseSemester(ctx, course, semester)
	if err != nil {
		return nil, err
	}
	cache[key] = problems
	return problems, nil
}

// reconcileStudent inspects one student's repository and updates completion
// and commit records. Every failure is absorbed here: a missing repository
// skips the student silently, a transient error logs and skips, and records
// written before the failure stand.
func (s *ReconcileService) reconcileStudent(
	ctx context.Context,
	log *logrus.Entry,
	client githubapi.Client,
	st *student.Student,
	problems []*problem.Problem,
	summary *RunSummary,
) {
	repoName := st.RepoName()

	rootEntries, err := client.ListDirectory(ctx, st.Username, repoName, "")
	if err != nil {
		if err == githubapi.ErrNotFound {
			// No repository yet is indistinguishable from "not yet started".
			summary.Skipped++
			return
		}
		log.Errorf("Error checking repository for %s: %v", st.Username, err)
		summary.Failed++
		return
	}

	weekDirs := make(map[string]bool)
	for _, entry := range rootEntries {
		if entry.IsDir() && len(entry.Name) > 4 && entry.Name[:4] == "Week" {
			weekDirs[entry.Name] = true
		}
	}

	problemsByWeek := make(map[int][]*problem.Problem)
	for _, p := range problems {
		problemsByWeek[p.Week] = append(problemsByWeek[p.Week], p)
	}

	failed := false
	for weekNumber, weekProblems := range problemsByWeek {
		weekDirName := fmt.Sprintf("Week%d", weekNumber)
		if !weekDirs[weekDirName] {
			// Week not pushed yet; no records are created for it.
			continue
		}

		// One listing fetch serves every problem of the week.
		listing, err := client.ListDirectory(ctx, st.Username, repoName, weekDirName)
		if err != nil {
			log.Errorf("Error listing %s of %s/%s: %v", weekDirName, st.Username, repoName, err)
			failed = true
			continue
		}

		for _, p := range weekProblems {
			if err := s.upsertCompletion(ctx, st, p, listing); err != nil {
				log.Errorf("Error recording completion of %s for %s: %v", p.Number, st.Username, err)
				failed = true
			}
		}

		if err := s.trackWeekCommit(ctx, client, st, repoName, weekNumber, weekDirName); err != nil {
			log.Errorf("Error tracking %s commits for %s: %v", weekDirName, st.Username, err)
			failed = true
		}
	}

	if failed {
		summary.Failed++
	} else {
		summary.Processed++
	}
}

// upsertCompletion evaluates one problem against the week listing and
// persists the outcome, creating the row on first evaluation and otherwise
// writing only when one of the derived fields actually changed. The stored
// ai_analysis survives re-evaluation untouched.
func (s *ReconcileService) upsertCompletion(ctx context.Context, st *student.Student, p *problem.Problem, listing []githubapi.Entry) error {
	ev := progress.Evaluate(p.Number, listing)
	solutionURL := nullString(ev.SolutionURL)
	outputImageURL := nullString(ev.OutputImageURL)

	existing, err := s.completionRepo.GetByStudentAndProblem(ctx, st.ID, p.ID)
	if err != nil {
		if err != idb.ErrCompletionNotFound {
			return err
		}
		return s.completionRepo.Create(ctx, &progress.Completion{
			StudentID:      st.ID,
			ProblemID:      p.ID,
			IsCompleted:    ev.IsCompleted,
			SolutionURL:    solutionURL,
			OutputImageURL: outputImageURL,
		})
	}

	if existing.IsCompleted == ev.IsCompleted &&
		existing.SolutionURL == solutionURL &&
		existing.OutputImageURL == outputImageURL {
		return nil // no-op write skipped
	}

	existing.IsCompleted = ev.IsCompleted
	existing.SolutionURL = solutionURL
	existing.OutputImageURL = outputImageURL
	return s.completionRepo.Update(ctx, existing)
}

// trackWeekCommit fetches the newest commit touching the week directory and
// upserts the per-week commit record. A fetch failure leaves any previously
// known commit untouched.
func (s *ReconcileService) trackWeekCommit(ctx context.Context, client githubapi.Client, st *student.Student, repoName string, weekNumber int, weekDirName string) error {
	commits, err := client.ListCommits(ctx, st.Username, repoName, weekDirName)
	if err != nil {
		if err == githubapi.ErrNotFound {
			return nil
		}
		return err
	}
	if len(commits) == 0 {
		return nil
	}

	latest := commits[0] // newest first
	lastCommitTime := sql.NullTime{Time: latest.CommittedAt, Valid: true}
	lastCommitHash := nullString(latest.SHA)

	existing, err := s.weekCommitRepo.GetByStudentAndWeek(ctx, st.ID, weekNumber)
	if err != nil {
		if err != idb.ErrWeekCommitNotFound {
			return err
		}
		return s.weekCommitRepo.Create(ctx, &progress.WeekCommit{
			StudentID:      st.ID,
			WeekNumber:     weekNumber,
			LastCommitTime: lastCommitTime,
			LastCommitHash: lastCommitHash,
		})
	}

	if existing.LastCommitHash == lastCommitHash &&
		existing.LastCommitTime.Valid && existing.LastCommitTime.Time.Equal(latest.CommittedAt) {
		return nil // unchanged, skip the write
	}

	existing.LastCommitTime = lastCommitTime
	existing.LastCommitHash = lastCommitHash
	return s.weekCommitRepo.Update(ctx, existing)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
