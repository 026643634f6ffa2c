package scheduler

import (
	"context"
	"sync"
	"time"

	"lab_tracker/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReconcileScheduler fires the full-roster reconciliation once daily. The
// run itself can span hours because of the inter-batch cooldown sleeps, so
// overlapping triggers are skipped: a second concurrent full run would burn
// double quota.
type ReconcileScheduler struct {
	cronEngine *cron.Cron
	reconciler *app.ReconcileService
	logger     *logrus.Logger
	cronSpec   string

	// runMu is held for the duration of a run; cron fires each trigger in
	// its own goroutine, so a flag alone would race.
	runMu sync.Mutex
}

func NewReconcileScheduler(
	reconciler *app.ReconcileService,
	logger *logrus.Logger,
	cronSpec string, // e.g., "0 15 * * *" (15:00 daily)
) *ReconcileScheduler {
	return &ReconcileScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		reconciler: reconciler,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *ReconcileScheduler) Start() {
	s.logger.Info("Starting reconcile scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		if !s.runMu.TryLock() {
			s.logger.Warn("Previous reconciliation run still in progress. Skipping this trigger.")
			return
		}
		defer s.runMu.Unlock()

		s.logger.Info("Cron job triggered for nightly reconciliation.")
		summary, err := s.reconciler.ReconcileAll(context.Background())
		if err != nil {
			s.logger.Errorf("Error during nightly reconciliation: %v", err)
			return
		}
		s.logger.Infof("Nightly reconciliation complete: %d processed, %d skipped, %d failed.",
			summary.Processed, summary.Skipped, summary.Failed)
	})
	if err != nil {
		s.logger.Fatalf("Could not add nightly reconciliation cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Reconcile scheduler started with spec %q.", s.cronSpec)
}

func (s *ReconcileScheduler) Stop() {
	s.logger.Info("Stopping reconcile scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Reconcile scheduler gracefully stopped.")
}
