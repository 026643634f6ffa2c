package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lab_tracker/internal/app"
	"lab_tracker/internal/infra/config"
	idb "lab_tracker/internal/infra/database"
	"lab_tracker/internal/infra/gemini"
	igh "lab_tracker/internal/infra/githubapi"
	"lab_tracker/internal/infra/logger"
	"lab_tracker/internal/infra/scheduler"
	"lab_tracker/internal/infra/web"
)

func main() {
	// Run-once modes; without any flag the long-running service starts.
	reconcileAll := flag.Bool("reconcile-all", false, "run one full-roster reconciliation and exit")
	checkRateLimit := flag.Bool("check-rate-limit", false, "print the remaining GitHub API quota and exit")
	importProblems := flag.String("import-problems", "", "import problems from the given CSV file and exit")
	flag.Parse()

	fmt.Println("Lab progress tracker starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()

	// The scheduled and manual paths authenticate with separate tokens so
	// their quota pools stay independent.
	scheduledClient := igh.NewHTTPClient(cfg.GithubToken)
	manualClient := igh.NewHTTPClient(cfg.GithubTokenManual)

	// Quota diagnostic needs no database.
	if *checkRateLimit {
		quota, err := scheduledClient.RateLimit(context.Background())
		if err != nil {
			log.Fatalf("Error fetching rate limit: %v", err)
		}
		fmt.Printf("GitHub API Rate Limit: %d/%d requests remaining\n", quota.Remaining, quota.Limit)
		fmt.Printf("Rate limit will reset at: %s\n", quota.Reset.Format(time.RFC3339))
		return
	}

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories
	studentRepo := idb.NewPostgresStudentRepository(db)
	problemRepo := idb.NewPostgresProblemRepository(db)
	completionRepo := idb.NewPostgresCompletionRepository(db)
	weekCommitRepo := idb.NewPostgresWeekCommitRepository(db)
	activityRepo := idb.NewPostgresActivityRepository(db)
	deadlineRepo := idb.NewPostgresDeadlineRepository(db)

	reconciler := app.NewReconcileService(
		studentRepo, problemRepo, completionRepo, weekCommitRepo, activityRepo,
		scheduledClient, manualClient, log,
		cfg.BatchSize, cfg.BatchCooldown, cfg.ManualCooldown,
	)

	if *importProblems != "" {
		file, err := os.Open(*importProblems)
		if err != nil {
			log.Fatalf("Could not open CSV file: %v", err)
		}
		defer file.Close()

		importer := app.NewImportService(problemRepo, log)
		result, err := importer.ImportProblems(context.Background(), file)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		for _, rowErr := range result.RowErrors {
			fmt.Fprintf(os.Stderr, "skipped %v\n", rowErr)
		}
		fmt.Printf("Successfully imported %d problems (%d rows rejected)\n", result.Imported, len(result.RowErrors))
		return
	}

	if *reconcileAll {
		summary, err := reconciler.ReconcileAll(context.Background())
		if err != nil {
			log.Fatalf("Reconciliation failed: %v", err)
		}
		fmt.Printf("Reconciliation complete: %d processed, %d skipped, %d failed\n",
			summary.Processed, summary.Skipped, summary.Failed)
		return
	}

	// Initialize the AI analysis pipeline
	generator, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Could not initialize Gemini client: %v", err)
	}
	queue := app.NewAnalysisQueue()
	limiter := app.NewFixedWindowLimiter(cfg.AnalysisRateLimit, cfg.AnalysisRateWindow)
	analyzer := app.NewAnalysisService(queue, completionRepo, problemRepo, generator, limiter, log)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go analyzer.Start(workerCtx)
	log.Info("Analysis worker started.")

	// Initialize the nightly scheduler
	reconcileScheduler := scheduler.NewReconcileScheduler(reconciler, log, cfg.CronSpecReconcile)
	reconcileScheduler.Start()

	// Initialize Router & HTTP Server
	router := web.NewRouter(reconciler, analyzer, scheduledClient, deadlineRepo, cfg.AdminAPIToken, log)
	server := &http.Server{
		Addr:        ":" + cfg.APIPort,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Infof("HTTP server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", cfg.APIPort, err)
		}
	}()

	log.Info("Application setup complete.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	reconcileScheduler.Stop()
	workerCancel() // Signal the analysis worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown failed: %v", err)
	}

	log.Info("Application shut down gracefully.")
}
