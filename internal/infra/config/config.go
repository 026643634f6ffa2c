package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL string

	// GithubToken authenticates the scheduled nightly path; GithubTokenManual
	// authenticates the faculty-triggered path. The two paths draw from
	// separate token quota pools, so both are kept distinct.
	GithubToken       string
	GithubTokenManual string

	GeminiAPIKey string
	GeminiModel  string

	APIPort       string
	AdminAPIToken string

	LogLevel    string
	Environment string

	// CronSpecReconcile fires the nightly reconciliation run.
	CronSpecReconcile string
	// BatchSize students are reconciled per batch before the cooldown sleep.
	BatchSize     int
	BatchCooldown time.Duration
	// ManualCooldown is the minimum gap between manual triggers, across all
	// callers.
	ManualCooldown time.Duration

	// Fixed-window limit for the analysis worker's upstream calls.
	AnalysisRateLimit  int
	AnalysisRateWindow time.Duration
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.GithubToken = os.Getenv("GITHUB_TOKEN")
	if cfg.GithubToken == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is not set")
	}

	// Falls back to the primary token when a second one is not configured.
	cfg.GithubTokenManual = os.Getenv("GITHUB_TOKEN_MANUAL")
	if cfg.GithubTokenManual == "" {
		cfg.GithubTokenManual = cfg.GithubToken
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	cfg.GeminiModel = os.Getenv("GEMINI_MODEL")
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}

	cfg.APIPort = os.Getenv("API_PORT")
	if cfg.APIPort == "" {
		cfg.APIPort = "8080"
	}

	cfg.AdminAPIToken = os.Getenv("ADMIN_API_TOKEN")
	if cfg.AdminAPIToken == "" {
		return nil, fmt.Errorf("ADMIN_API_TOKEN is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecReconcile = os.Getenv("CRON_SPEC_RECONCILE")
	if cfg.CronSpecReconcile == "" {
		cfg.CronSpecReconcile = "0 15 * * *" // Default: 15:00 daily
	}

	cfg.BatchSize, err = intEnv("BATCH_SIZE", 150)
	if err != nil {
		return nil, err
	}

	cfg.BatchCooldown, err = durationEnv("BATCH_COOLDOWN", time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.ManualCooldown, err = durationEnv("MANUAL_COOLDOWN", time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.AnalysisRateLimit, err = intEnv("ANALYSIS_RATE_LIMIT", 15)
	if err != nil {
		return nil, err
	}

	cfg.AnalysisRateWindow, err = durationEnv("ANALYSIS_RATE_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
