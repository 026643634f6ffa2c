// internal/infra/web/router.go
package web

import (
	"net/http"
	"time"

	"lab_tracker/internal/app"
	"lab_tracker/internal/domain/deadline"
	"lab_tracker/internal/domain/githubapi"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the HTTP surface of the tracker: the manual-trigger
// endpoint, the analysis enqueue endpoint and the quota diagnostic. Session
// handling for faculty lives in the web application in front of this
// service; here a static bearer token is enough.
func NewRouter(
	reconciler *app.ReconcileService,
	analyzer *app.AnalysisService,
	diagClient githubapi.Client,
	deadlineRepo deadline.Repository,
	adminToken string,
	logger *logrus.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	// The manual trigger reconciles a whole class synchronously within the
	// request, so the timeout has to accommodate a slow upstream API.
	r.Use(chiMiddleware.Timeout(10 * time.Minute))

	// Public health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	h := NewHandler(reconciler, analyzer, diagClient, deadlineRepo, logger)
	r.Route("/api", func(api chi.Router) {
		api.Use(BearerAuth(adminToken))
		api.Post("/update-data", h.UpdateData)
		api.Post("/analysis", h.EnqueueAnalysis)
		api.Get("/rate-limit", h.RateLimit)
		api.Get("/deadlines", h.ListDeadlines)
		api.Put("/deadlines", h.SetDeadline)
	})

	return r
}
