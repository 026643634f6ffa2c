// internal/infra/web/handler.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"lab_tracker/internal/app"
	"lab_tracker/internal/domain/deadline"
	"lab_tracker/internal/domain/githubapi"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	reconciler   *app.ReconcileService
	analyzer     *app.AnalysisService
	diagClient   githubapi.Client
	deadlineRepo deadline.Repository
	logger       *logrus.Logger
}

func NewHandler(
	reconciler *app.ReconcileService,
	analyzer *app.AnalysisService,
	diagClient githubapi.Client,
	deadlineRepo deadline.Repository,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		reconciler:   reconciler,
		analyzer:     analyzer,
		diagClient:   diagClient,
		deadlineRepo: deadlineRepo,
		logger:       logger,
	}
}

type updateDataRequest struct {
	Actor    string `json:"actor"`
	Course   string `json:"course"`
	Semester int    `json:"semester"`
}

type updateDataResponse struct {
	Message string         `json:"message"`
	Summary app.RunSummary `json:"summary"`
}

// UpdateData triggers a synchronous reconciliation of one course+semester.
// The request blocks until the run completes; a run blocked by the shared
// cooldown returns 429 with a human-readable explanation.
func (h *Handler) UpdateData(w http.ResponseWriter, r *http.Request) {
	var req updateDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Actor == "" || req.Course == "" || req.Semester <= 0 {
		RespondWithError(w, http.StatusBadRequest, "actor, course and semester are required")
		return
	}

	summary, err := h.reconciler.ReconcileCourse(r.Context(), req.Actor, req.Course, req.Semester)
	if err != nil {
		var cooldown *app.CooldownActiveError
		if errors.As(err, &cooldown) {
			RespondWithError(w, http.StatusTooManyRequests, cooldown.Error())
			return
		}
		if errors.Is(err, app.ErrTriggerInProgress) {
			RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Errorf("Manual update for %s semester %d failed: %v", req.Course, req.Semester, err)
		RespondWithError(w, http.StatusInternalServerError, "Update failed")
		return
	}

	RespondWithJSON(w, http.StatusOK, updateDataResponse{
		Message: "Data updated",
		Summary: summary,
	})
}

type enqueueAnalysisRequest struct {
	CompletionID int64 `json:"completion_id"`
}

// EnqueueAnalysis queues a completed-but-unanalyzed submission for AI
// review. The call returns immediately; the background worker performs the
// actual analysis.
func (h *Handler) EnqueueAnalysis(w http.ResponseWriter, r *http.Request) {
	var req enqueueAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CompletionID <= 0 {
		RespondWithError(w, http.StatusBadRequest, "completion_id is required")
		return
	}

	if err := h.analyzer.EnqueueIfUnanalyzed(r.Context(), req.CompletionID); err != nil {
		h.logger.Errorf("Failed to enqueue analysis for completion %d: %v", req.CompletionID, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to enqueue analysis")
		return
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Queued"})
}

type rateLimitResponse struct {
	Remaining int   `json:"remaining"`
	Limit     int   `json:"limit"`
	Reset     int64 `json:"reset"`
}

// RateLimit reports the remaining GitHub quota of the scheduled-path token,
// for out-of-band operator checks.
func (h *Handler) RateLimit(w http.ResponseWriter, r *http.Request) {
	quota, err := h.diagClient.RateLimit(r.Context())
	if err != nil {
		h.logger.Errorf("Failed to fetch rate limit: %v", err)
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch rate limit")
		return
	}

	RespondWithJSON(w, http.StatusOK, rateLimitResponse{
		Remaining: quota.Remaining,
		Limit:     quota.Limit,
		Reset:     quota.Reset.Unix(),
	})
}

type setDeadlineRequest struct {
	Course   string `json:"course"`
	Semester int    `json:"semester"`
	Week     int    `json:"week"`
	LastDate string `json:"last_date"` // YYYY-MM-DD
}

type deadlineResponse struct {
	Course   string `json:"course"`
	Semester int    `json:"semester"`
	Week     int    `json:"week"`
	LastDate string `json:"last_date"`
}

// SetDeadline creates or replaces the submission deadline of one week.
// Reporting compares week commit dates against these to flag late work.
func (h *Handler) SetDeadline(w http.ResponseWriter, r *http.Request) {
	var req setDeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Course == "" || req.Semester <= 0 || req.Week <= 0 {
		RespondWithError(w, http.StatusBadRequest, "course, semester and week are required")
		return
	}
	lastDate, err := time.Parse("2006-01-02", req.LastDate)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "last_date must be formatted as YYYY-MM-DD")
		return
	}

	d := &deadline.WeekDeadline{
		Course:   req.Course,
		Semester: req.Semester,
		Week:     req.Week,
		LastDate: lastDate,
	}
	if err := h.deadlineRepo.Set(r.Context(), d); err != nil {
		h.logger.Errorf("Failed to set deadline for %s semester %d week %d: %v", req.Course, req.Semester, req.Week, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to set deadline")
		return
	}

	RespondWithJSON(w, http.StatusOK, deadlineResponse{
		Course:   d.Course,
		Semester: d.Semester,
		Week:     d.Week,
		LastDate: d.LastDate.Format("2006-01-02"),
	})
}

// ListDeadlines returns every deadline of one course+semester, ordered by
// week.
func (h *Handler) ListDeadlines(w http.ResponseWriter, r *http.Request) {
	course := r.URL.Query().Get("course")
	semester, err := strconv.Atoi(r.URL.Query().Get("semester"))
	if course == "" || err != nil || semester <= 0 {
		RespondWithError(w, http.StatusBadRequest, "course and semester query parameters are required")
		return
	}

	deadlines, err := h.deadlineRepo.ListByCourseSemester(r.Context(), course, semester)
	if err != nil {
		h.logger.Errorf("Failed to list deadlines for %s semester %d: %v", course, semester, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to list deadlines")
		return
	}

	out := make([]deadlineResponse, 0, len(deadlines))
	for _, d := range deadlines {
		out = append(out, deadlineResponse{
			Course:   d.Course,
			Semester: d.Semester,
			Week:     d.Week,
			LastDate: d.LastDate.Format("2006-01-02"),
		})
	}
	RespondWithJSON(w, http.StatusOK, out)
}
