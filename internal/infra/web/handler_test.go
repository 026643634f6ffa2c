package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lab_tracker/internal/domain/deadline"
	"lab_tracker/internal/domain/githubapi"

	"github.com/sirupsen/logrus"
)

type fakeDiagClient struct {
	quota githubapi.Quota
	err   error
}

func (c *fakeDiagClient) ListDirectory(context.Context, string, string, string) ([]githubapi.Entry, error) {
	return nil, githubapi.ErrNotFound
}

func (c *fakeDiagClient) ListCommits(context.Context, string, string, string) ([]githubapi.Commit, error) {
	return nil, githubapi.ErrNotFound
}

func (c *fakeDiagClient) RateLimit(context.Context) (githubapi.Quota, error) {
	return c.quota, c.err
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRateLimitHandler(t *testing.T) {
	reset := time.Unix(1756650000, 0)
	client := &fakeDiagClient{quota: githubapi.Quota{Remaining: 4987, Limit: 5000, Reset: reset}}
	h := NewHandler(nil, nil, client, nil, silentLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/rate-limit", nil)
	rec := httptest.NewRecorder()

	h.RateLimit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body rateLimitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Remaining != 4987 || body.Limit != 5000 || body.Reset != reset.Unix() {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestRateLimitHandlerUpstreamFailure(t *testing.T) {
	client := &fakeDiagClient{err: fmt.Errorf("unexpected status 503 from /rate_limit")}
	h := NewHandler(nil, nil, client, nil, silentLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/rate-limit", nil)
	rec := httptest.NewRecorder()

	h.RateLimit(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

type fakeDeadlineRepo struct {
	deadlines []*deadline.WeekDeadline
}

func (r *fakeDeadlineRepo) Set(_ context.Context, d *deadline.WeekDeadline) error {
	for _, existing := range r.deadlines {
		if existing.Course == d.Course && existing.Semester == d.Semester && existing.Week == d.Week {
			existing.LastDate = d.LastDate
			return nil
		}
	}
	d.ID = int64(len(r.deadlines) + 1)
	r.deadlines = append(r.deadlines, d)
	return nil
}

func (r *fakeDeadlineRepo) Get(_ context.Context, course string, semester, week int) (*deadline.WeekDeadline, error) {
	for _, d := range r.deadlines {
		if d.Course == course && d.Semester == semester && d.Week == week {
			return d, nil
		}
	}
	return nil, fmt.Errorf("week deadline not found")
}

func (r *fakeDeadlineRepo) ListByCourseSemester(_ context.Context, course string, semester int) ([]*deadline.WeekDeadline, error) {
	out := make([]*deadline.WeekDeadline, 0)
	for _, d := range r.deadlines {
		if d.Course == course && d.Semester == semester {
			out = append(out, d)
		}
	}
	return out, nil
}

func TestSetAndListDeadlines(t *testing.T) {
	repo := &fakeDeadlineRepo{}
	h := NewHandler(nil, nil, &fakeDiagClient{}, repo, silentLogger())

	body := strings.NewReader(`{"course": "BCA", "semester": 3, "week": 1, "last_date": "2025-09-15"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/deadlines", body)
	rec := httptest.NewRecorder()

	h.SetDeadline(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("SetDeadline status = %d, body %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/deadlines?course=BCA&semester=3", nil)
	rec = httptest.NewRecorder()

	h.ListDeadlines(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ListDeadlines status = %d", rec.Code)
	}
	var listed []deadlineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(listed) != 1 || listed[0].Week != 1 || listed[0].LastDate != "2025-09-15" {
		t.Errorf("unexpected deadlines: %+v", listed)
	}
}

func TestSetDeadlineRejectsBadDate(t *testing.T) {
	h := NewHandler(nil, nil, &fakeDiagClient{}, &fakeDeadlineRepo{}, silentLogger())

	body := strings.NewReader(`{"course": "BCA", "semester": 3, "week": 1, "last_date": "15/09/2025"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/deadlines", body)
	rec := httptest.NewRecorder()

	h.SetDeadline(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
