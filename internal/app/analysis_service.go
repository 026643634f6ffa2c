// internal/app/analysis_service.go
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"lab_tracker/internal/domain/analysis"
	"lab_tracker/internal/domain/problem"
	"lab_tracker/internal/domain/progress"

	"github.com/sirupsen/logrus"
)

// reviewPromptFormat asks the model for a strictly two-part answer so the
// response can be split by answerPattern below.
const reviewPromptFormat = "You are an expert code reviewer.\n" +
	"Given the following problem and code, provide a concise and precise analysis.\n\n" +
	"Problem Description:\n%s\n\n" +
	"Code:\n%s\n\n" +
	"Answer the following:\n" +
	"1. What does the code do? What language is it written in?\n" +
	"2. Does it solve the problem correctly?\n" +
	"Keep the response short and clear. Do not repeat the code or problem description.\n"

// answerPattern extracts the two numbered answers out of the free-text
// model response.
var answerPattern = regexp.MustCompile(`(?s)1\.\s*(.+?)\s*2\.\s*(.+)`)

// unrecognizedMarker prefixes responses that did not match answerPattern;
// the raw text is still stored rather than discarded.
const unrecognizedMarker = "AI response format not recognized:"

// failureSignatures are answer prefixes that indicate the upstream call
// failed in-band. Such results are not persisted, so the completion stays
// unanalyzed and gets re-enqueued the next time it is displayed.
var failureSignatures = []string{"no code submitted", "ai request failed", "gemini api error"}

// AnalysisService is the single consumer of the AnalysisQueue. For each
// dequeued completion it fetches the submitted source text, asks the
// text-generation model for a review, and persists the result. Failures are
// logged and dropped; there are no retries and no dead-letter queue.
type AnalysisService struct {
	queue          *AnalysisQueue
	completionRepo progress.CompletionRepository
	problemRepo    problem.Repository
	generator      analysis.Generator
	limiter        *FixedWindowLimiter
	httpClient     *http.Client
	logger         *logrus.Logger
}

func NewAnalysisService(
	queue *AnalysisQueue,
	cr progress.CompletionRepository,
	pr problem.Repository,
	gen analysis.Generator,
	limiter *FixedWindowLimiter,
	logger *logrus.Logger,
) *AnalysisService {
	return &AnalysisService{
		queue:          queue,
		completionRepo: cr,
		problemRepo:    pr,
		generator:      gen,
		limiter:        limiter,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		logger:         logger,
	}
}

// EnqueueIfUnanalyzed queues a completion for review when it is completed
// and carries no analysis yet. Enqueueing is at-least-once: callers may race
// and queue the same completion twice, which the consumer tolerates.
func (s *AnalysisService) EnqueueIfUnanalyzed(ctx context.Context, completionID int64) error {
	c, err := s.completionRepo.GetByID(ctx, completionID)
	if err != nil {
		return fmt.Errorf("failed to load completion %d: %w", completionID, err)
	}
	if !c.IsCompleted || c.AIAnalysis.Valid {
		return nil
	}
	s.queue.Enqueue(completionID)
	return nil
}

// Start runs the consumer loop until ctx is cancelled. It is meant to be
// started exactly once, as a goroutine, from the application's startup
// sequence.
func (s *AnalysisService) Start(ctx context.Context) {
	s.logger.Info("Analysis worker started.")

	// Dequeue blocks without watching ctx, so cancellation is propagated by
	// closing the queue.
	go func() {
		<-ctx.Done()
		s.queue.Close()
	}()

	for {
		completionID, ok := s.queue.Dequeue()
		if !ok {
			s.logger.Info("Analysis worker stopping.")
			return
		}

		s.limiter.Acquire()
		s.process(ctx, completionID)
	}
}

// process handles one queued completion end to end. Every failure mode
// leaves ai_analysis untouched so the item is naturally picked up again.
func (s *AnalysisService) process(ctx context.Context, completionID int64) {
	c, err := s.completionRepo.GetByID(ctx, completionID)
	if err != nil {
		s.logger.Errorf("Analysis: failed to load completion %d: %v", completionID, err)
		return
	}
	if !c.IsCompleted || c.AIAnalysis.Valid || !c.SolutionURL.Valid {
		return // nothing to do (duplicate enqueue, or state changed since)
	}

	code, err := s.fetchSolution(ctx, c.SolutionURL.String)
	if err != nil {
		s.logger.Errorf("Analysis: failed to fetch code from %s: %v", c.SolutionURL.String, err)
		return
	}
	if code == "" {
		s.logger.Warnf("Analysis: no code at %s, skipping.", c.SolutionURL.String)
		return
	}

	p, err := s.problemRepo.GetByID(ctx, c.ProblemID)
	if err != nil {
		s.logger.Errorf("Analysis: failed to load problem %d: %v", c.ProblemID, err)
		return
	}

	result, err := s.generator.Generate(ctx, fmt.Sprintf(reviewPromptFormat, p.Description, code))
	if err != nil {
		s.logger.Errorf("Analysis: generation failed for completion %d: %v", completionID, err)
		return
	}

	review, ok := parseReview(result)
	if !ok {
		s.logger.Warnf("Analysis: result for completion %d carries a failure signature, not persisting.", completionID)
		return
	}

	if err := s.completionRepo.UpdateAnalysis(ctx, completionID, review); err != nil {
		s.logger.Errorf("Analysis: failed to store review for completion %d: %v", completionID, err)
		return
	}
	s.logger.Infof("Analysis: stored review for completion %d.", completionID)
}

func (s *AnalysisService) fetchSolution(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d fetching solution", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// parseReview normalizes the raw model output. It returns false when the
// text carries a known failure signature; a structurally unrecognized but
// otherwise valid response is kept, prefixed with a marker.
func parseReview(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	lowered := strings.ToLower(trimmed)
	for _, sig := range failureSignatures {
		if strings.HasPrefix(lowered, sig) {
			return "", false
		}
	}

	match := answerPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return unrecognizedMarker + "\n\n" + trimmed, true
	}
	return fmt.Sprintf("1. %s\n\n2. %s", strings.TrimSpace(match[1]), strings.TrimSpace(match[2])), true
}
