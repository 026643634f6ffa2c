// internal/infra/githubapi/client.go
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"lab_tracker/internal/domain/githubapi"
)

const defaultBaseURL = "https://api.github.com"

// HTTPClient implements the githubapi.Client interface against the GitHub
// REST API. Each instance carries one bearer token; the scheduled and manual
// reconciliation paths are wired with separate instances so their quota
// pools stay independent.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(token string) *HTTPClient {
	return &HTTPClient{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewHTTPClientWithBaseURL is used by tests to point the client at a stub
// server.
func NewHTTPClientWithBaseURL(token, baseURL string) *HTTPClient {
	c := NewHTTPClient(token)
	c.baseURL = baseURL
	return c
}

// contentEntry mirrors one element of the contents API response.
type contentEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
	URL         string `json:"url"`
}

// commitEntry mirrors one element of the commits API response.
type commitEntry struct {
	SHA    string `json:"sha"`
	Commit struct {
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

type rateLimitResponse struct {
	Rate struct {
		Remaining int   `json:"remaining"`
		Limit     int   `json:"limit"`
		Reset     int64 `json:"reset"`
	} `json:"rate"`
}

func (c *HTTPClient) ListDirectory(ctx context.Context, owner, repo, path string) ([]githubapi.Entry, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, path)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var raw []contentEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error decoding directory listing for %s/%s/%s: %w", owner, repo, path, err)
	}

	entries := make([]githubapi.Entry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, githubapi.Entry{
			Name:        e.Name,
			Type:        e.Type,
			DownloadURL: e.DownloadURL,
			URL:         e.URL,
		})
	}
	return entries, nil
}

func (c *HTTPClient) ListCommits(ctx context.Context, owner, repo, path string) ([]githubapi.Commit, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?path=%s", c.baseURL, owner, repo, url.QueryEscape(path))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var raw []commitEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error decoding commit list for %s/%s path %s: %w", owner, repo, path, err)
	}

	// The API returns commits newest first; that order is preserved.
	commits := make([]githubapi.Commit, 0, len(raw))
	for _, e := range raw {
		commits = append(commits, githubapi.Commit{
			SHA:         e.SHA,
			CommittedAt: e.Commit.Committer.Date,
		})
	}
	return commits, nil
}

func (c *HTTPClient) RateLimit(ctx context.Context) (githubapi.Quota, error) {
	body, err := c.get(ctx, c.baseURL+"/rate_limit")
	if err != nil {
		return githubapi.Quota{}, err
	}

	var raw rateLimitResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return githubapi.Quota{}, fmt.Errorf("error decoding rate limit response: %w", err)
	}

	return githubapi.Quota{
		Remaining: raw.Rate.Remaining,
		Limit:     raw.Rate.Limit,
		Reset:     time.Unix(raw.Rate.Reset, 0),
	}, nil
}

// get performs one authenticated GET, translating a 404 into
// githubapi.ErrNotFound and any other non-2xx status into a transient error.
func (c *HTTPClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, githubapi.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 403/429 (rate limit exhaustion) lands here as well and is handled
		// by callers the same way as any other transient failure.
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %w", endpoint, err)
	}
	return body, nil
}
