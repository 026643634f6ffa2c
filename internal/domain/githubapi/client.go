package githubapi

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound signals that the repository or path does not exist upstream.
// Callers treat this as "nothing to reconcile", not as a failure.
var ErrNotFound = errors.New("github: repository or path not found")

// Entry is one item of a directory listing returned by the contents API.
type Entry struct {
	Name        string
	Type        string // "file" or "dir"
	DownloadURL string
	URL         string // API URL of the entry itself (used to list subdirectories)
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Type == "dir" }

// Commit is one commit as reported by the commits API.
type Commit struct {
	SHA         string
	CommittedAt time.Time
}

// Quota is the state of the API rate limit for the authenticated token.
type Quota struct {
	Remaining int
	Limit     int
	Reset     time.Time
}

// Client defines an interface for reading repository contents and commit
// metadata from the code-hosting REST API. This decouples the reconciliation
// logic from the concrete HTTP client.
type Client interface {
	// ListDirectory lists the entries under path ("" for the repository
	// root). Returns ErrNotFound when the repository or path is absent; any
	// other error is transient.
	ListDirectory(ctx context.Context, owner, repo, path string) ([]Entry, error)
	// ListCommits lists the commits touching path, newest first.
	ListCommits(ctx context.Context, owner, repo, path string) ([]Commit, error)
	// RateLimit reports the remaining request quota of the token.
	RateLimit(ctx context.Context) (Quota, error)
}
