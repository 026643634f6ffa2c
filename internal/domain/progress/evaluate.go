// internal/domain/progress/evaluate.go
package progress

import (
	"strings"

	"lab_tracker/internal/domain/githubapi"
)

// Extensions a solution file may carry, in the order they are probed.
var solutionExtensions = []string{".cpp", ".java", ".py", ".c", ".js", ".rb", ".go", ".swift"}

// Extensions an output screenshot may carry.
var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// Evaluation is the outcome of matching one problem against a week
// directory listing. Empty URL strings mean "no matching file".
type Evaluation struct {
	IsCompleted    bool
	SolutionURL    string
	OutputImageURL string
}

// Evaluate determines a problem's completion state from the directory
// listing of its week. The problem number is normalized by stripping all
// whitespace, then matched exactly against "<number><ext>" for every allowed
// extension. When several extensions match, the last one in probe order wins
// for the recorded URL; this ordering is long-standing observable behavior
// and is pinned by tests.
//
// Evaluate is a pure function: it performs no I/O and no persistence.
func Evaluate(problemNumber string, listing []githubapi.Entry) Evaluation {
	name := strings.ReplaceAll(problemNumber, " ", "")

	var ev Evaluation
	for _, ext := range solutionExtensions {
		if entry, ok := findEntry(listing, name+ext); ok {
			ev.IsCompleted = true
			ev.SolutionURL = entry.DownloadURL
		}
	}
	for _, ext := range imageExtensions {
		if entry, ok := findEntry(listing, name+ext); ok {
			ev.OutputImageURL = entry.DownloadURL
		}
	}
	return ev
}

func findEntry(listing []githubapi.Entry, name string) (githubapi.Entry, bool) {
	for _, entry := range listing {
		if entry.Name == name {
			return entry, true
		}
	}
	return githubapi.Entry{}, false
}
