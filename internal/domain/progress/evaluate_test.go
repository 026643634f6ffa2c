package progress

import (
	"testing"

	"lab_tracker/internal/domain/githubapi"
)

func entry(name, downloadURL string) githubapi.Entry {
	return githubapi.Entry{Name: name, Type: "file", DownloadURL: downloadURL}
}

func TestEvaluateMatchesSolutionAndImage(t *testing.T) {
	listing := []githubapi.Entry{
		entry("Problem1.py", "https://raw.example.com/Problem1.py"),
		entry("Problem1.png", "https://raw.example.com/Problem1.png"),
		entry("README.md", "https://raw.example.com/README.md"),
	}

	ev := Evaluate("Problem 1", listing)

	if !ev.IsCompleted {
		t.Error("expected problem to be marked completed")
	}
	if ev.SolutionURL != "https://raw.example.com/Problem1.py" {
		t.Errorf("unexpected solution URL: %q", ev.SolutionURL)
	}
	if ev.OutputImageURL != "https://raw.example.com/Problem1.png" {
		t.Errorf("unexpected output image URL: %q", ev.OutputImageURL)
	}
}

func TestEvaluateNoMatch(t *testing.T) {
	listing := []githubapi.Entry{
		entry("Problem2.py", "https://raw.example.com/Problem2.py"),
		entry("notes.txt", "https://raw.example.com/notes.txt"),
	}

	ev := Evaluate("Problem 1", listing)

	if ev.IsCompleted {
		t.Error("expected problem to not be completed")
	}
	if ev.SolutionURL != "" || ev.OutputImageURL != "" {
		t.Errorf("expected empty URLs, got %q and %q", ev.SolutionURL, ev.OutputImageURL)
	}
}

// Pins the long-standing tie-break: when a problem is present under several
// extensions, the last extension in probe order supplies the recorded URL.
func TestEvaluateLastExtensionWins(t *testing.T) {
	listing := []githubapi.Entry{
		entry("Problem1.cpp", "https://raw.example.com/Problem1.cpp"),
		entry("Problem1.go", "https://raw.example.com/Problem1.go"),
		entry("Problem1.py", "https://raw.example.com/Problem1.py"),
	}

	ev := Evaluate("Problem 1", listing)

	if !ev.IsCompleted {
		t.Fatal("expected problem to be marked completed")
	}
	// Probe order ends ... .go .swift, so .go beats .cpp and .py.
	if ev.SolutionURL != "https://raw.example.com/Problem1.go" {
		t.Errorf("expected .go entry to win, got %q", ev.SolutionURL)
	}
}

func TestEvaluateStripsLabelWhitespace(t *testing.T) {
	listing := []githubapi.Entry{
		entry("Problem12.c", "https://raw.example.com/Problem12.c"),
	}

	ev := Evaluate("  Problem 12 ", listing)

	if !ev.IsCompleted {
		t.Error("expected whitespace-normalized label to match")
	}
}

func TestEvaluateIsPure(t *testing.T) {
	listing := []githubapi.Entry{
		entry("Problem1.java", "https://raw.example.com/Problem1.java"),
	}

	first := Evaluate("Problem 1", listing)
	second := Evaluate("Problem 1", listing)

	if first != second {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}
