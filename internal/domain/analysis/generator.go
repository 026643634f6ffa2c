package analysis

import "context"

// Generator defines an interface for producing free-text output from a
// prompt via an external text-generation model. No structured schema is
// guaranteed by the upstream service; callers must parse defensively.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
