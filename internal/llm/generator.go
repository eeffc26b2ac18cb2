package llm

import "context"

// Generator is a pluggable language-model backend. Generate blocks until the
// full completion is available; connectivity and generation errors propagate
// unretried.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Healthcheck reports whether the backend is reachable.
	Healthcheck(ctx context.Context) error
}
