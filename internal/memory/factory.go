package memory

import (
	"context"
	"strings"
)

// NewStore creates a postgres-backed store when configured, otherwise a
// no-op store.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return Noop{}, nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
