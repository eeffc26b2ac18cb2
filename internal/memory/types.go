package memory

import (
	"context"
	"time"
)

// TurnRecord stores a single user or assistant conversational turn.
type TurnRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists conversational transcripts.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentContext(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)
	Close() error
}

// Noop discards every record. Used when no DATABASE_URL is configured; the
// in-process transcript alone drives prompting.
type Noop struct{}

func (Noop) SaveTurn(context.Context, TurnRecord) error { return nil }

func (Noop) RecentContext(context.Context, string, int) ([]TurnRecord, error) {
	return nil, nil
}

func (Noop) Close() error { return nil }
