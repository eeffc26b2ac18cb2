package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	userPrefix      = "Human: "
	assistantPrefix = "Assistant: "
)

// Turn is one utterance in a conversation. Immutable once recorded.
type Turn struct {
	ID        string
	Role      string
	Text      string
	CreatedAt time.Time
}

// Transcript is the ordered conversation memory used to condition the
// language model. Append-only during a session; Reset clears it wholesale.
// All access is serialized by the internal mutex.
type Transcript struct {
	mu    sync.Mutex
	turns []Turn
}

func NewTranscript() *Transcript { return &Transcript{} }

func (t *Transcript) Append(role, text string) Turn {
	turn := Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	t.mu.Lock()
	t.turns = append(t.turns, turn)
	t.mu.Unlock()
	return turn
}

func (t *Transcript) Reset() {
	t.mu.Lock()
	t.turns = nil
	t.mu.Unlock()
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}

func (t *Transcript) Turns() []Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Render joins the transcript into the history block fed to the prompt
// template, one speaker-prefixed line per turn in recency order.
func (t *Transcript) Render() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	lines := make([]string, 0, len(t.turns))
	for _, turn := range t.turns {
		prefix := userPrefix
		if turn.Role == RoleAssistant {
			prefix = assistantPrefix
		}
		lines = append(lines, prefix+turn.Text)
	}
	return strings.Join(lines, "\n")
}

// Sessions partitions transcripts by session identifier so concurrent web
// clients do not share one process-wide conversation. Callers that send no
// identifier all land on DefaultSession, which matches the original
// single-transcript behavior.
type Sessions struct {
	mu          sync.Mutex
	transcripts map[string]*Transcript
}

// DefaultSession is the transcript key used when a client supplies no
// session identifier.
const DefaultSession = "default"

func NewSessions() *Sessions {
	return &Sessions{transcripts: make(map[string]*Transcript)}
}

// Get returns the transcript for id, creating it on first use. An empty id
// maps to DefaultSession.
func (s *Sessions) Get(id string) *Transcript {
	id = strings.TrimSpace(id)
	if id == "" {
		id = DefaultSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transcripts[id]
	if !ok {
		t = NewTranscript()
		s.transcripts[id] = t
	}
	return t
}

// Reset clears the transcript for id.
func (s *Sessions) Reset(id string) {
	s.Get(id).Reset()
}
