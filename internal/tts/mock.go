package tts

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockBackend is a deterministic test backend: each rune of input maps to a
// fixed number of samples, so buffer arithmetic is exact in tests.
type MockBackend struct {
	mu             sync.Mutex
	SampleRate     int
	SamplesPerRune int
	KnownVoices    map[string]struct{}
	calls          []string
}

func NewMockBackend() *MockBackend {
	return &MockBackend{SampleRate: 24000, SamplesPerRune: 100}
}

func (m *MockBackend) SynthesizeRaw(_ context.Context, text, voice string) (int, []float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.KnownVoices != nil {
		if _, ok := m.KnownVoices[voice]; !ok {
			return 0, nil, fmt.Errorf("history prompt not found: %s", voice)
		}
	}
	m.calls = append(m.calls, text)
	n := len([]rune(strings.TrimSpace(text))) * m.SamplesPerRune
	return m.SampleRate, make([]float32, n), nil
}

func (m *MockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
