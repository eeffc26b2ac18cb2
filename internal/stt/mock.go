package stt

import (
	"context"
	"sync"
)

// MockTranscriber is a test double returning a fixed text per call.
type MockTranscriber struct {
	mu    sync.Mutex
	Text  string
	Err   error
	calls int
}

func NewMockTranscriber(text string) *MockTranscriber {
	return &MockTranscriber{Text: text}
}

func (m *MockTranscriber) Transcribe(_ context.Context, samples []float32, _ int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return "", m.Err
	}
	if len(samples) == 0 {
		return "", nil
	}
	return m.Text, nil
}

func (m *MockTranscriber) TranscribeFile(_ context.Context, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return "", m.Err
	}
	if len(data) == 0 {
		return "", nil
	}
	return m.Text, nil
}

func (m *MockTranscriber) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
