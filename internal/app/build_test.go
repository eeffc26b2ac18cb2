package app

import (
	"context"
	"strings"
	"testing"

	"github.com/lcavallo/talkie/internal/config"
	"github.com/lcavallo/talkie/internal/stt"
)

// speechlessConfig points the speech adapters at tooling that cannot exist.
func speechlessConfig() config.Config {
	return config.Config{
		LLMBackend:       "ollama",
		LLMModel:         "llama3.2:3b",
		LLMModels:        config.DefaultModels,
		WhisperCLI:       "definitely-not-a-whisper-cli",
		WhisperModelPath: "does/not/exist.bin",
		TTSPython:        "definitely-not-a-python",
		TTSWorkerScript:  "does/not/exist.py",
		DefaultVoice:     "v2/en_speaker_6",
		DefaultSpeed:     1.2,
		ResponseWords:    20,
	}
}

func TestBuildFailsWhenSpeechToolingMissing(t *testing.T) {
	_, err := Build(context.Background(), speechlessConfig(), Options{})
	if err == nil {
		t.Fatalf("Build() error = nil, want speech adapter init failure")
	}
	if !strings.Contains(err.Error(), "speech-to-text init") {
		t.Fatalf("Build() error = %v, want speech-to-text init failure", err)
	}
}

func TestBuildFallsBackToMocksWhenAllowed(t *testing.T) {
	c, err := Build(context.Background(), speechlessConfig(), Options{SpeechFallback: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer c.Close()

	if _, ok := c.Transcriber.(*stt.MockTranscriber); !ok {
		t.Fatalf("Transcriber = %T, want mock fallback", c.Transcriber)
	}
}

func TestBuildMockBackendOptsIntoMockSpeech(t *testing.T) {
	cfg := speechlessConfig()
	cfg.LLMBackend = "mock"

	c, err := Build(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer c.Close()

	if _, ok := c.Transcriber.(*stt.MockTranscriber); !ok {
		t.Fatalf("Transcriber = %T, want mock for LLM_BACKEND=mock", c.Transcriber)
	}
	if c.Synth == nil {
		t.Fatalf("Synth = nil")
	}
}

func TestBuildRejectsOpenAIWithoutKey(t *testing.T) {
	cfg := speechlessConfig()
	cfg.LLMBackend = "openai"

	if _, err := Build(context.Background(), cfg, Options{}); err == nil {
		t.Fatalf("Build() error = nil, want missing OPENAI_API_KEY failure")
	}
}
