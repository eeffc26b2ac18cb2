package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":5000" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":5000")
	}
	if cfg.LLMBackend != "ollama" {
		t.Fatalf("LLMBackend = %q, want %q", cfg.LLMBackend, "ollama")
	}
	if cfg.LLMModel != "llama3.2:3b" {
		t.Fatalf("LLMModel = %q, want %q", cfg.LLMModel, "llama3.2:3b")
	}
	if cfg.DefaultVoice != "v2/en_speaker_6" {
		t.Fatalf("DefaultVoice = %q, want %q", cfg.DefaultVoice, "v2/en_speaker_6")
	}
	if cfg.DefaultSpeed != 1.2 {
		t.Fatalf("DefaultSpeed = %v, want 1.2", cfg.DefaultSpeed)
	}
	if cfg.CaptureSampleRate != 16000 {
		t.Fatalf("CaptureSampleRate = %d, want 16000", cfg.CaptureSampleRate)
	}
}

func TestLoadRejectsUnknownModel(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("LLM_MODEL", "not-a-real-model")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() expected error for unknown LLM_MODEL")
	}
}

func TestLoadRejectsInvalidBackend(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("LLM_BACKEND", "bard")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() expected error for invalid LLM_BACKEND")
	}
}

func TestLoadRejectsNonPositiveSpeed(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("TTS_DEFAULT_SPEED", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() expected error for zero TTS_DEFAULT_SPEED")
	}
}

func TestLoadUsesExplicitOllamaURL(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("OLLAMA_BASE_URL", "http://10.0.0.5:11434")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OllamaBaseURL != "http://10.0.0.5:11434" {
		t.Fatalf("OllamaBaseURL = %q, want explicit value", cfg.OllamaBaseURL)
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"LLM_BACKEND",
		"OLLAMA_BASE_URL",
		"LLM_MODEL",
		"OPENAI_BASE_URL",
		"OPENAI_API_KEY",
		"PERSONA_TEXT",
		"PERSONA_RESPONSE_WORDS",
		"WHISPER_CLI",
		"WHISPER_MODEL_PATH",
		"WHISPER_LANGUAGE",
		"WHISPER_THREADS",
		"TTS_PYTHON",
		"TTS_WORKER_SCRIPT",
		"TTS_DEFAULT_VOICE",
		"TTS_DEFAULT_SPEED",
		"AUDIO_CAPTURE_CMD",
		"AUDIO_PLAYBACK_CMD",
		"AUDIO_CAPTURE_SAMPLE_RATE",
		"DATABASE_URL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}
