package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the voice conversation service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	LLMBackend    string
	OllamaBaseURL string
	LLMModel      string
	// LLMModels is the whitelist of model identifiers a client may switch to
	// at runtime. Keyed by model id, value is a display label.
	LLMModels map[string]string

	OpenAIBaseURL string
	OpenAIAPIKey  string

	PersonaText   string
	ResponseWords int

	WhisperCLI       string
	WhisperModelPath string
	WhisperLanguage  string
	WhisperThreads   int

	TTSPython       string
	TTSWorkerScript string
	DefaultVoice    string
	DefaultSpeed    float64

	CaptureCommand    string
	PlaybackCommand   string
	CaptureSampleRate int

	DatabaseURL string
}

// DefaultModels mirrors the Ollama tags the service is known to work with.
// Settings updates only accept identifiers from this set.
var DefaultModels = map[string]string{
	"llama3.2:3b":  "Llama 3.2 3B (Fast)",
	"llama3.2:1b":  "Llama 3.2 1B (Fastest)",
	"llama3.1:8b":  "Llama 3.1 8B (Better Quality)",
	"llama3.1:70b": "Llama 3.1 70B (Best Quality)",
	"qwen2.5:3b":   "Qwen 2.5 3B (Alternative)",
	"mistral:7b":   "Mistral 7B (Alternative)",
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":5000"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "talkie"),
		LLMBackend:       envOrDefault("LLM_BACKEND", "ollama"),
		OllamaBaseURL:    envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
		LLMModel:         envOrDefault("LLM_MODEL", "llama3.2:3b"),
		LLMModels:        DefaultModels,
		OpenAIBaseURL:    trimmedEnv("OPENAI_BASE_URL"),
		OpenAIAPIKey:     trimmedEnv("OPENAI_API_KEY"),
		PersonaText: envOrDefault("PERSONA_TEXT",
			"You are a helpful and friendly AI assistant. You are polite, respectful,"),
		ResponseWords:     20,
		WhisperCLI:        envOrDefault("WHISPER_CLI", "whisper-cli"),
		WhisperModelPath:  envOrDefault("WHISPER_MODEL_PATH", ".models/whisper/ggml-base.en.bin"),
		WhisperLanguage:   envOrDefault("WHISPER_LANGUAGE", "en"),
		WhisperThreads:    0,
		TTSPython:         trimmedEnv("TTS_PYTHON"),
		TTSWorkerScript:   envOrDefault("TTS_WORKER_SCRIPT", "scripts/bark_worker.py"),
		DefaultVoice:      envOrDefault("TTS_DEFAULT_VOICE", "v2/en_speaker_6"),
		DefaultSpeed:      1.2,
		CaptureCommand:    envOrDefault("AUDIO_CAPTURE_CMD", "arecord -q -f S16_LE -r 16000 -c 1 -t raw -"),
		PlaybackCommand:   envOrDefault("AUDIO_PLAYBACK_CMD", "aplay -q -"),
		CaptureSampleRate: 16000,
		DatabaseURL:       trimmedEnv("DATABASE_URL"),
		ShutdownTimeout:   15 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ResponseWords, err = intFromEnv("PERSONA_RESPONSE_WORDS", cfg.ResponseWords)
	if err != nil {
		return Config{}, err
	}
	cfg.WhisperThreads, err = intFromEnv("WHISPER_THREADS", cfg.WhisperThreads)
	if err != nil {
		return Config{}, err
	}
	cfg.DefaultSpeed, err = floatFromEnv("TTS_DEFAULT_SPEED", cfg.DefaultSpeed)
	if err != nil {
		return Config{}, err
	}
	cfg.CaptureSampleRate, err = intFromEnv("AUDIO_CAPTURE_SAMPLE_RATE", cfg.CaptureSampleRate)
	if err != nil {
		return Config{}, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.LLMBackend)) {
	case "ollama", "openai", "mock":
	default:
		return Config{}, fmt.Errorf("LLM_BACKEND must be one of ollama|openai|mock, got %q", cfg.LLMBackend)
	}
	if _, ok := cfg.LLMModels[cfg.LLMModel]; !ok {
		return Config{}, fmt.Errorf("LLM_MODEL %q is not in the supported model set", cfg.LLMModel)
	}
	if cfg.ResponseWords <= 0 {
		return Config{}, fmt.Errorf("PERSONA_RESPONSE_WORDS must be positive")
	}
	if cfg.WhisperThreads < 0 {
		return Config{}, fmt.Errorf("WHISPER_THREADS must be >= 0")
	}
	if cfg.DefaultSpeed <= 0 {
		return Config{}, fmt.Errorf("TTS_DEFAULT_SPEED must be positive")
	}
	if cfg.CaptureSampleRate <= 0 {
		return Config{}, fmt.Errorf("AUDIO_CAPTURE_SAMPLE_RATE must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}
