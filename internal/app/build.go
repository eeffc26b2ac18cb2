// Package app wires configuration into ready pipeline components shared by
// the terminal and web entrypoints.
package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/lcavallo/talkie/internal/chat"
	"github.com/lcavallo/talkie/internal/config"
	"github.com/lcavallo/talkie/internal/llm"
	"github.com/lcavallo/talkie/internal/memory"
	"github.com/lcavallo/talkie/internal/stt"
	"github.com/lcavallo/talkie/internal/tts"
)

// Options alters how speech adapters are constructed. With SpeechFallback
// set, missing whisper or Bark tooling degrades to mock adapters with a log
// line; without it, adapter init failure is a build failure. The web server
// builds without fallback so it never serves a silently mocked pipeline; the
// terminal loop opts in to stay usable on machines without the models.
type Options struct {
	SpeechFallback bool
}

// Components holds the assembled pipeline. Close releases worker processes
// and the persistence pool.
type Components struct {
	Engine      *chat.Engine
	Transcriber stt.Transcriber
	Synth       *tts.Service
	Store       memory.Store

	closers []func() error
}

func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

// Build constructs every pipeline component from cfg. LLM_BACKEND=mock is an
// explicit opt-in to a fully mocked pipeline, speech adapters included.
func Build(ctx context.Context, cfg config.Config, opts Options) (*Components, error) {
	c := &Components{}

	store, err := memory.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("memory store init: %w", err)
	}
	c.Store = store
	c.closers = append(c.closers, store.Close)

	factory, err := generatorFactory(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Engine = chat.NewEngine(chat.PromptTemplate{
		Persona:       cfg.PersonaText,
		ResponseWords: cfg.ResponseWords,
	}, factory(cfg.LLMModel), cfg.LLMModel, factory, store)

	c.Transcriber, err = buildTranscriber(cfg, opts)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Synth, err = buildSynth(cfg, opts, c)
	if err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func mockBackend(cfg config.Config) bool {
	return strings.ToLower(strings.TrimSpace(cfg.LLMBackend)) == "mock"
}

func generatorFactory(cfg config.Config) (chat.GeneratorFactory, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMBackend)) {
	case "ollama":
		return func(model string) llm.Generator {
			return llm.NewOllamaGenerator(cfg.OllamaBaseURL, model)
		}, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("LLM_BACKEND=openai requires OPENAI_API_KEY")
		}
		return func(model string) llm.Generator {
			return llm.NewOpenAIGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, model)
		}, nil
	case "mock":
		return func(string) llm.Generator {
			return llm.NewMockGenerator("Assistant: This is a canned reply.")
		}, nil
	default:
		return nil, fmt.Errorf("invalid LLM_BACKEND: %q", cfg.LLMBackend)
	}
}

func buildTranscriber(cfg config.Config, opts Options) (stt.Transcriber, error) {
	if mockBackend(cfg) {
		log.Printf("stt: mock transcriber (LLM_BACKEND=mock)")
		return stt.NewMockTranscriber("mock transcription"), nil
	}

	whisper, err := stt.NewWhisperTranscriber(stt.WhisperConfig{
		CLI:       cfg.WhisperCLI,
		ModelPath: cfg.WhisperModelPath,
		Language:  cfg.WhisperLanguage,
		Threads:   cfg.WhisperThreads,
	})
	if err != nil {
		if !opts.SpeechFallback {
			return nil, fmt.Errorf("speech-to-text init: %w", err)
		}
		log.Printf("whisper unavailable, using mock transcriber: %v", err)
		return stt.NewMockTranscriber("mock transcription"), nil
	}
	log.Printf("stt: whisper-cli (%s)", cfg.WhisperModelPath)
	return whisper, nil
}

func buildSynth(cfg config.Config, opts Options, c *Components) (*tts.Service, error) {
	if mockBackend(cfg) {
		log.Printf("tts: mock synthesizer (LLM_BACKEND=mock)")
		return tts.NewService(tts.NewMockBackend(), cfg.DefaultVoice, cfg.DefaultSpeed), nil
	}

	bark, err := tts.StartBarkBackend(tts.BarkConfig{
		Python:       cfg.TTSPython,
		WorkerScript: cfg.TTSWorkerScript,
	})
	if err != nil {
		if !opts.SpeechFallback {
			return nil, fmt.Errorf("speech synthesis init: %w", err)
		}
		log.Printf("bark worker unavailable, using mock synthesizer: %v", err)
		return tts.NewService(tts.NewMockBackend(), cfg.DefaultVoice, cfg.DefaultSpeed), nil
	}
	c.closers = append(c.closers, bark.Close)
	log.Printf("tts: bark worker (%s)", cfg.TTSWorkerScript)
	return tts.NewService(bark, cfg.DefaultVoice, cfg.DefaultSpeed), nil
}
