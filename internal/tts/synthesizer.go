package tts

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lcavallo/talkie/internal/audio"
)

// sentenceGapSeconds is the fixed silence inserted after every synthesized
// sentence in long-form mode, the trailing sentence included.
const sentenceGapSeconds = 0.25

// Backend generates raw audio for a single piece of text with a given voice
// preset. An unrecognized preset surfaces as an opaque backend error.
type Backend interface {
	SynthesizeRaw(ctx context.Context, text, voice string) (sampleRate int, samples []float32, err error)
}

// Service is the speech synthesis adapter. It wraps a Backend with
// process-wide default voice and speed, playback-speed resampling, and
// long-form sentence-by-sentence synthesis.
type Service struct {
	backend Backend

	mu           sync.RWMutex
	defaultVoice string
	defaultSpeed float64
}

func NewService(backend Backend, defaultVoice string, defaultSpeed float64) *Service {
	if strings.TrimSpace(defaultVoice) == "" {
		defaultVoice = "v2/en_speaker_6"
	}
	if defaultSpeed <= 0 {
		defaultSpeed = 1.0
	}
	return &Service{
		backend:      backend,
		defaultVoice: defaultVoice,
		defaultSpeed: defaultSpeed,
	}
}

// DefaultVoice returns the process-wide default voice preset.
func (s *Service) DefaultVoice() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultVoice
}

// DefaultSpeed returns the process-wide default speed multiplier.
func (s *Service) DefaultSpeed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultSpeed
}

func (s *Service) SetDefaultVoice(voice string) {
	voice = strings.TrimSpace(voice)
	if voice == "" {
		return
	}
	s.mu.Lock()
	s.defaultVoice = voice
	s.mu.Unlock()
}

func (s *Service) SetDefaultSpeed(speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", speed)
	}
	s.mu.Lock()
	s.defaultSpeed = speed
	s.mu.Unlock()
	return nil
}

// Synthesize generates audio for text. Empty voice or non-positive speed fall
// back to the process-wide defaults. Speed > 1 shortens total duration by
// resampling the waveform to len/speed; pitch is not preserved.
func (s *Service) Synthesize(ctx context.Context, text, voice string, speed float64) (int, []float32, error) {
	voice, speed = s.resolve(voice, speed)

	sampleRate, samples, err := s.backend.SynthesizeRaw(ctx, text, voice)
	if err != nil {
		return 0, nil, err
	}
	if speed != 1.0 && len(samples) > 0 {
		samples = audio.Resample(samples, int(float64(len(samples))/speed))
	}
	return sampleRate, samples, nil
}

// LongFormSynthesize splits text into sentences, synthesizes each one
// independently and concatenates the pieces with a fixed silence gap after
// every sentence. Per-sentence synthesis avoids one long-context generation
// call at the cost of prosody discontinuity at the seams.
func (s *Service) LongFormSynthesize(ctx context.Context, text, voice string, speed float64) (int, []float32, error) {
	voice, speed = s.resolve(voice, speed)

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		sentences = []string{text}
	}

	var (
		pieces     [][]float32
		sampleRate int
	)
	for _, sent := range sentences {
		rate, samples, err := s.Synthesize(ctx, sent, voice, speed)
		if err != nil {
			return 0, nil, err
		}
		sampleRate = rate
		pieces = append(pieces, samples, audio.Silence(sentenceGapSeconds, rate))
	}

	total := 0
	for _, p := range pieces {
		total += len(p)
	}
	out := make([]float32, 0, total)
	for _, p := range pieces {
		out = append(out, p...)
	}
	return sampleRate, out, nil
}

func (s *Service) resolve(voice string, speed float64) (string, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if strings.TrimSpace(voice) == "" {
		voice = s.defaultVoice
	}
	if speed <= 0 {
		speed = s.defaultSpeed
	}
	return voice, speed
}
