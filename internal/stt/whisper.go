package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/lcavallo/talkie/internal/audio"
)

type WhisperConfig struct {
	CLI       string
	ModelPath string
	Language  string
	Threads   int
}

// WhisperTranscriber shells out to a whisper.cpp CLI per request. The audio
// is written to a temp WAV file and the -otxt output is read back.
type WhisperTranscriber struct {
	cliPath   string
	modelPath string
	language  string
	threads   int
}

func NewWhisperTranscriber(cfg WhisperConfig) (*WhisperTranscriber, error) {
	cli := strings.TrimSpace(cfg.CLI)
	if cli == "" {
		cli = "whisper-cli"
	}
	cliPath, err := exec.LookPath(cli)
	if err != nil {
		return nil, fmt.Errorf("whisper.cpp CLI not found (%s)", cli)
	}

	modelPath := strings.TrimSpace(cfg.ModelPath)
	if modelPath == "" {
		return nil, fmt.Errorf("WHISPER_MODEL_PATH is required")
	}
	if !filepath.IsAbs(modelPath) {
		if wd, err := os.Getwd(); err == nil {
			modelPath = filepath.Join(wd, modelPath)
		}
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("whisper.cpp model not found: %s", modelPath)
	}

	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = "en"
	}

	threads := cfg.Threads
	if threads < 0 {
		return nil, fmt.Errorf("WHISPER_THREADS must be >= 0")
	}
	if threads == 0 {
		threads = 4
		if n := runtime.NumCPU(); n > 0 {
			threads = n
		}
		if threads > 8 {
			threads = 8
		}
		if threads < 2 {
			threads = 2
		}
	}

	return &WhisperTranscriber{
		cliPath:   cliPath,
		modelPath: modelPath,
		language:  language,
		threads:   threads,
	}, nil
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return w.transcribePCM(ctx, audio.PCM16LEFromFloats(samples), sampleRate)
}

func (w *WhisperTranscriber) TranscribeFile(ctx context.Context, data []byte) (string, error) {
	samples, sampleRate, err := audio.DecodeWAV(data)
	if err != nil {
		return "", err
	}
	return w.Transcribe(ctx, samples, sampleRate)
}

func (w *WhisperTranscriber) transcribePCM(ctx context.Context, pcm []byte, sampleRate int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "talkie-whisper-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	wavPath := filepath.Join(tmpDir, "audio.wav")
	if err := audio.WriteWAVPCM16LEFile(wavPath, pcm, sampleRate); err != nil {
		return "", err
	}
	outPrefix := filepath.Join(tmpDir, "out")

	// whisper.cpp CLI flag set varies slightly across builds; keep this conservative.
	args := []string{
		"-m", w.modelPath,
		"-f", wavPath,
		"-l", w.language,
		"-otxt",
		"-of", outPrefix,
		"-nt",
		"-t", strconv.Itoa(w.threads),
	}

	cmd := exec.CommandContext(ctx, w.cliPath, args...)
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", context.Canceled
		}
		detail := strings.TrimSpace(stderr.String())
		// whisper.cpp can be extremely chatty; keep errors readable.
		if len(detail) > 8<<10 {
			detail = strings.TrimSpace(detail[len(detail)-(8<<10):])
		}
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("whisper.cpp failed: %s", detail)
	}

	b, err := os.ReadFile(outPrefix + ".txt")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
