package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lcavallo/talkie/internal/audio"
)

type BarkConfig struct {
	Python       string
	WorkerScript string
}

// BarkBackend drives a long-lived Python worker process hosting the Bark
// model. Requests and responses are line-delimited JSON over stdin/stdout;
// audio comes back as base64 PCM16LE.
type BarkBackend struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	dec    *json.Decoder
	closed bool
}

type barkRequest struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type barkResponse struct {
	ID          string `json:"id"`
	OK          bool   `json:"ok"`
	SampleRate  int    `json:"sample_rate"`
	AudioBase64 string `json:"audio_base64"`
	Error       string `json:"error"`
}

func StartBarkBackend(cfg BarkConfig) (*BarkBackend, error) {
	py := strings.TrimSpace(cfg.Python)
	if py == "" {
		for _, candidate := range []string{".venv/bin/python3", ".venv/bin/python", "python3"} {
			if p, err := exec.LookPath(candidate); err == nil && strings.TrimSpace(p) != "" {
				py = p
				break
			}
		}
	}
	if py == "" {
		return nil, fmt.Errorf("TTS_PYTHON not set and python3 not found on PATH")
	}

	script := strings.TrimSpace(cfg.WorkerScript)
	if script == "" {
		script = "scripts/bark_worker.py"
	}
	if !filepath.IsAbs(script) {
		if wd, err := os.Getwd(); err == nil {
			script = filepath.Join(wd, script)
		}
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("bark worker script not found: %s", script)
	}

	cmd := exec.Command(py, "-u", script)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	b := &BarkBackend{cmd: cmd, stdin: stdin, dec: json.NewDecoder(stdout)}

	// Fire a cheap warmup request so model-load errors surface at startup
	// instead of on the first user turn.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if _, _, err := b.SynthesizeRaw(ctx, "warmup", "v2/en_speaker_6"); err != nil {
		_ = stdin.Close()
		_ = cmd.Process.Kill()
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("bark worker failed to start: %s", msg)
	}

	return b, nil
}

func (b *BarkBackend) SynthesizeRaw(_ context.Context, text, voice string) (int, []float32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, nil, fmt.Errorf("bark worker closed")
	}

	id := fmt.Sprintf("req-%d", time.Now().UnixNano())
	line, _ := json.Marshal(barkRequest{ID: id, Text: text, Voice: voice})
	line = append(line, '\n')
	if _, err := b.stdin.Write(line); err != nil {
		return 0, nil, err
	}

	// Decode exactly one response (worker is single-flight guarded by mu).
	var resp barkResponse
	if err := b.dec.Decode(&resp); err != nil {
		return 0, nil, err
	}
	if resp.ID != id {
		return 0, nil, fmt.Errorf("bark worker out-of-sync (got %q, expected %q)", resp.ID, id)
	}
	if !resp.OK {
		msg := strings.TrimSpace(resp.Error)
		if msg == "" {
			msg = "unknown bark error"
		}
		return 0, nil, fmt.Errorf("%s", msg)
	}

	sampleRate := resp.SampleRate
	if sampleRate <= 0 {
		sampleRate = 24000
	}
	if strings.TrimSpace(resp.AudioBase64) == "" {
		return sampleRate, nil, nil
	}
	pcm, err := base64.StdEncoding.DecodeString(resp.AudioBase64)
	if err != nil {
		return 0, nil, fmt.Errorf("decode audio_base64: %w", err)
	}
	return sampleRate, audio.FloatsFromPCM16LE(pcm), nil
}

func (b *BarkBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	stdin := b.stdin
	cmd := b.cmd
	b.stdin = nil
	b.cmd = nil
	b.mu.Unlock()

	if stdin != nil {
		_ = stdin.Close()
	}
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	_ = cmd.Process.Signal(os.Interrupt)
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-time.After(1200 * time.Millisecond):
		_ = cmd.Process.Kill()
		<-done
	case <-done:
	}
	return nil
}
