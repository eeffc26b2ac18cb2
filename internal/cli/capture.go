package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"syscall"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/lcavallo/talkie/internal/audio"
)

// Recorder captures one take of microphone audio between a start and a stop
// signal.
type Recorder interface {
	Record(ctx context.Context, stop <-chan struct{}) ([]float32, error)
}

// CommandRecorder runs an external capture command (arecord by default) that
// writes raw signed 16-bit little-endian mono PCM to stdout.
type CommandRecorder struct {
	cmdline    []string
	sampleRate int
}

func NewCommandRecorder(command string, sampleRate int) (*CommandRecorder, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse capture command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("capture command empty")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("capture sample rate must be positive, got %d", sampleRate)
	}
	return &CommandRecorder{cmdline: args, sampleRate: sampleRate}, nil
}

// SampleRate reports the rate the capture command is configured for.
func (r *CommandRecorder) SampleRate() int { return r.sampleRate }

// Record starts the capture process and drains its stdout until stop fires
// or the context is cancelled, then interrupts the process and returns the
// accumulated samples. A take where the process produced no bytes yields an
// empty slice and no error.
func (r *CommandRecorder) Record(ctx context.Context, stop <-chan struct{}) ([]float32, error) {
	cmd := exec.CommandContext(ctx, r.cmdline[0], r.cmdline[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capture stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start capture command: %w", err)
	}

	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		_, copyErr := io.Copy(&buf, stdout)
		done <- copyErr
	}()

	select {
	case <-stop:
	case <-ctx.Done():
	case err := <-done:
		// The process exited on its own before stop was requested.
		waitErr := cmd.Wait()
		if err != nil {
			return nil, fmt.Errorf("capture read: %w", err)
		}
		if waitErr != nil {
			return nil, fmt.Errorf("capture command: %w", waitErr)
		}
		return audio.FloatsFromPCM16LE(buf.Bytes()), ctx.Err()
	}

	// SIGINT lets arecord flush buffered frames before exiting.
	if cmd.Process != nil {
		_ = cmd.Process.Signal(syscall.SIGINT)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		_ = cmd.Process.Kill()
		<-done
	}
	_ = cmd.Wait()

	return audio.FloatsFromPCM16LE(buf.Bytes()), ctx.Err()
}
