package cli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// Player plays one synthesized utterance to completion.
type Player interface {
	Play(ctx context.Context, wavData []byte) error
}

// CommandPlayer pipes a WAV container into an external playback command
// (aplay by default) and waits for it to finish.
type CommandPlayer struct {
	cmdline []string
}

func NewCommandPlayer(command string) (*CommandPlayer, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse playback command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("playback command empty")
	}
	return &CommandPlayer{cmdline: args}, nil
}

func (p *CommandPlayer) Play(ctx context.Context, wavData []byte) error {
	cmd := exec.CommandContext(ctx, p.cmdline[0], p.cmdline[1:]...)
	cmd.Stdin = bytes.NewReader(wavData)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("playback command: %w (%s)", err, bytes.TrimSpace(out))
	}
	return nil
}
