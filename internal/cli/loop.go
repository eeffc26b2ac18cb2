package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lcavallo/talkie/internal/audio"
	"github.com/lcavallo/talkie/internal/chat"
	"github.com/lcavallo/talkie/internal/stt"
	"github.com/lcavallo/talkie/internal/tts"
)

// Loop drives the terminal conversation: record a take, transcribe it,
// generate a reply and speak it, until the input stream ends or the context
// is cancelled.
type Loop struct {
	recorder    Recorder
	player      Player
	transcriber stt.Transcriber
	engine      *chat.Engine
	synth       *tts.Service
	sampleRate  int

	in  io.Reader
	out io.Writer
}

func NewLoop(recorder Recorder, player Player, transcriber stt.Transcriber, engine *chat.Engine, synth *tts.Service, sampleRate int, in io.Reader, out io.Writer) *Loop {
	return &Loop{
		recorder:    recorder,
		player:      player,
		transcriber: transcriber,
		engine:      engine,
		synth:       synth,
		sampleRate:  sampleRate,
		in:          in,
		out:         out,
	}
}

type recordResult struct {
	samples []float32
	err     error
}

func (l *Loop) Run(ctx context.Context) error {
	lines := bufio.NewScanner(l.in)
	fmt.Fprintln(l.out, "Voice assistant ready. Ctrl+C to quit.")

	for {
		fmt.Fprint(l.out, "\nPress Enter to start recording... ")
		if !l.waitForEnter(ctx, lines) {
			return ctx.Err()
		}

		stop := make(chan struct{})
		results := make(chan recordResult, 1)
		go func() {
			samples, err := l.recorder.Record(ctx, stop)
			results <- recordResult{samples: samples, err: err}
		}()

		fmt.Fprint(l.out, "Recording... press Enter to stop. ")
		ok := l.waitForEnter(ctx, lines)
		close(stop)
		res := <-results
		if !ok {
			return ctx.Err()
		}
		if res.err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("recording failed: %v", res.err)
			continue
		}

		if err := l.runTurn(ctx, res.samples); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("turn failed: %v", err)
		}
	}
}

// runTurn feeds one recorded take through the pipeline. Empty takes never
// reach the transcriber.
func (l *Loop) runTurn(ctx context.Context, samples []float32) error {
	if len(samples) == 0 {
		fmt.Fprintln(l.out, "No audio captured; check the microphone and capture command.")
		return nil
	}

	userText, err := l.transcriber.Transcribe(ctx, samples, l.sampleRate)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	if strings.TrimSpace(userText) == "" {
		fmt.Fprintln(l.out, "Didn't catch that; try again.")
		return nil
	}
	fmt.Fprintf(l.out, "You: %s\n", strings.TrimSpace(userText))

	response, err := l.engine.Respond(ctx, chat.DefaultSession, userText)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fmt.Fprintf(l.out, "Assistant: %s\n", response)

	sampleRate, voiced, err := l.synth.LongFormSynthesize(ctx, response, "", 0)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	wavData, err := audio.EncodeWAVPCM16LE(audio.PCM16LEFromFloats(voiced), sampleRate)
	if err != nil {
		return fmt.Errorf("encode playback audio: %w", err)
	}
	if err := l.player.Play(ctx, wavData); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

// waitForEnter blocks for the next input line. Returns false when the input
// stream is exhausted or the context is cancelled.
func (l *Loop) waitForEnter(ctx context.Context, lines *bufio.Scanner) bool {
	if ctx.Err() != nil {
		return false
	}
	return lines.Scan()
}
