package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lcavallo/talkie/internal/chat"
	"github.com/lcavallo/talkie/internal/llm"
	"github.com/lcavallo/talkie/internal/stt"
	"github.com/lcavallo/talkie/internal/tts"
)

type stubRecorder struct {
	takes [][]float32
	calls int
}

func (r *stubRecorder) Record(_ context.Context, stop <-chan struct{}) ([]float32, error) {
	<-stop
	if r.calls >= len(r.takes) {
		return nil, nil
	}
	take := r.takes[r.calls]
	r.calls++
	return take, nil
}

type stubPlayer struct {
	played [][]byte
}

func (p *stubPlayer) Play(_ context.Context, wavData []byte) error {
	p.played = append(p.played, wavData)
	return nil
}

// enterPresses renders n terminal interactions (start + stop per take).
func enterPresses(n int) *strings.Reader {
	return strings.NewReader(strings.Repeat("\n\n", n))
}

func newLoopFixture(takes [][]float32, transcribed, generated string) (*Loop, *stubPlayer, *stt.MockTranscriber, *chat.Engine) {
	recorder := &stubRecorder{takes: takes}
	player := &stubPlayer{}
	transcriber := stt.NewMockTranscriber(transcribed)
	engine := chat.NewEngine(chat.PromptTemplate{ResponseWords: 20}, llm.NewMockGenerator(generated), "llama3.2:3b", nil, nil)
	synth := tts.NewService(tts.NewMockBackend(), "v2/en_speaker_6", 1.0)
	loop := NewLoop(recorder, player, transcriber, engine, synth, 16000, enterPresses(len(takes)), &bytes.Buffer{})
	return loop, player, transcriber, engine
}

func TestLoopRunsFullTurn(t *testing.T) {
	takes := [][]float32{make([]float32, 16000)}
	loop, player, _, engine := newLoopFixture(takes, "hello there", "Assistant: Hi!")

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(player.played) != 1 {
		t.Fatalf("played %d utterances, want 1", len(player.played))
	}
	if !bytes.HasPrefix(player.played[0], []byte("RIFF")) {
		t.Fatalf("playback payload is not a WAV container")
	}

	turns := engine.Sessions().Get(chat.DefaultSession).Turns()
	if len(turns) != 2 {
		t.Fatalf("transcript has %d turns, want 2", len(turns))
	}
	if turns[1].Text != "Hi!" {
		t.Fatalf("assistant turn = %q, want prefix stripped", turns[1].Text)
	}
}

func TestLoopSkipsEmptyTakeWithoutTranscribing(t *testing.T) {
	takes := [][]float32{{}}
	loop, player, transcriber, engine := newLoopFixture(takes, "should never appear", "Assistant: no")

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if transcriber.Calls() != 0 {
		t.Fatalf("transcriber called %d times on empty take, want 0", transcriber.Calls())
	}
	if len(player.played) != 0 {
		t.Fatalf("played %d utterances on empty take, want 0", len(player.played))
	}
	if got := engine.Sessions().Get(chat.DefaultSession).Len(); got != 0 {
		t.Fatalf("transcript has %d turns after empty take, want 0", got)
	}
}

func TestLoopSkipsBlankTranscription(t *testing.T) {
	takes := [][]float32{make([]float32, 16000)}
	loop, player, _, engine := newLoopFixture(takes, "   ", "Assistant: no")

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(player.played) != 0 {
		t.Fatalf("played %d utterances on blank transcription, want 0", len(player.played))
	}
	if got := engine.Sessions().Get(chat.DefaultSession).Len(); got != 0 {
		t.Fatalf("transcript has %d turns, want 0", got)
	}
}

func TestLoopHistoryAccumulatesAcrossTakes(t *testing.T) {
	takes := [][]float32{make([]float32, 16000), make([]float32, 16000)}
	loop, _, _, engine := newLoopFixture(takes, "hello again", "Assistant: sure")

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := engine.Sessions().Get(chat.DefaultSession).Len(); got != 4 {
		t.Fatalf("transcript has %d turns after two takes, want 4", got)
	}
}

func TestNewCommandRecorderRejectsBadInput(t *testing.T) {
	if _, err := NewCommandRecorder("", 16000); err == nil {
		t.Fatalf("NewCommandRecorder(\"\") error = nil, want error")
	}
	if _, err := NewCommandRecorder("arecord -q", 0); err == nil {
		t.Fatalf("NewCommandRecorder with zero sample rate error = nil, want error")
	}
}

func TestNewCommandPlayerRejectsEmptyCommand(t *testing.T) {
	if _, err := NewCommandPlayer("  "); err == nil {
		t.Fatalf("NewCommandPlayer(\"  \") error = nil, want error")
	}
}
