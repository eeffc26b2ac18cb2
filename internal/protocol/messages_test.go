package protocol

import (
	"errors"
	"testing"
)

func TestParseClientMessageAudioChunk(t *testing.T) {
	raw := []byte(`{"type":"audio_chunk","pcm16_base64":"AAA=","sample_rate":16000}`)
	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	chunk, ok := msg.(AudioChunk)
	if !ok {
		t.Fatalf("message type = %T, want AudioChunk", msg)
	}
	if chunk.SampleRate != 16000 {
		t.Fatalf("SampleRate = %d, want 16000", chunk.SampleRate)
	}
}

func TestParseClientMessageRejectsMissingFields(t *testing.T) {
	raw := []byte(`{"type":"audio_chunk","pcm16_base64":"","sample_rate":0}`)
	if _, err := ParseClientMessage(raw); err == nil {
		t.Fatalf("ParseClientMessage() expected error for empty chunk")
	}
}

func TestParseClientMessageControl(t *testing.T) {
	raw := []byte(`{"type":"control","action":"commit"}`)
	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	ctl, ok := msg.(Control)
	if !ok {
		t.Fatalf("message type = %T, want Control", msg)
	}
	if ctl.Action != ActionCommit {
		t.Fatalf("Action = %q, want %q", ctl.Action, ActionCommit)
	}
}

func TestParseClientMessageRejectsUnknownAction(t *testing.T) {
	raw := []byte(`{"type":"control","action":"explode"}`)
	if _, err := ParseClientMessage(raw); err == nil {
		t.Fatalf("ParseClientMessage() expected error for unknown action")
	}
}

func TestParseClientMessageUnsupportedType(t *testing.T) {
	raw := []byte(`{"type":"assistant_text","text":"nope"}`)
	_, err := ParseClientMessage(raw)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("ParseClientMessage() error = %v, want ErrUnsupportedType", err)
	}
}
