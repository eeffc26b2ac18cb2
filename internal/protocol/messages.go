package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants on the live
// conversation stream.
type MessageType string

const (
	TypeAudioChunk     MessageType = "audio_chunk"
	TypeControl        MessageType = "control"
	TypeUserText       MessageType = "user_text"
	TypeAssistantText  MessageType = "assistant_text"
	TypeAssistantAudio MessageType = "assistant_audio"
	TypeErrorEvent     MessageType = "error"
)

// Control actions accepted from clients.
const (
	ActionCommit = "commit"
	ActionReset  = "reset"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// AudioChunk carries raw microphone audio from the client. Chunks
// accumulate server-side until a commit control arrives.
type AudioChunk struct {
	Type        MessageType `json:"type"`
	PCM16Base64 string      `json:"pcm16_base64"`
	SampleRate  int         `json:"sample_rate"`
}

type Control struct {
	Type   MessageType `json:"type"`
	Action string      `json:"action"`
}

type UserText struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

type AssistantText struct {
	Type   MessageType `json:"type"`
	TurnID string      `json:"turn_id"`
	Text   string      `json:"text"`
}

// AssistantAudio carries the synthesized reply as a base64 WAV container.
type AssistantAudio struct {
	Type        MessageType `json:"type"`
	TurnID      string      `json:"turn_id"`
	AudioBase64 string      `json:"audio_base64"`
	SampleRate  int         `json:"sample_rate"`
}

type ErrorEvent struct {
	Type   MessageType `json:"type"`
	Code   string      `json:"code"`
	Detail string      `json:"detail"`
}

// ParseClientMessage decodes and validates an inbound client payload.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeAudioChunk:
		var msg AudioChunk
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.PCM16Base64 == "" || msg.SampleRate <= 0 {
			return nil, errors.New("invalid audio_chunk")
		}
		return msg, nil
	case TypeControl:
		var msg Control
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Action != ActionCommit && msg.Action != ActionReset {
			return nil, fmt.Errorf("invalid control action %q", msg.Action)
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
