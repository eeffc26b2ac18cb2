package httpapi

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lcavallo/talkie/internal/audio"
	"github.com/lcavallo/talkie/internal/protocol"
)

// handleConversationWS runs a full record → transcribe → generate →
// synthesize turn over a websocket. The client streams audio_chunk messages
// and sends a commit control when the utterance is complete; the server
// answers with user_text, assistant_text and assistant_audio events.
func (s *Server) handleConversationWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.ActiveConversations.Inc()
	defer s.metrics.ActiveConversations.Dec()

	session := sessionID(r)
	if session == "" {
		session = uuid.NewString()
	}

	var (
		pcm        []byte
		sampleRate = s.cfg.CaptureSampleRate
	)

	writeJSON := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
		return conn.WriteJSON(v) == nil
	}
	writeErr := func(code, detail string) bool {
		return writeJSON(protocol.ErrorEvent{Type: protocol.TypeErrorEvent, Code: code, Detail: detail})
	}

	conn.SetReadLimit(2 << 20)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			if !writeErr("invalid_client_message", err.Error()) {
				return
			}
			continue
		}

		switch msg := parsed.(type) {
		case protocol.AudioChunk:
			decoded, err := base64.StdEncoding.DecodeString(msg.PCM16Base64)
			if err != nil {
				if !writeErr("invalid_audio", err.Error()) {
					return
				}
				continue
			}
			var fits bool
			pcm, fits = appendBounded(pcm, decoded, maxUploadBytes)
			if !fits {
				pcm = nil
				if !writeErr("audio_too_large", "buffered audio exceeds limit, take discarded") {
					return
				}
				continue
			}
			sampleRate = msg.SampleRate

		case protocol.Control:
			switch msg.Action {
			case protocol.ActionReset:
				pcm = nil
				s.engine.Sessions().Reset(session)
			case protocol.ActionCommit:
				buffered := pcm
				pcm = nil
				if !s.runTurn(r.Context(), conn, session, buffered, sampleRate, writeJSON, writeErr) {
					return
				}
			}
		}
	}
}

// appendBounded grows buf with chunk unless the result would exceed max
// bytes, reporting whether the chunk was accepted.
func appendBounded(buf, chunk []byte, max int) ([]byte, bool) {
	if len(buf)+len(chunk) > max {
		return buf, false
	}
	return append(buf, chunk...), true
}

func (s *Server) runTurn(ctx context.Context, _ *websocket.Conn, session string, pcm []byte, sampleRate int, writeJSON func(any) bool, writeErr func(string, string) bool) bool {
	samples := audio.FloatsFromPCM16LE(pcm)
	if len(samples) == 0 {
		return writeErr("empty_audio", "no audio buffered before commit")
	}

	userText, err := s.transcriber.Transcribe(ctx, samples, sampleRate)
	if err != nil {
		s.metrics.StageErrors.WithLabelValues("transcribe").Inc()
		return writeErr("transcription_failed", err.Error())
	}
	if userText == "" {
		return writeErr("empty_transcription", "no speech recognized in audio")
	}
	if !writeJSON(protocol.UserText{Type: protocol.TypeUserText, Text: userText}) {
		return false
	}

	response, err := s.engine.Respond(ctx, session, userText)
	if err != nil {
		s.metrics.StageErrors.WithLabelValues("generate").Inc()
		return writeErr("chat_failed", err.Error())
	}
	turnID := uuid.NewString()
	if !writeJSON(protocol.AssistantText{Type: protocol.TypeAssistantText, TurnID: turnID, Text: response}) {
		return false
	}

	outRate, outSamples, err := s.synth.Synthesize(ctx, response, "", 0)
	if err != nil {
		s.metrics.StageErrors.WithLabelValues("synthesize").Inc()
		return writeErr("synthesis_failed", err.Error())
	}
	wavBytes, err := audio.EncodeWAVPCM16LE(audio.PCM16LEFromFloats(outSamples), outRate)
	if err != nil {
		return writeErr("synthesis_failed", err.Error())
	}

	return writeJSON(protocol.AssistantAudio{
		Type:        protocol.TypeAssistantAudio,
		TurnID:      turnID,
		AudioBase64: base64.StdEncoding.EncodeToString(wavBytes),
		SampleRate:  outRate,
	})
}
