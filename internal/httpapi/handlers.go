package httpapi

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lcavallo/talkie/internal/audio"
	"github.com/lcavallo/talkie/internal/chat"
	"github.com/lcavallo/talkie/internal/memory"
	"github.com/lcavallo/talkie/internal/tts"
)

// maxUploadBytes caps multipart audio uploads.
const maxUploadBytes = 32 << 20

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	llmUp := s.engine != nil && s.engine.Healthcheck(ctx) == nil
	respondJSON(w, http.StatusOK, map[string]any{
		"stt":       s.transcriber != nil,
		"tts":       s.synth != nil,
		"llm":       llmUp,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readAudioUpload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	text, err := s.transcriber.TranscribeFile(r.Context(), data)
	if err != nil {
		s.metrics.StageErrors.WithLabelValues("transcribe").Inc()
		s.metrics.Requests.WithLabelValues("transcribe", "error").Inc()
		respondError(w, http.StatusInternalServerError, "transcription_failed", err.Error())
		return
	}
	s.metrics.ObserveStage(s.metrics.TranscribeLatency, start)
	s.metrics.Requests.WithLabelValues("transcribe", "ok").Inc()

	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "missing_message", "no message provided")
		return
	}

	start := time.Now()
	response, err := s.engine.Respond(r.Context(), sessionID(r), req.Message)
	if err != nil {
		s.metrics.StageErrors.WithLabelValues("generate").Inc()
		s.metrics.Requests.WithLabelValues("chat", "error").Inc()
		respondError(w, http.StatusInternalServerError, "chat_failed", err.Error())
		return
	}
	s.metrics.ObserveStage(s.metrics.GenerateLatency, start)
	s.metrics.Requests.WithLabelValues("chat", "ok").Inc()

	respondJSON(w, http.StatusOK, map[string]string{"response": response})
}

type synthesizeRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "missing_text", "no text provided")
		return
	}

	audioB64, err := s.synthesizeToWAV(r.Context(), req.Text, req.Voice, req.Speed)
	if err != nil {
		s.metrics.StageErrors.WithLabelValues("synthesize").Inc()
		s.metrics.Requests.WithLabelValues("synthesize", "error").Inc()
		respondError(w, http.StatusInternalServerError, "synthesis_failed", err.Error())
		return
	}
	s.metrics.Requests.WithLabelValues("synthesize", "ok").Inc()

	respondJSON(w, http.StatusOK, map[string]string{"audio": audioB64})
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readAudioUpload(w, r)
	if !ok {
		return
	}

	userText, err := s.transcriber.TranscribeFile(r.Context(), data)
	if err != nil {
		s.metrics.StageErrors.WithLabelValues("transcribe").Inc()
		s.metrics.Requests.WithLabelValues("conversation", "error").Inc()
		respondError(w, http.StatusInternalServerError, "transcription_failed", err.Error())
		return
	}

	// Whitespace-only transcriptions are forwarded as-is; only a fully empty
	// result is rejected here.
	if userText == "" {
		s.metrics.Requests.WithLabelValues("conversation", "error").Inc()
		respondError(w, http.StatusBadRequest, "empty_transcription", "no speech recognized in audio")
		return
	}

	response, err := s.engine.Respond(r.Context(), sessionID(r), userText)
	if err != nil {
		s.metrics.StageErrors.WithLabelValues("generate").Inc()
		s.metrics.Requests.WithLabelValues("conversation", "error").Inc()
		respondError(w, http.StatusInternalServerError, "chat_failed", err.Error())
		return
	}

	audioB64, err := s.synthesizeToWAV(r.Context(), response, "", 0)
	if err != nil {
		s.metrics.StageErrors.WithLabelValues("synthesize").Inc()
		s.metrics.Requests.WithLabelValues("conversation", "error").Inc()
		respondError(w, http.StatusInternalServerError, "synthesis_failed", err.Error())
		return
	}
	s.metrics.Requests.WithLabelValues("conversation", "ok").Inc()

	respondJSON(w, http.StatusOK, map[string]string{
		"user_text":          userText,
		"assistant_response": response,
		"audio":              audioB64,
	})
}

// handleHistory returns persisted turns for the request's session, oldest
// first. Without DATABASE_URL the store is a no-op and the list is empty;
// the in-process transcript remains the source of truth for prompting.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	session := sessionID(r)
	if session == "" {
		session = chat.DefaultSession
	}
	records, err := s.engine.Store().RecentContext(r.Context(), session, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}
	if records == nil {
		records = []memory.TurnRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"session_id": session, "turns": records})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.engine.Sessions().Reset(sessionID(r))
	s.metrics.Requests.WithLabelValues("reset", "ok").Inc()
	respondJSON(w, http.StatusOK, map[string]string{"message": "Conversation memory reset"})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"current_model":    s.engine.CurrentModel(),
		"current_voice":    s.synth.DefaultVoice(),
		"current_speed":    s.synth.DefaultSpeed(),
		"available_models": s.cfg.LLMModels,
		"available_voices": s.voiceCatalog(),
	})
}

type updateSettingsRequest struct {
	Voice string   `json:"voice"`
	Speed *float64 `json:"speed"`
	Model string   `json:"model"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if strings.TrimSpace(req.Voice) != "" {
		s.synth.SetDefaultVoice(req.Voice)
	}
	if req.Speed != nil {
		if err := s.synth.SetDefaultSpeed(*req.Speed); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_speed", err.Error())
			return
		}
	}
	// Only whitelisted model identifiers are accepted; anything else leaves
	// the current model untouched.
	if model := strings.TrimSpace(req.Model); model != "" {
		if _, ok := s.cfg.LLMModels[model]; ok {
			s.engine.SetModel(model)
		}
	}

	s.metrics.Requests.WithLabelValues("settings", "ok").Inc()
	respondJSON(w, http.StatusOK, map[string]any{
		"message":       "Settings updated successfully",
		"current_model": s.engine.CurrentModel(),
		"current_voice": s.synth.DefaultVoice(),
		"current_speed": s.synth.DefaultSpeed(),
	})
}

func (s *Server) voiceCatalog() map[string][]string {
	if s.synth == nil {
		return map[string][]string{}
	}
	return tts.VoiceCatalog()
}

func (s *Server) readAudioUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", err.Error())
		return nil, false
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing_audio", "no audio file provided")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", err.Error())
		return nil, false
	}
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, "missing_audio", "empty audio file")
		return nil, false
	}
	return data, true
}

func (s *Server) synthesizeToWAV(ctx context.Context, text, voice string, speed float64) (string, error) {
	start := time.Now()
	sampleRate, samples, err := s.synth.Synthesize(ctx, text, voice, speed)
	if err != nil {
		return "", err
	}
	s.metrics.ObserveStage(s.metrics.SynthesizeLatency, start)
	if sampleRate > 0 {
		s.metrics.SynthesizedSeconds.Add(float64(len(samples)) / float64(sampleRate))
	}

	wavBytes, err := audio.EncodeWAVPCM16LE(audio.PCM16LEFromFloats(samples), sampleRate)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(wavBytes), nil
}
