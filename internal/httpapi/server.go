package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lcavallo/talkie/internal/chat"
	"github.com/lcavallo/talkie/internal/config"
	"github.com/lcavallo/talkie/internal/observability"
	"github.com/lcavallo/talkie/internal/stt"
	"github.com/lcavallo/talkie/internal/tts"
)

// sessionHeader optionally scopes a request to its own conversation
// transcript. Requests without it share the default transcript.
const sessionHeader = "X-Session-ID"

type Server struct {
	cfg         config.Config
	engine      *chat.Engine
	transcriber stt.Transcriber
	synth       *tts.Service
	metrics     *observability.Metrics
	upgrader    websocket.Upgrader
	static      http.Handler
}

func New(cfg config.Config, engine *chat.Engine, transcriber stt.Transcriber, synth *tts.Service, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:         cfg,
		engine:      engine,
		transcriber: transcriber,
		synth:       synth,
		metrics:     metrics,
		static:      newStaticHandler(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin; non-browser clients typically omit Origin.
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Handle("/", s.static)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/api/status", s.handleStatus)
	r.Post("/api/transcribe", s.handleTranscribe)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/synthesize", s.handleSynthesize)
	r.Post("/api/conversation", s.handleConversation)
	r.Get("/api/conversation/ws", s.handleConversationWS)
	r.Get("/api/history", s.handleHistory)
	r.Post("/api/reset", s.handleReset)
	r.Get("/api/settings", s.handleGetSettings)
	r.Post("/api/settings", s.handleUpdateSettings)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(sessionHeader))
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
