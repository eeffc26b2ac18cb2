package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/lcavallo/talkie/internal/llm"
	"github.com/lcavallo/talkie/internal/memory"
)

// responsePrefix is the literal prefix some models echo back from the
// transcript formatting; it is stripped from every reply.
const responsePrefix = "Assistant:"

// PromptTemplate renders the single configurable conversation prompt. The
// persona wording and the response-length guidance are the only knobs; all
// template variants in the wild differed in nothing else.
type PromptTemplate struct {
	Persona       string
	ResponseWords int
}

func (p PromptTemplate) Render(history, input string) string {
	persona := strings.TrimSpace(p.Persona)
	if persona == "" {
		persona = "You are a helpful and friendly AI assistant. You are polite, respectful,"
	}
	words := p.ResponseWords
	if words <= 0 {
		words = 20
	}
	return fmt.Sprintf(
		"%s and aim to provide concise responses of less than %d words.\n"+
			"The conversation transcript is as follows:\n%s\n"+
			"And here is the user's follow-up: %s\nYour response:\n",
		persona, words, history, input,
	)
}

// GeneratorFactory binds a model identifier to a ready backend. Used when a
// settings update switches the active model.
type GeneratorFactory func(model string) llm.Generator

// Engine is the dialogue engine: it renders the prompt from the conversation
// transcript, invokes the language-model backend and records both sides of
// the exchange.
type Engine struct {
	template PromptTemplate
	sessions *Sessions
	store    memory.Store

	mu         sync.RWMutex
	generator  llm.Generator
	model      string
	newBackend GeneratorFactory
}

func NewEngine(template PromptTemplate, generator llm.Generator, model string, factory GeneratorFactory, store memory.Store) *Engine {
	if store == nil {
		store = memory.Noop{}
	}
	return &Engine{
		template:   template,
		sessions:   NewSessions(),
		store:      store,
		generator:  generator,
		model:      model,
		newBackend: factory,
	}
}

func (e *Engine) Sessions() *Sessions { return e.sessions }

func (e *Engine) Store() memory.Store { return e.store }

// CurrentModel returns the active language-model identifier.
func (e *Engine) CurrentModel() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model
}

// SetModel rebuilds the backend binding for a new model identifier. The
// conversation transcripts are untouched.
func (e *Engine) SetModel(model string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.newBackend != nil {
		e.generator = e.newBackend(model)
	}
	e.model = model
}

// Healthcheck probes the active backend.
func (e *Engine) Healthcheck(ctx context.Context) error {
	e.mu.RLock()
	gen := e.generator
	e.mu.RUnlock()
	return gen.Healthcheck(ctx)
}

// Respond renders the prompt with the session transcript and userText, calls
// the backend, strips a leading "Assistant:" echo and appends both turns to
// the transcript. Backend errors propagate and record no turn.
func (e *Engine) Respond(ctx context.Context, sessionID, userText string) (string, error) {
	transcript := e.sessions.Get(sessionID)

	e.mu.RLock()
	gen := e.generator
	e.mu.RUnlock()

	prompt := e.template.Render(transcript.Render(), userText)
	raw, err := gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	response := strings.TrimSpace(raw)
	if strings.HasPrefix(response, responsePrefix) {
		response = strings.TrimSpace(strings.TrimPrefix(response, responsePrefix))
	}

	userTurn := transcript.Append(RoleUser, userText)
	assistantTurn := transcript.Append(RoleAssistant, response)
	e.persist(ctx, sessionID, userTurn)
	e.persist(ctx, sessionID, assistantTurn)

	return response, nil
}

func (e *Engine) persist(ctx context.Context, sessionID string, turn Turn) {
	err := e.store.SaveTurn(ctx, memory.TurnRecord{
		ID:        turn.ID,
		SessionID: sessionID,
		Role:      turn.Role,
		Content:   turn.Text,
		CreatedAt: turn.CreatedAt,
	})
	if err != nil {
		// Persistence is best-effort; the in-process transcript is the
		// source of truth for prompting.
		log.Printf("transcript persist failed: %v", err)
	}
}
