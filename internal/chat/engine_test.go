package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/lcavallo/talkie/internal/llm"
)

func newTestEngine(gen llm.Generator) *Engine {
	return NewEngine(PromptTemplate{ResponseWords: 20}, gen, "llama3.2:3b", nil, nil)
}

func TestRespondStripsAssistantPrefix(t *testing.T) {
	gen := llm.NewMockGenerator("Assistant: Hi there!")
	e := newTestEngine(gen)

	got, err := e.Respond(context.Background(), "", "Hello")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got != "Hi there!" {
		t.Fatalf("Respond() = %q, want %q", got, "Hi there!")
	}
}

func TestRespondNeverStartsWithPrefix(t *testing.T) {
	for _, canned := range []string{
		"Assistant: sure",
		"Assistant:   padded   ",
		"plain reply",
		"  Assistant: nested Assistant: mention",
	} {
		gen := llm.NewMockGenerator(canned)
		e := newTestEngine(gen)
		got, err := e.Respond(context.Background(), "", "hey")
		if err != nil {
			t.Fatalf("Respond() error = %v", err)
		}
		if strings.HasPrefix(got, "Assistant:") {
			t.Fatalf("Respond(%q) = %q, still carries the prefix", canned, got)
		}
	}
}

func TestRespondAppendsBothTurns(t *testing.T) {
	gen := llm.NewMockGenerator("Assistant: Hi!")
	e := newTestEngine(gen)

	if _, err := e.Respond(context.Background(), "s1", "Hello"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	turns := e.Sessions().Get("s1").Turns()
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Text != "Hello" {
		t.Fatalf("turns[0] = %+v", turns[0])
	}
	if turns[1].Role != RoleAssistant || turns[1].Text != "Hi!" {
		t.Fatalf("turns[1] = %+v", turns[1])
	}
}

func TestRespondRendersHistoryIntoPrompt(t *testing.T) {
	gen := llm.NewMockGenerator("Assistant: ok")
	e := newTestEngine(gen)

	if _, err := e.Respond(context.Background(), "", "first question"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if _, err := e.Respond(context.Background(), "", "second question"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	prompts := gen.Prompts()
	if len(prompts) != 2 {
		t.Fatalf("len(prompts) = %d, want 2", len(prompts))
	}
	if strings.Contains(prompts[0], "Human: first question") {
		t.Fatalf("first prompt should not contain history yet:\n%s", prompts[0])
	}
	if !strings.Contains(prompts[1], "Human: first question") ||
		!strings.Contains(prompts[1], "Assistant: ok") {
		t.Fatalf("second prompt missing history:\n%s", prompts[1])
	}
	if !strings.Contains(prompts[1], "follow-up: second question") {
		t.Fatalf("second prompt missing new input:\n%s", prompts[1])
	}
}

func TestRespondErrorRecordsNoTurn(t *testing.T) {
	gen := llm.NewMockGenerator("")
	gen.Err = context.DeadlineExceeded
	e := newTestEngine(gen)

	if _, err := e.Respond(context.Background(), "", "Hello"); err == nil {
		t.Fatalf("Respond() expected error")
	}
	if n := e.Sessions().Get("").Len(); n != 0 {
		t.Fatalf("transcript length = %d, want 0 after failed turn", n)
	}
}

func TestResetClearsHistoryForNextPrompt(t *testing.T) {
	gen := llm.NewMockGenerator("Assistant: ok")
	e := newTestEngine(gen)

	if _, err := e.Respond(context.Background(), "", "remember me"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	e.Sessions().Reset("")
	if _, err := e.Respond(context.Background(), "", "fresh start"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	prompts := gen.Prompts()
	if strings.Contains(prompts[1], "remember me") {
		t.Fatalf("prompt after reset still carries old history:\n%s", prompts[1])
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	gen := llm.NewMockGenerator("Assistant: ok")
	e := newTestEngine(gen)

	if _, err := e.Respond(context.Background(), "a", "apple talk"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if _, err := e.Respond(context.Background(), "b", "banana talk"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	prompts := gen.Prompts()
	if strings.Contains(prompts[1], "apple talk") {
		t.Fatalf("session b prompt leaked session a history:\n%s", prompts[1])
	}
}

func TestSetModelPreservesTranscript(t *testing.T) {
	gen := llm.NewMockGenerator("Assistant: ok")
	swapped := llm.NewMockGenerator("Assistant: new model here")
	factory := func(model string) llm.Generator { return swapped }
	e := NewEngine(PromptTemplate{ResponseWords: 20}, gen, "llama3.2:3b", factory, nil)

	if _, err := e.Respond(context.Background(), "", "hello"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	e.SetModel("qwen2.5:3b")
	if e.CurrentModel() != "qwen2.5:3b" {
		t.Fatalf("CurrentModel() = %q", e.CurrentModel())
	}

	got, err := e.Respond(context.Background(), "", "again")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got != "new model here" {
		t.Fatalf("Respond() after model switch = %q", got)
	}
	if !strings.Contains(swapped.Prompts()[0], "Human: hello") {
		t.Fatalf("history lost across model switch:\n%s", swapped.Prompts()[0])
	}
}
