package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/nickaggarwal/git-timeline-analysis/internal/llm"
	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

// capturingCompleter records the user prompt it was asked to complete.
type capturingCompleter struct {
	answer     string
	lastPrompt string
}

func (c *capturingCompleter) Complete(ctx context.Context, messages []llm.Message, maxTokens int) (string, error) {
	for _, m := range messages {
		if m.Role == llm.RoleUser {
			c.lastPrompt = m.Content
		}
	}
	return c.answer, nil
}

func (c *capturingCompleter) Model() string { return "capturing" }

func TestComposeResponseWithoutCompleter(t *testing.T) {
	response := ComposeResponse(context.Background(), nil, "what changed?", "CONTEXT", nil)
	assert.Contains(t, response, "CONTEXT")
	assert.Contains(t, response, "what changed?")
	assert.Contains(t, response, "don't have a completion service configured")
}

func TestComposeResponseFallsBackOnError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("rate limited")}
	response := ComposeResponse(context.Background(), completer, "q", "THE CONTEXT", nil)
	assert.Contains(t, response, "THE CONTEXT")
	assert.Contains(t, response, "encountered an error")
}

func TestComposeResponseFallsBackOnEmptyCompletion(t *testing.T) {
	completer := &fakeCompleter{answer: "   "}
	response := ComposeResponse(context.Background(), completer, "q", "THE CONTEXT", nil)
	assert.Contains(t, response, "THE CONTEXT")
}

func TestComposeResponseHistoryBounds(t *testing.T) {
	completer := &capturingCompleter{answer: "fine"}

	history := []models.ChatMessage{
		{Role: "user", Content: "turn one"},
		{Role: "assistant", Content: "turn two"},
		{Role: "user", Content: "turn three"},
		{Role: "assistant", Content: strings.Repeat("x", 500)},
	}
	ComposeResponse(context.Background(), completer, "q", "ctx", history)
	captured := completer.lastPrompt

	// Only the last turns are included, each truncated.
	assert.NotContains(t, captured, "turn one")
	assert.Contains(t, captured, "turn two")
	assert.Contains(t, captured, strings.Repeat("x", historyTurnLength))
	assert.NotContains(t, captured, strings.Repeat("x", historyTurnLength+1))
}

func TestComposeResponseHistoryMultibyte(t *testing.T) {
	completer := &capturingCompleter{answer: "fine"}

	history := []models.ChatMessage{
		{Role: "user", Content: strings.Repeat("ü", 300)},
	}
	ComposeResponse(context.Background(), completer, "q", "ctx", history)
	captured := completer.lastPrompt

	assert.True(t, utf8.ValidString(captured))
	assert.Contains(t, captured, strings.Repeat("ü", historyTurnLength))
	assert.NotContains(t, captured, strings.Repeat("ü", historyTurnLength+1))
}
