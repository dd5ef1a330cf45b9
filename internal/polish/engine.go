package polish

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/paperforge/internal/llm"
)

const (
	maxOutputTokens = 256
	temperature     = 0.4
)

// ErrNoProvider is returned when no model is configured
var ErrNoProvider = errors.New("no LLM provider configured")

// Engine performs the model call behind the polish endpoint
type Engine struct {
	provider llm.Provider
}

// NewEngine creates an engine over provider; a nil provider fails every call
func NewEngine(provider llm.Provider) *Engine {
	return &Engine{provider: provider}
}

// Polish rewrites req.Text. The request is assumed to be validated.
func (e *Engine) Polish(ctx context.Context, req Request) (string, error) {
	if e == nil || e.provider == nil {
		return "", ErrNoProvider
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:      SystemPrompt,
		Prompt:      BuildPrompt(req),
		MaxTokens:   maxOutputTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", e.provider.Name(), err)
	}

	text := Sanitize(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%s returned empty text", e.provider.Name())
	}
	return text, nil
}
