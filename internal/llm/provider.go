package llm

import (
	"context"
	"encoding/json"
)

// Provider sends a prompt to a language model and returns its output.
type Provider interface {
	// Generate runs one completion. When req.Schema is set the returned
	// Content is JSON that has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider family, e.g. "anthropic" or "openrouter".
	Name() string

	// ModelID is the resolved model the provider talks to.
	ModelID() string
}

// Request is a single completion call.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured JSON output. Nil means plain text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who wrote a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is kebab-case and doubles as the tool or schema name sent upstream.
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is the model output for one Request.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage is the token accounting for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds the common single-turn request.
func UserPrompt(system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

// finish validates content against the request schema and assembles the
// Response every provider returns.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a short alias to a concrete model id. Unknown names pass
// through so callers can pin exact ids.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
