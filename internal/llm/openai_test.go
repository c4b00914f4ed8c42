package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 10, "total_tokens": 40},
	}
}

func chatServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var body map[string]any
	url := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"steps":["2 * 5 = 10"],"answer":"10"}`, "stop"))
	})

	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "gpt-mini", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Generate(context.Background(), UserPrompt("be brief", "Solve: 2 * 5", stepsSchema, 100))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("Model = %q", resp.Model)
	}
	if resp.Usage.TotalTokens != 40 {
		t.Errorf("TotalTokens = %d, want 40", resp.Usage.TotalTokens)
	}
	if body["model"] != "gpt-4o-mini" {
		t.Errorf("model sent = %v, want alias resolved", body["model"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(msgs))
	}
	if first := msgs[0].(map[string]any); first["role"] != "system" {
		t.Errorf("first role = %v, want system", first["role"])
	}
}

func TestOpenAIProvider_FinishLength(t *testing.T) {
	url := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"steps":[`, "length"))
	})
	p, _ := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})

	_, err := p.Generate(context.Background(), UserPrompt("", "x", stepsSchema, 3))
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("err = %v, want ErrMaxTokensExceeded", err)
	}
}

func TestOpenAIProvider_RateLimited(t *testing.T) {
	url := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "slow down", "type": "rate_limit"}})
	})
	p, _ := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})

	_, err := p.Generate(context.Background(), UserPrompt("", "x", nil, 10))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want ErrRateLimit", err)
	}
}

func TestOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(ProviderConfig{APIKey: "k", Model: "google/gemini-2.0-flash-001"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != ProviderOpenRouter {
		t.Errorf("Name = %q", p.Name())
	}
	if p.ModelID() != "google/gemini-2.0-flash-001" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	if _, err := NewOpenRouterProvider(ProviderConfig{}); err == nil {
		t.Error("expected error without API key")
	}
}
