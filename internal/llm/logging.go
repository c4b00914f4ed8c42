package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abhisek/numinary/internal/store"
)

// LoggingProvider records every call as an LLM request event.
type LoggingProvider struct {
	inner  Provider
	events store.EventRepo
	now    func() time.Time
}

// WithLogging wraps p so each Generate call is appended to events. A failing
// event write is logged and never fails the call.
func WithLogging(p Provider, events store.EventRepo) *LoggingProvider {
	return &LoggingProvider{inner: p, events: events, now: time.Now}
}

func (l *LoggingProvider) Name() string    { return l.inner.Name() }
func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.inner.Name(),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   l.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// Record the event even when ctx is already cancelled.
	if lerr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); lerr != nil {
		log.Printf("llm: record request event: %v", lerr)
	}
	return resp, err
}

// transcript renders req as the plain text stored in request_body.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
