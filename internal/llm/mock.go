package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records every request.
// With nothing queued it fails with ErrProviderUnavailable.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse
	calls []Request
}

func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{queue: replies}
}

func (m *MockProvider) Name() string    { return ProviderMock }
func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if len(m.queue) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return finish(req, next.Content, next.Usage, "mock", StopEnd)
}

// Enqueue adds replies to the end of the script.
func (m *MockProvider) Enqueue(replies ...MockResponse) {
	m.mu.Lock()
	m.queue = append(m.queue, replies...)
	m.mu.Unlock()
}

// Calls returns a copy of the requests seen so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
