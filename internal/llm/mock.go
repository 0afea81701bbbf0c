package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted reply. Raw goes through the same schema and
// Check handling as a real backend's output.
type MockResponse struct {
	Raw   string
	Stop  string // StopEnd when empty
	Usage Usage
	Err   error
}

// MockProvider replays scripted replies in order and keeps every request.
// NewProvider returns one for the "mock" provider.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockResponse
	calls   []Request
}

// NewMockProvider creates a MockProvider that will send replies in order.
func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{replies: replies}
}

// Generate sends the next scripted reply. Once the script runs out every
// call fails with ErrUnavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.replies) == 0 {
		return nil, fail(KindUnavailable, errors.New("mock: script exhausted"))
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}

	stop := r.Stop
	if stop == "" {
		stop = StopEnd
	}
	content, err := finishContent(req, r.Raw, stop)
	if err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: r.Usage, Model: "mock", StopReason: stop}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// Calls returns the requests received so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// CallCount returns how many requests were received.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// TextResponse scripts a free-form reply.
func TextResponse(text string) MockResponse {
	return MockResponse{Raw: text}
}

// JSONResponse scripts a structured reply encoding v. It panics when v
// cannot be marshaled.
func JSONResponse(v any) MockResponse {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return MockResponse{Raw: string(b)}
}
