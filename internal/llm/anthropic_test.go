package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicStub serves one canned Messages API reply and keeps the last
// request body it received.
type anthropicStub struct {
	status int
	header http.Header
	reply  any
	got    map[string]any
}

func (s *anthropicStub) provider(t *testing.T) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.got = nil
		json.NewDecoder(r.Body).Decode(&s.got)
		for k, v := range s.header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		if s.status != 0 {
			w.WriteHeader(s.status)
		}
		json.NewEncoder(w).Encode(s.reply)
	}))
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 310, "output_tokens": 42},
	}
}

func anthropicError(kind, msg string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": msg}}
}

func TestAnthropicChatReply(t *testing.T) {
	stub := &anthropicStub{reply: anthropicMessage("Volcanoes form where magma reaches the surface.", "end_turn")}
	p := stub.provider(t)

	resp, err := p.Generate(context.Background(), Request{
		System: "You are Quizy, a friendly study buddy.",
		Messages: []Message{
			{Role: RoleUser, Content: "Hi"},
			{Role: RoleAssistant, Content: "Hi! Ask me anything."},
			{Role: RoleUser, Content: "How do volcanoes form?"},
		},
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Volcanoes form where magma reaches the surface." {
		t.Errorf("Text() = %q", resp.Text())
	}
	if resp.Usage.InputTokens != 310 || resp.Usage.TotalTokens != 352 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.Model != "claude-haiku-4-5-20251001" || resp.StopReason != StopEnd {
		t.Errorf("model = %q, stop = %q", resp.Model, resp.StopReason)
	}

	if stub.got["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("request model = %v", stub.got["model"])
	}
	msgs, _ := stub.got["messages"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("request messages = %v", stub.got["messages"])
	}
	if role := msgs[1].(map[string]any)["role"]; role != "assistant" {
		t.Errorf("second message role = %v", role)
	}
}

func TestAnthropicQuizBatch(t *testing.T) {
	stub := &anthropicStub{reply: anthropicMessage(oneQuestion, "end_turn")}
	p := stub.provider(t)

	resp, err := p.Generate(context.Background(), quizRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != oneQuestion {
		t.Errorf("content = %s", resp.Content)
	}
}

func TestAnthropicQuizBatchFailures(t *testing.T) {
	tests := []struct {
		name    string
		stub    *anthropicStub
		check   func(json.RawMessage) error
		wantErr error
	}{
		{
			name:    "cut off at the token limit",
			stub:    &anthropicStub{reply: anthropicMessage(`{"questions":[{"question":"What is`, "max_tokens")},
			wantErr: ErrTruncated,
		},
		{
			name:    "prose instead of JSON",
			stub:    &anthropicStub{reply: anthropicMessage("Here are your questions!", "end_turn")},
			wantErr: ErrMalformed,
		},
		{
			name:    "batch refused by the quiz validators",
			stub:    &anthropicStub{reply: anthropicMessage(oneQuestion, "end_turn")},
			check:   func(json.RawMessage) error { return batchRejection{retry: true} },
			wantErr: ErrRejected,
		},
		{
			name:    "overloaded",
			stub:    &anthropicStub{status: 529, reply: anthropicError("overloaded_error", "Overloaded")},
			wantErr: ErrUnavailable,
		},
		{
			name:    "bad API key",
			stub:    &anthropicStub{status: http.StatusUnauthorized, reply: anthropicError("authentication_error", "invalid x-api-key")},
			wantErr: ErrMisconfigured,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.stub.provider(t).Generate(context.Background(), quizRequest(tt.check))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnthropicRateLimitCarriesRetryAfter(t *testing.T) {
	stub := &anthropicStub{
		status: http.StatusTooManyRequests,
		header: http.Header{"Retry-After": {"7"}},
		reply:  anthropicError("rate_limit_error", "Rate limit exceeded"),
	}

	_, err := stub.provider(t).Generate(context.Background(), quizRequest(nil))
	var f *Failure
	if !errors.As(err, &f) || f.Kind != KindRateLimited {
		t.Fatalf("err = %v, want a rate limit failure", err)
	}
	if f.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %s, want 7s", f.RetryAfter)
	}
}

func TestAnthropicEmptyReply(t *testing.T) {
	reply := anthropicMessage("", "end_turn")
	reply["content"] = []map[string]any{}
	stub := &anthropicStub{reply: reply}

	_, err := stub.provider(t).Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Any tips for fractions?"}},
	})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestAnthropicModelNames(t *testing.T) {
	tests := map[string]string{
		"claude-sonnet":            "claude-sonnet-4-20250514",
		"claude-haiku":             "claude-haiku-4-5-20251001",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	}
	for name, want := range tests {
		p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: name})
		if err != nil {
			t.Fatal(err)
		}
		if p.ModelID() != want {
			t.Errorf("%s resolves to %q, want %q", name, p.ModelID(), want)
		}
	}

	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Error("expected error without API key")
	}
}
