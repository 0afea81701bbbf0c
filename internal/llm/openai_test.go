package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type openaiCall struct {
	path   string
	title  string
	body   map[string]any
	status int
	reply  any
}

// openaiServer answers every request with call.reply and records what it
// was sent in call.
func openaiServer(t *testing.T, call *openaiCall) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call.path = r.URL.Path
		call.title = r.Header.Get("X-Title")
		call.body = nil
		json.NewDecoder(r.Body).Decode(&call.body)
		w.Header().Set("Content-Type", "application/json")
		if call.status != 0 {
			w.WriteHeader(call.status)
		}
		json.NewEncoder(w).Encode(call.reply)
	}))
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func completion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 220, "completion_tokens": 60, "total_tokens": 280},
	}
}

func newOpenAI(t *testing.T, call *openaiCall) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: openaiServer(t, call)})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenAIChatReply(t *testing.T) {
	call := &openaiCall{reply: completion("Fractions are parts of a whole.", "stop")}
	p := newOpenAI(t, call)

	resp, err := p.Generate(context.Background(), Request{
		System:   "You are Quizy, a friendly study buddy.",
		Messages: []Message{{Role: RoleUser, Content: "What is a fraction?"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Fractions are parts of a whole." || resp.StopReason != StopEnd {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Usage.InputTokens != 220 || resp.Usage.OutputTokens != 60 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("model = %q", resp.Model)
	}

	msgs, _ := call.body["messages"].([]any)
	if len(msgs) != 2 || msgs[0].(map[string]any)["role"] != "system" {
		t.Fatalf("messages = %v, want system prompt first", call.body["messages"])
	}
	if _, ok := call.body["response_format"]; ok {
		t.Error("chat request should not ask for a response format")
	}
}

func TestOpenAIQuizBatchUsesJSONSchema(t *testing.T) {
	call := &openaiCall{reply: completion(oneQuestion, "stop")}
	p := newOpenAI(t, call)

	resp, err := p.Generate(context.Background(), quizRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != oneQuestion {
		t.Errorf("content = %s", resp.Content)
	}

	rf, _ := call.body["response_format"].(map[string]any)
	if rf["type"] != "json_schema" {
		t.Fatalf("response_format = %v", call.body["response_format"])
	}
	if js, _ := rf["json_schema"].(map[string]any); js["name"] != "quiz-questions" {
		t.Errorf("json_schema = %v", rf["json_schema"])
	}
}

func TestOpenAIFailures(t *testing.T) {
	apiError := func(msg string) map[string]any {
		return map[string]any{"error": map[string]any{"message": msg, "type": "error"}}
	}
	tests := []struct {
		name    string
		call    *openaiCall
		wantErr error
	}{
		{"truncated batch", &openaiCall{reply: completion(`{"questions":[{"question":"Which pla`, "length")}, ErrTruncated},
		{"no choices", &openaiCall{reply: map[string]any{"id": "x", "choices": []any{}}}, ErrMalformed},
		{"rate limited", &openaiCall{status: http.StatusTooManyRequests, reply: apiError("Rate limit exceeded")}, ErrRateLimited},
		{"server error", &openaiCall{status: http.StatusInternalServerError, reply: apiError("boom")}, ErrUnavailable},
		{"unknown model", &openaiCall{status: http.StatusNotFound, reply: apiError("model not found")}, ErrMisconfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newOpenAI(t, tt.call).Generate(context.Background(), quizRequest(nil))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenRouterSendsAppTitle(t *testing.T) {
	call := &openaiCall{reply: completion(oneQuestion, "stop")}
	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or",
		Model:   "google/gemini-2.5-flash",
		BaseURL: openaiServer(t, call),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Generate(context.Background(), quizRequest(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.title != "Quizy" {
		t.Errorf("X-Title = %q", call.title)
	}
	if call.path != "/v1/chat/completions" {
		t.Errorf("path = %q", call.path)
	}
	if call.body["model"] != "google/gemini-2.5-flash" {
		t.Errorf("model = %v", call.body["model"])
	}
}

func TestOpenRouterDefaults(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.5-flash"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "google/gemini-2.5-flash" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}
