package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/abhisek/quizy/internal/llm"
)

type scriptedResponder struct {
	replies  []string
	err      error
	received [][]Message
}

func (s *scriptedResponder) Reply(_ context.Context, history []Message, _ string) (string, error) {
	s.received = append(s.received, history)
	if s.err != nil {
		return "", s.err
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func TestConversationStartsWithGreeting(t *testing.T) {
	c := NewConversation(&scriptedResponder{})
	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Text != Greeting || msgs[0].Role != RoleAssistant {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestConversationSend(t *testing.T) {
	r := &scriptedResponder{replies: []string{"Paris!", "About 2.1 million."}}
	c := NewConversation(r)
	ctx := context.Background()

	msg, err := c.Send(ctx, "  What is the capital of France? ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Text != "Paris!" {
		t.Fatalf("reply = %q", msg.Text)
	}
	if _, err := c.Send(ctx, "How many people live there?"); err != nil {
		t.Fatal(err)
	}

	msgs := c.Messages()
	if len(msgs) != 5 {
		t.Fatalf("messages = %d, want 5", len(msgs))
	}
	if msgs[1].Text != "What is the capital of France?" || msgs[1].Role != RoleUser {
		t.Errorf("user message = %+v", msgs[1])
	}

	if len(r.received[0]) != 0 {
		t.Errorf("first request history = %+v, greeting should not be sent", r.received[0])
	}
	if len(r.received[1]) != 2 || r.received[1][1].Text != "Paris!" {
		t.Errorf("second request history = %+v", r.received[1])
	}
}

func TestConversationErrorReply(t *testing.T) {
	c := NewConversation(&scriptedResponder{err: errors.New("boom")})
	msg, err := c.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if msg.Text != ErrorReply {
		t.Fatalf("reply = %q, want %q", msg.Text, ErrorReply)
	}
	msgs := c.Messages()
	if msgs[len(msgs)-1].Text != ErrorReply {
		t.Fatalf("last message = %+v", msgs[len(msgs)-1])
	}
}

func TestConversationExplainsProviderFailure(t *testing.T) {
	c := NewConversation(&scriptedResponder{err: fmt.Errorf("chat reply: %w", &llm.Failure{Kind: llm.KindRateLimited})})
	msg, err := c.Send(context.Background(), "hello")
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if msg.Text != BusyReply {
		t.Fatalf("reply = %q, want %q", msg.Text, BusyReply)
	}
}

func TestFailureReply(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", &llm.Failure{Kind: llm.KindRateLimited}, BusyReply},
		{"bad key", &llm.Failure{Kind: llm.KindMisconfigured}, MisconfiguredReply},
		{"offline", &llm.Failure{Kind: llm.KindUnavailable}, OfflineReply},
		{"garbled reply", &llm.Failure{Kind: llm.KindMalformed}, ErrorReply},
		{"plain error", errors.New("boom"), ErrorReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FailureReply(tt.err); got != tt.want {
				t.Errorf("FailureReply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConversationIgnoresBlank(t *testing.T) {
	r := &scriptedResponder{}
	c := NewConversation(r)
	if _, err := c.Send(context.Background(), "   "); err != nil {
		t.Fatal(err)
	}
	if len(c.Messages()) != 1 || len(r.received) != 0 {
		t.Fatal("blank input should be ignored")
	}
}

func TestConversationCapsHistory(t *testing.T) {
	r := &scriptedResponder{replies: []string{"1", "2", "3"}}
	c := NewConversation(r)
	c.SetMaxHistory(2)
	ctx := context.Background()
	for _, q := range []string{"a", "b", "c"} {
		if _, err := c.Send(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	last := r.received[2]
	if len(last) != 2 || last[0].Text != "b" || last[1].Text != "2" {
		t.Fatalf("history = %+v", last)
	}
}

func TestLLMResponder(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("Keep going, you're doing great!"))
	r := NewLLMResponder(mock)

	history := []Message{
		{Role: RoleUser, Text: "I failed my quiz"},
		{Role: RoleAssistant, Text: "That's okay!"},
	}
	reply, err := r.Reply(context.Background(), history, "Any tips?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Keep going, you're doing great!" {
		t.Fatalf("reply = %q", reply)
	}

	req := mock.Calls()[0]
	if req.Schema != nil {
		t.Error("chat requests should not carry a schema")
	}
	if req.System != systemInstruction {
		t.Errorf("system = %q", req.System)
	}
	if len(req.Messages) != 3 || req.Messages[1].Role != llm.RoleAssistant || req.Messages[2].Content != "Any tips?" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestLLMResponderTagsCall(t *testing.T) {
	var seen llm.Call
	p := providerFunc(func(ctx context.Context, req llm.Request) (*llm.Response, error) {
		seen = llm.CallFrom(ctx)
		return llm.NewMockProvider(llm.TextResponse("Sure!")).Generate(ctx, req)
	})
	if _, err := NewLLMResponder(p).Reply(context.Background(), nil, "hi"); err != nil {
		t.Fatal(err)
	}
	if seen.Purpose != llm.PurposeChat {
		t.Errorf("purpose = %q", seen.Purpose)
	}
}

func TestLLMResponderMarksCutOffReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Raw: "The French Revolution began in 1789 when", Stop: llm.StopMaxTokens})
	reply, err := NewLLMResponder(mock).Reply(context.Background(), nil, "Tell me about the French Revolution")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "The French Revolution began in 1789 when…" {
		t.Errorf("reply = %q", reply)
	}
}

func TestLLMResponderError(t *testing.T) {
	r := NewLLMResponder(llm.NewMockProvider())
	_, err := r.Reply(context.Background(), nil, "hi")
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable from an empty script", err)
	}
	if FailureReply(err) != OfflineReply {
		t.Errorf("FailureReply() = %q", FailureReply(err))
	}
}

type providerFunc func(context.Context, llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "func" }
