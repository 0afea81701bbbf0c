// Package chat implements the "Ask Quizy" assistant.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/quizy/internal/llm"
)

const (
	Greeting   = "Hi! I'm Quizy. Ask me anything!"
	ErrorReply = "Oops! Something went wrong."

	BusyReply          = "I'm getting a lot of questions right now. Try again in a moment!"
	OfflineReply       = "I can't reach my brain right now. Check your connection and try again."
	MisconfiguredReply = "I'm not set up correctly. Check the API key and model in your settings."

	// DefaultMaxHistory bounds how many prior messages are sent per reply.
	DefaultMaxHistory = 20
)

const systemInstruction = "You are Quizy, a friendly and encouraging AI assistant for a learning app. Keep your answers concise and positive."

// Role identifies who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "model"
)

// Message is one line of the conversation.
type Message struct {
	Role Role
	Text string
}

// Responder produces the assistant's reply to text given prior history.
type Responder interface {
	Reply(ctx context.Context, history []Message, text string) (string, error)
}

// LLMResponder answers using an llm.Provider.
type LLMResponder struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMResponder creates a responder backed by provider.
func NewLLMResponder(provider llm.Provider) *LLMResponder {
	return &LLMResponder{provider: provider, maxTokens: 512}
}

func (r *LLMResponder) Reply(ctx context.Context, history []Message, text string) (string, error) {
	ctx = llm.WithCall(ctx, llm.Call{Purpose: llm.PurposeChat})

	msgs := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: text})

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      systemInstruction,
		Messages:    msgs,
		MaxTokens:   r.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat reply: %w", err)
	}

	reply := resp.Text()
	if reply == "" {
		return "", fmt.Errorf("chat reply: empty response")
	}
	if resp.StopReason == llm.StopMaxTokens {
		reply += "…"
	}
	return reply, nil
}

// FailureReply is what the assistant says when err stopped it answering.
func FailureReply(err error) string {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return BusyReply
	case errors.Is(err, llm.ErrMisconfigured):
		return MisconfiguredReply
	case errors.Is(err, llm.ErrUnavailable):
		return OfflineReply
	default:
		return ErrorReply
	}
}

// Conversation keeps the running chat with one Responder.
type Conversation struct {
	responder  Responder
	maxHistory int

	mu       sync.Mutex
	messages []Message
}

// NewConversation starts a conversation with the greeting already shown.
func NewConversation(r Responder) *Conversation {
	return &Conversation{
		responder:  r,
		maxHistory: DefaultMaxHistory,
		messages:   []Message{{Role: RoleAssistant, Text: Greeting}},
	}
}

// SetMaxHistory changes how many prior messages are sent with each request.
// Values below 1 send the whole conversation.
func (c *Conversation) SetMaxHistory(n int) {
	c.mu.Lock()
	c.maxHistory = n
	c.mu.Unlock()
}

// Messages returns a copy of the conversation so far.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Send records text as a user message and appends the assistant's reply.
// On failure the FailureReply for the error is appended instead and the
// error is returned.
// Blank input is ignored.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, nil
	}

	c.mu.Lock()
	history := c.window()
	c.messages = append(c.messages, Message{Role: RoleUser, Text: text})
	c.mu.Unlock()

	reply, err := c.responder.Reply(ctx, history, text)
	msg := Message{Role: RoleAssistant, Text: reply}
	if err != nil {
		msg.Text = FailureReply(err)
	}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	return msg, err
}

// window returns the history sent to the responder. The greeting is local
// only and never sent. Caller holds c.mu.
func (c *Conversation) window() []Message {
	history := c.messages
	if len(history) > 0 && history[0].Role == RoleAssistant && history[0].Text == Greeting {
		history = history[1:]
	}
	if c.maxHistory > 0 && len(history) > c.maxHistory {
		history = history[len(history)-c.maxHistory:]
	}
	return append([]Message(nil), history...)
}
