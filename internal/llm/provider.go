package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt to the LLM. When the request carries a Schema
	// the response Content is validated JSON; otherwise it is the reply text
	// encoded as a JSON string.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation history. Question generation sends a
	// single user message; chat sends the running conversation.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. Nil for
	// free-form text replies.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// Check, when set, inspects schema-valid content. A non-nil error fails
	// the call with KindRejected; the error may implement Retrier.
	Check func(content json.RawMessage) error
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema. Kebab-case, e.g. "quiz-questions".
	Name string

	// Description is sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any

	once       sync.Once
	compiled   *jsonschema.Schema
	compileErr error
}

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response holds the LLM's output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Text returns the reply as plain text. JSON string content is decoded;
// anything else is returned verbatim.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// textContent encodes free-form reply text as a JSON string.
func textContent(text string) json.RawMessage {
	b, err := json.Marshal(strings.TrimSpace(text))
	if err != nil {
		return json.RawMessage(`""`)
	}
	return b
}

// finishContent turns raw backend output into Response content. Structured
// replies are checked against the schema and then Request.Check. A schema
// failure on a reply that hit MaxTokens is reported as truncation.
func finishContent(req Request, raw, stop string) (json.RawMessage, error) {
	if req.Schema == nil {
		return textContent(raw), nil
	}

	content := json.RawMessage(strings.TrimSpace(raw))
	if err := req.Schema.validate(content); err != nil {
		kind := KindMalformed
		switch {
		case errors.Is(err, errBadSchema):
			kind = KindMisconfigured
		case stop == StopMaxTokens:
			kind = KindTruncated
		}
		return nil, &Failure{Kind: kind, Content: content, Err: err}
	}

	if req.Check != nil {
		if err := req.Check(content); err != nil {
			return nil, &Failure{Kind: KindRejected, Content: content, Err: err}
		}
	}
	return content, nil
}
