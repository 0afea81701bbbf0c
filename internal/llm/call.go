package llm

import "context"

// Purposes recorded with each call.
const (
	PurposeQuestionGen = "question-gen"
	PurposeChat        = "chat"
)

// Call tags a request for the event log. Subject is the quiz subject for
// question generation and empty for chat.
type Call struct {
	Purpose string
	Subject string
}

type callKey struct{}

// WithCall attaches c to ctx.
func WithCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// CallFrom returns the Call attached to ctx. Untagged calls report the
// purpose "unknown".
func CallFrom(ctx context.Context) Call {
	if c, ok := ctx.Value(callKey{}).(Call); ok {
		if c.Purpose == "" {
			c.Purpose = "unknown"
		}
		return c
	}
	return Call{Purpose: "unknown"}
}
