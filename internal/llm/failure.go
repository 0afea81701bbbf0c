package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors matched with errors.Is against a *Failure.
var (
	ErrUnavailable   = errors.New("model unavailable")
	ErrRateLimited   = errors.New("model rate limited")
	ErrMisconfigured = errors.New("model request refused")
	ErrMalformed     = errors.New("reply does not match schema")
	ErrRejected      = errors.New("reply rejected")
	ErrTruncated     = errors.New("reply cut off at token limit")
)

// Kind classifies why a call failed.
type Kind int

const (
	// KindUnavailable covers network errors and 5xx responses.
	KindUnavailable Kind = iota
	// KindRateLimited is a 429; RetryAfter may be set.
	KindRateLimited
	// KindMisconfigured is any other 4xx: bad key, unknown model, bad request.
	KindMisconfigured
	// KindMalformed is a reply that is empty, not JSON or fails the schema.
	KindMalformed
	// KindRejected is a schema-valid reply refused by Request.Check.
	KindRejected
	// KindTruncated is a structured reply that hit MaxTokens.
	KindTruncated
)

func (k Kind) sentinel() error {
	switch k {
	case KindRateLimited:
		return ErrRateLimited
	case KindMisconfigured:
		return ErrMisconfigured
	case KindMalformed:
		return ErrMalformed
	case KindRejected:
		return ErrRejected
	case KindTruncated:
		return ErrTruncated
	default:
		return ErrUnavailable
	}
}

// Failure is the error returned by every backend.
type Failure struct {
	Kind       Kind
	RetryAfter time.Duration
	// Content is the reply that failed, for malformed, rejected and
	// truncated replies.
	Content json.RawMessage
	Err     error
}

func (f *Failure) Error() string {
	msg := f.Kind.sentinel().Error()
	if f.RetryAfter > 0 {
		msg = fmt.Sprintf("%s (retry after %s)", msg, f.RetryAfter)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind.sentinel()}
	}
	return []error{f.Kind.sentinel(), f.Err}
}

// Retrier is implemented by Check errors that know whether a fresh reply
// could pass.
type Retrier interface {
	ShouldRetry() bool
}

// Retryable reports whether asking again could succeed.
func (f *Failure) Retryable() bool {
	switch f.Kind {
	case KindUnavailable, KindRateLimited, KindMalformed:
		return true
	case KindRejected:
		var r Retrier
		if errors.As(f.Err, &r) {
			return r.ShouldRetry()
		}
		return true
	}
	return false
}

// contentFailure reports whether the failure is about the reply itself
// rather than reaching the model.
func (f *Failure) contentFailure() bool {
	return f.Kind == KindMalformed || f.Kind == KindRejected
}

func fail(kind Kind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}
