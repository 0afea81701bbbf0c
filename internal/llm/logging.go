package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abhisek/quizy/internal/store"
)

// LoggingProvider appends one llm_request_events row per call, tagged with
// the Call from the context and its estimated cost.
type LoggingProvider struct {
	inner   Provider
	backend string
	events  store.EventRepo
}

// WithLogging wraps p so every call is recorded in events. backend is the
// provider name stored with the row.
func WithLogging(p Provider, backend string, events store.EventRepo) *LoggingProvider {
	return &LoggingProvider{inner: p, backend: backend, events: events}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	call := CallFrom(ctx)
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.backend,
		Model:       l.inner.ModelID(),
		Purpose:     call.Purpose,
		Subject:     call.Subject,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		ev.CostUSD, _ = EstimateCost(resp.Model, ev.InputTokens, ev.OutputTokens)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		// Keep what the model sent so a rejected batch can be inspected.
		var f *Failure
		if errors.As(err, &f) && len(f.Content) > 0 {
			ev.ResponseBody = string(f.Content)
		}
	}

	if werr := l.events.AppendLLMRequest(ctx, ev); werr != nil {
		log.Printf("llm: failed to record %s call: %v", call.Purpose, werr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// transcript renders the request the way `quizy llm view` shows it.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		fmt.Fprintf(&b, "[reply schema: %s]\n", req.Schema.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}
