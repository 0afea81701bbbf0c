package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizy/internal/store"
)

// NewProvider builds the backend named by cfg.Provider and wraps it so the
// caller sees retry → logging → backend. A nil events repo turns logging
// off. The mock backend is returned bare with an empty script.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	var (
		backend Provider
		err     error
	)
	switch cfg.Provider {
	case "gemini":
		backend, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		backend, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		backend, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		backend, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		backend = WithLogging(backend, cfg.Provider, events)
	}
	return WithRetry(backend, cfg.Retry), nil
}
