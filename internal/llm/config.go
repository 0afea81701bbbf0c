package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config selects the model backend for question generation and chat.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "openrouter" or
	// "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one call including its retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // for OpenAI-compatible servers
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is the policy applied by WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// backend describes where one provider's settings live in Config and in
// the environment. Discovery tries them in this order.
type backend struct {
	name     string
	keyVars  []string // first set wins; the QUIZY_ one comes first
	modelVar string
	key      func(*Config) *string
	model    func(*Config) *string
}

var backends = []backend{
	{
		name:     "gemini",
		keyVars:  []string{"QUIZY_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		modelVar: "QUIZY_GEMINI_MODEL",
		key:      func(c *Config) *string { return &c.Gemini.APIKey },
		model:    func(c *Config) *string { return &c.Gemini.Model },
	},
	{
		name:     "openai",
		keyVars:  []string{"QUIZY_OPENAI_API_KEY", "OPENAI_API_KEY"},
		modelVar: "QUIZY_OPENAI_MODEL",
		key:      func(c *Config) *string { return &c.OpenAI.APIKey },
		model:    func(c *Config) *string { return &c.OpenAI.Model },
	},
	{
		name:     "anthropic",
		keyVars:  []string{"QUIZY_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
		modelVar: "QUIZY_ANTHROPIC_MODEL",
		key:      func(c *Config) *string { return &c.Anthropic.APIKey },
		model:    func(c *Config) *string { return &c.Anthropic.Model },
	},
	{
		name:     "openrouter",
		keyVars:  []string{"QUIZY_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
		modelVar: "QUIZY_OPENROUTER_MODEL",
		key:      func(c *Config) *string { return &c.OpenRouter.APIKey },
		model:    func(c *Config) *string { return &c.OpenRouter.Model },
	},
}

func lookupBackend(name string) (backend, bool) {
	for _, b := range backends {
		if b.name == name {
			return b, true
		}
	}
	return backend{}, false
}

// DefaultConfig uses Gemini Flash, which is cheap enough to generate a
// fresh batch for every quiz.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// ConfigFromEnv reads QUIZY_* variables over DefaultConfig. Every backend's
// key is filled from its QUIZY_ variable or the vendor's usual one, so a
// later switch of provider finds it.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("QUIZY_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	for _, b := range backends {
		*b.key(&cfg) = firstEnv(b.keyVars...)
		if m := os.Getenv(b.modelVar); m != "" {
			*b.model(&cfg) = m
		}
	}
	cfg.OpenAI.BaseURL = os.Getenv("QUIZY_OPENAI_BASE_URL")
	cfg.OpenRouter.BaseURL = os.Getenv("QUIZY_OPENROUTER_BASE_URL")

	if d, ok := envDuration("QUIZY_LLM_TIMEOUT"); ok {
		cfg.Timeout = d
	}
	if d, ok := envDuration("QUIZY_LLM_MAX_WAIT"); ok {
		cfg.Retry.MaxWait = d
	}
	if n, err := strconv.Atoi(os.Getenv("QUIZY_LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	return cfg
}

// DiscoverConfig picks the first backend with a vendor key in the
// environment. It reports false when there is none.
func DiscoverConfig() (Config, bool) {
	for _, b := range backends {
		if k := firstEnv(b.keyVars[1:]...); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = b.name
			*b.key(&cfg) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate reports a missing key for the selected provider, naming the
// variable that would set it.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	b, ok := lookupBackend(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *b.key(&c) == "" {
		return fmt.Errorf("%s is required for the %s provider", b.keyVars[0], b.name)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envDuration(key string) (time.Duration, bool) {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
