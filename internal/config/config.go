// Package config assembles runtime configuration from the environment and
// optional dotenv files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/abhisek/quizy/internal/llm"
)

// Speech backends.
const (
	SpeechGemini = "gemini"
	SpeechCloud  = "gcloud"
	SpeechOff    = "off"
)

// Artwork backends.
const (
	ArtworkImagen = "imagen"
	ArtworkOpenAI = "openai"
	ArtworkOff    = "off"
)

// Config is the full runtime configuration.
type Config struct {
	LLM     llm.Config
	Speech  SpeechConfig
	Artwork ArtworkConfig

	// CacheDir holds generated audio clips and badge artwork.
	CacheDir string
	Debug    bool

	// EnvFiles lists the dotenv files that were found and loaded.
	EnvFiles []string
}

// SpeechConfig selects the narration backend.
type SpeechConfig struct {
	Backend string
	Voice   string // empty selects the backend default
	Model   string // gemini only
	Player  string // audio player command; empty auto-detects
}

// ArtworkConfig selects the badge artwork backend.
type ArtworkConfig struct {
	Backend string
	Model   string // empty selects the backend default
}

// Load reads .env from the working directory, the user config file and any
// extra files, then builds a Config from the environment. Missing files are
// skipped. Variables already present in the environment take precedence.
func Load(extraEnvFiles ...string) (Config, error) {
	loaded, err := loadEnvFiles(envFileCandidates(extraEnvFiles))
	if err != nil {
		return Config{}, err
	}
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.EnvFiles = loaded
	return cfg, nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		LLM:   llm.ConfigFromEnv(),
		Debug: envBool("QUIZY_DEBUG"),
	}

	// Without an explicit provider, pick whichever vendor key is present.
	if os.Getenv("QUIZY_LLM_PROVIDER") == "" && cfg.LLM.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			discovered.Timeout = cfg.LLM.Timeout
			discovered.Retry = cfg.LLM.Retry
			cfg.LLM = discovered
		}
	}

	cfg.Speech = SpeechConfig{
		Backend: os.Getenv("QUIZY_SPEECH_BACKEND"),
		Voice:   os.Getenv("QUIZY_SPEECH_VOICE"),
		Model:   os.Getenv("QUIZY_SPEECH_MODEL"),
		Player:  os.Getenv("QUIZY_AUDIO_PLAYER"),
	}
	if cfg.Speech.Backend == "" {
		cfg.Speech.Backend = SpeechOff
		if cfg.LLM.Gemini.APIKey != "" {
			cfg.Speech.Backend = SpeechGemini
		}
	}

	cfg.Artwork = ArtworkConfig{
		Backend: os.Getenv("QUIZY_ARTWORK_BACKEND"),
		Model:   os.Getenv("QUIZY_ARTWORK_MODEL"),
	}
	if cfg.Artwork.Backend == "" {
		switch {
		case cfg.LLM.Gemini.APIKey != "":
			cfg.Artwork.Backend = ArtworkImagen
		case cfg.LLM.OpenAI.APIKey != "":
			cfg.Artwork.Backend = ArtworkOpenAI
		default:
			cfg.Artwork.Backend = ArtworkOff
		}
	}

	dir, err := cacheDir()
	if err != nil {
		return Config{}, err
	}
	cfg.CacheDir = dir
	return cfg, nil
}

// Validate rejects unknown backend names and backends missing their keys.
// An unusable LLM provider is not an error: the app falls back to the
// offline question bank.
func (c Config) Validate() error {
	var errs []error
	switch c.Speech.Backend {
	case SpeechGemini:
		if c.LLM.Gemini.APIKey == "" {
			errs = append(errs, fmt.Errorf("QUIZY_GEMINI_API_KEY is required for gemini speech"))
		}
	case SpeechCloud, SpeechOff:
	default:
		errs = append(errs, fmt.Errorf("unknown speech backend: %q", c.Speech.Backend))
	}
	switch c.Artwork.Backend {
	case ArtworkImagen:
		if c.LLM.Gemini.APIKey == "" {
			errs = append(errs, fmt.Errorf("QUIZY_GEMINI_API_KEY is required for imagen artwork"))
		}
	case ArtworkOpenAI:
		if c.LLM.OpenAI.APIKey == "" {
			errs = append(errs, fmt.Errorf("QUIZY_OPENAI_API_KEY is required for openai artwork"))
		}
	case ArtworkOff:
	default:
		errs = append(errs, fmt.Errorf("unknown artwork backend: %q", c.Artwork.Backend))
	}
	return errors.Join(errs...)
}

// LLMEnabled reports whether the configured LLM provider can be built.
func (c Config) LLMEnabled() bool {
	return c.LLM.Validate() == nil
}

// LogPath is where debug logs are written.
func (c Config) LogPath() string {
	return filepath.Join(c.CacheDir, "debug.log")
}

func envFileCandidates(extra []string) []string {
	files := []string{".env"}
	if dir, err := configDir(); err == nil {
		files = append(files, filepath.Join(dir, "config.env"))
	}
	return append(files, extra...)
}

func loadEnvFiles(files []string) ([]string, error) {
	var loaded []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
		loaded = append(loaded, f)
	}
	return loaded, nil
}

func configDir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "quizy"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "quizy"), nil
}

func cacheDir() (string, error) {
	if d := os.Getenv("QUIZY_CACHE_DIR"); d != "" {
		return d, nil
	}
	if d := os.Getenv("XDG_CACHE_HOME"); d != "" {
		return filepath.Join(d, "quizy"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".cache", "quizy"), nil
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
