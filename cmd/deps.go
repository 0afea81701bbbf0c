package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/abhisek/quizy/internal/artwork"
	"github.com/abhisek/quizy/internal/chat"
	"github.com/abhisek/quizy/internal/config"
	"github.com/abhisek/quizy/internal/llm"
	"github.com/abhisek/quizy/internal/questiongen"
	"github.com/abhisek/quizy/internal/rewards"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/speech"
	"github.com/abhisek/quizy/internal/store"
)

// questionTimeout bounds one quiz fetch including LLM retries and the
// offline fallback.
const questionTimeout = 90 * time.Second

// errNoLLM is returned by commands that cannot work offline.
var errNoLLM = errors.New("no LLM provider configured; set GEMINI_API_KEY or another provider key")

// deps holds what the commands share. Call close when done.
type deps struct {
	store    *store.Store
	rewards  *rewards.Service
	provider llm.Provider
	gemini   *genai.Client
	closers  []func()
}

// openDeps opens the store, loads progress and builds the LLM provider.
// A missing or broken provider is logged and left nil.
func openDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()

	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{store: st}

	d.rewards = rewards.NewService(rewards.NewStoreAdapter(st), st.EventRepo())
	if err := d.rewards.Load(ctx); err != nil {
		d.close()
		return nil, fmt.Errorf("load progress: %w", err)
	}

	if cfg.LLMEnabled() {
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
		if err != nil {
			log.Printf("llm: %v", err)
		} else {
			d.provider = provider
		}
	}
	return d, nil
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.store.Close()
}

// geminiClient lazily creates the client shared by speech and artwork.
func (d *deps) geminiClient(ctx context.Context) (*genai.Client, error) {
	if d.gemini != nil {
		return d.gemini, nil
	}
	c, err := llm.NewGeminiClient(ctx, cfg.LLM.Gemini.APIKey)
	if err != nil {
		return nil, err
	}
	d.gemini = c
	return c, nil
}

// questions returns the LLM source with the offline bank as fallback.
func (d *deps) questions() (*questiongen.FallbackSource, error) {
	bank, err := questiongen.NewBankSource(uint64(time.Now().UnixNano()))
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	src := &questiongen.FallbackSource{
		Secondary: bank,
		OnFallback: func(subject string, err error) {
			log.Printf("questions: %s: using offline bank: %v", subject, err)
		},
	}
	if d.provider != nil {
		src.Primary = questiongen.NewLLMSource(d.provider, questiongen.DefaultConfig())
	}
	return src, nil
}

// synthesizer builds the configured speech backend, or nil when speech
// is off.
func (d *deps) synthesizer(ctx context.Context) (speech.Synthesizer, error) {
	switch cfg.Speech.Backend {
	case config.SpeechGemini:
		client, err := d.geminiClient(ctx)
		if err != nil {
			return nil, err
		}
		return speech.NewGeminiSynthesizer(client, cfg.Speech.Model, cfg.Speech.Voice), nil
	case config.SpeechCloud:
		c, err := speech.NewCloudSynthesizer(ctx, cfg.Speech.Voice)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { c.Close() })
		return c, nil
	}
	return nil, nil
}

// narrator builds a narrator for the configured backend, or nil.
func (d *deps) narrator(ctx context.Context, player bool) (*speech.Narrator, error) {
	synth, err := d.synthesizer(ctx)
	if err != nil || synth == nil {
		return nil, err
	}
	nc := speech.NarratorConfig{
		Synth:    synth,
		Backend:  cfg.Speech.Backend,
		CacheDir: cfg.CacheDir,
		Events:   d.store.EventRepo(),
	}
	if player {
		nc.Player = speech.CommandPlayer(cfg.Speech.Player)
	}
	return speech.NewNarrator(nc), nil
}

// artwork builds the badge artwork service. With artwork off the service
// still reports images cached by earlier runs.
func (d *deps) artwork(ctx context.Context) (*artwork.Service, error) {
	var gen artwork.Generator
	switch cfg.Artwork.Backend {
	case config.ArtworkImagen:
		client, err := d.geminiClient(ctx)
		if err != nil {
			return nil, err
		}
		gen = artwork.NewImagenGenerator(client, cfg.Artwork.Model)
	case config.ArtworkOpenAI:
		g, err := artwork.NewOpenAIGenerator(artwork.OpenAIConfig{
			APIKey:  cfg.LLM.OpenAI.APIKey,
			Model:   cfg.Artwork.Model,
			BaseURL: cfg.LLM.OpenAI.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		gen = g
	}
	return artwork.NewService(gen, cfg.Artwork.Backend, cfg.CacheDir, d.store.EventRepo()), nil
}

// services assembles everything the TUI screens use. Media backends that
// fail to start are logged and disabled.
func (d *deps) services(ctx context.Context) (*screens.Services, error) {
	src, err := d.questions()
	if err != nil {
		return nil, err
	}
	svc := &screens.Services{
		Rewards:         d.rewards,
		Questions:       src,
		Events:          d.store.EventRepo(),
		QuestionTimeout: questionTimeout,
		Offline:         d.provider == nil,
	}
	if d.provider != nil {
		svc.Chat = chat.NewLLMResponder(d.provider)
	}

	n, err := d.narrator(ctx, true)
	if err != nil {
		log.Printf("speech: disabled: %v", err)
	}
	if n != nil {
		n.Start(ctx)
		d.closers = append(d.closers, n.Stop)
		svc.Narrator = n
	}

	art, err := d.artwork(ctx)
	if err != nil {
		log.Printf("artwork: disabled: %v", err)
		art = artwork.NewService(nil, config.ArtworkOff, cfg.CacheDir, d.store.EventRepo())
	}
	svc.Artwork = art
	return svc, nil
}
