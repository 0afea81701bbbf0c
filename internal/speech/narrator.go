package speech

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/quizy/internal/store"
)

// MediaRecorder is the slice of store.EventRepo the narrator writes to.
type MediaRecorder interface {
	AppendMediaEvent(ctx context.Context, data store.MediaEventData) error
}

// Player plays an audio file and returns when playback ends.
type Player func(ctx context.Context, path string) error

// NarratorConfig configures a Narrator.
type NarratorConfig struct {
	Synth    Synthesizer
	Backend  string // recorded with each media event, e.g. "gemini"
	CacheDir string // clips are stored under CacheDir/audio
	Player   Player // nil disables playback; clips are still cached
	Events   MediaRecorder

	// QueueSize bounds pending lines. When full, the oldest line is dropped.
	QueueSize int

	// PrefetchConcurrency bounds parallel synthesis in Prefetch.
	PrefetchConcurrency int
}

// Narrator speaks lines in the background, one at a time.
type Narrator struct {
	cfg   NarratorConfig
	queue chan string

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}

	clips singleflight.Group
}

// NewNarrator creates a Narrator. Call Start before Say.
func NewNarrator(cfg NarratorConfig) *Narrator {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 4
	}
	if cfg.PrefetchConcurrency <= 0 {
		cfg.PrefetchConcurrency = 3
	}
	return &Narrator{
		cfg:   cfg,
		queue: make(chan string, cfg.QueueSize),
		done:  make(chan struct{}),
	}
}

// Start launches the playback worker. It stops when ctx is cancelled or
// Stop is called.
func (n *Narrator) Start(ctx context.Context) {
	n.startOnce.Do(func() {
		ctx, n.cancel = context.WithCancel(ctx)
		go n.run(ctx)
	})
}

// Stop ends the worker and waits for it to exit.
func (n *Narrator) Stop() {
	n.stopOnce.Do(func() {
		if n.cancel == nil {
			close(n.done)
			return
		}
		n.cancel()
		<-n.done
	})
}

// Say queues text for playback without blocking.
func (n *Narrator) Say(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for {
		select {
		case n.queue <- text:
			return
		default:
		}
		// Full: drop the oldest line and try again.
		select {
		case <-n.queue:
		default:
		}
	}
}

// Prefetch synthesizes and caches texts so later Say calls play instantly.
// Every text is attempted; the first synthesis error is returned. A failed
// clip does not cancel the others.
func (n *Narrator) Prefetch(ctx context.Context, texts []string) error {
	var g errgroup.Group
	g.SetLimit(n.cfg.PrefetchConcurrency)
	for _, t := range texts {
		t := strings.TrimSpace(t)
		if t == "" {
			continue
		}
		g.Go(func() error {
			_, err := n.Clip(ctx, t)
			return err
		})
	}
	return g.Wait()
}

// Clip returns the cached audio file for text, synthesizing it on a miss.
// Concurrent requests for the same text share one synthesis.
func (n *Narrator) Clip(ctx context.Context, text string) (string, error) {
	key := clipKey(text)

	if path, ok := n.cached(key); ok {
		return path, nil
	}

	path, err, _ := n.clips.Do(key, func() (any, error) {
		if path, ok := n.cached(key); ok {
			return path, nil
		}
		return n.synthesize(ctx, key, text)
	})
	if err != nil {
		return "", err
	}
	return path.(string), nil
}

func (n *Narrator) run(ctx context.Context) {
	defer close(n.done)
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-n.queue:
			n.speak(ctx, text)
		}
	}
}

func (n *Narrator) speak(ctx context.Context, text string) {
	path, err := n.Clip(ctx, text)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("speech: %v", err)
		}
		return
	}
	if n.cfg.Player == nil {
		return
	}
	if err := n.cfg.Player(ctx, path); err != nil && ctx.Err() == nil {
		log.Printf("speech: play %s: %v", filepath.Base(path), err)
	}
}

func (n *Narrator) synthesize(ctx context.Context, key, text string) (string, error) {
	if n.cfg.Synth == nil {
		return "", errors.New("no speech backend configured")
	}

	start := time.Now()
	audio, err := n.cfg.Synth.Synthesize(ctx, text)

	event := store.MediaEventData{
		Kind:      store.MediaSpeech,
		Backend:   n.cfg.Backend,
		Subject:   text,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	defer func() { n.record(ctx, event) }()

	if err != nil {
		event.ErrorMessage = err.Error()
		return "", err
	}

	path := filepath.Join(n.audioDir(), key+"."+audio.Ext)
	if err := writeFileAtomic(path, audio.Data); err != nil {
		event.Success = false
		event.ErrorMessage = err.Error()
		return "", err
	}
	event.Path = path
	event.Bytes = int64(len(audio.Data))
	return path, nil
}

func (n *Narrator) record(ctx context.Context, ev store.MediaEventData) {
	if n.cfg.Events == nil {
		return
	}
	if err := n.cfg.Events.AppendMediaEvent(context.WithoutCancel(ctx), ev); err != nil {
		log.Printf("speech: failed to record media event: %v", err)
	}
}

func (n *Narrator) cached(key string) (string, bool) {
	matches, _ := filepath.Glob(filepath.Join(n.audioDir(), key+".*"))
	for _, m := range matches {
		if !strings.HasSuffix(m, ".tmp") {
			return m, true
		}
	}
	return "", false
}

func (n *Narrator) audioDir() string {
	if n.cfg.CacheDir == "" {
		return filepath.Join(os.TempDir(), "quizy", "audio")
	}
	return filepath.Join(n.cfg.CacheDir, "audio")
}

func clipKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write clip: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write clip: %w", err)
	}
	return nil
}
