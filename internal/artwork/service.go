package artwork

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/store"
)

// MediaRecorder is the slice of store.EventRepo the service writes to.
type MediaRecorder interface {
	AppendMediaEvent(ctx context.Context, data store.MediaEventData) error
}

// Status is the state of an artwork request.
type Status int

const (
	StatusNone Status = iota
	StatusPending
	StatusReady
	StatusFailed
)

// Result is the latest known state of a badge's artwork.
type Result struct {
	Status Status
	Image  *Image
	Err    error
}

// Service generates badge artwork in the background and caches it on disk
// as CacheDir/art/<badge-id>.png.
type Service struct {
	gen      Generator
	backend  string
	cacheDir string
	events   MediaRecorder

	mu      sync.Mutex
	results map[string]Result
}

// NewService creates an artwork service. A nil generator serves cached
// artwork only.
func NewService(gen Generator, backend, cacheDir string, events MediaRecorder) *Service {
	return &Service{
		gen:      gen,
		backend:  backend,
		cacheDir: cacheDir,
		events:   events,
		results:  make(map[string]Result),
	}
}

// Enabled reports whether new artwork can be generated.
func (s *Service) Enabled() bool {
	return s.gen != nil
}

// Request starts generating artwork for badge unless it is cached or
// already in flight.
func (s *Service) Request(ctx context.Context, badge progression.Badge) {
	s.mu.Lock()
	if r, ok := s.results[badge.ID]; ok && (r.Status == StatusPending || r.Status == StatusReady) {
		s.mu.Unlock()
		return
	}
	if img, ok := s.cached(badge.ID); ok {
		s.results[badge.ID] = Result{Status: StatusReady, Image: img}
		s.mu.Unlock()
		return
	}
	s.results[badge.ID] = Result{Status: StatusPending}
	s.mu.Unlock()

	go func() {
		img, err := s.generate(ctx, badge)
		r := Result{Status: StatusReady, Image: img}
		if err != nil {
			r = Result{Status: StatusFailed, Err: err}
		}
		s.mu.Lock()
		s.results[badge.ID] = r
		s.mu.Unlock()
	}()
}

// Result returns the state of the artwork for badgeID. Artwork cached by an
// earlier run is reported ready without a prior Request.
func (s *Service) Result(badgeID string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.results[badgeID]; ok {
		return r
	}
	if img, ok := s.cached(badgeID); ok {
		r := Result{Status: StatusReady, Image: img}
		s.results[badgeID] = r
		return r
	}
	return Result{Status: StatusNone}
}

// Get returns the artwork for badge, generating it synchronously on a miss.
func (s *Service) Get(ctx context.Context, badge progression.Badge) (*Image, error) {
	s.mu.Lock()
	img, ok := s.cached(badge.ID)
	s.mu.Unlock()
	if ok {
		return img, nil
	}
	return s.generate(ctx, badge)
}

// Path returns where artwork for badgeID is cached.
func (s *Service) Path(badgeID string) string {
	return filepath.Join(s.cacheDir, "art", badgeID+".png")
}

func (s *Service) cached(badgeID string) (*Image, bool) {
	if s.cacheDir == "" {
		return nil, false
	}
	path := s.Path(badgeID)
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		return nil, false
	}
	return &Image{Path: path, MIMEType: "image/png"}, true
}

func (s *Service) generate(ctx context.Context, badge progression.Badge) (*Image, error) {
	if s.gen == nil {
		return nil, errors.New("no artwork backend configured")
	}

	start := time.Now()
	img, err := s.gen.Generate(ctx, badge.IconPrompt)

	event := store.MediaEventData{
		Kind:    store.MediaArtwork,
		Backend: s.backend,
		Subject: badge.ID,
		Success: err == nil,
	}
	defer func() {
		event.LatencyMs = time.Since(start).Milliseconds()
		s.record(ctx, event)
	}()

	if err != nil {
		event.ErrorMessage = err.Error()
		return nil, err
	}

	if s.cacheDir != "" {
		path := s.Path(badge.ID)
		if err := writeImage(path, img.Data); err != nil {
			event.Success = false
			event.ErrorMessage = err.Error()
			return nil, err
		}
		img.Path = path
		event.Path = path
	}
	event.Bytes = int64(len(img.Data))
	return img, nil
}

func (s *Service) record(ctx context.Context, ev store.MediaEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendMediaEvent(context.WithoutCancel(ctx), ev); err != nil {
		log.Printf("artwork: failed to record media event: %v", err)
	}
}

func writeImage(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create art dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
