// Package rewards owns the learner's progress: it applies quiz results,
// unlocks badges and persists the outcome.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/quiz"
	"github.com/abhisek/quizy/internal/store"
)

// ErrPersistence means progress was updated in memory but could not be
// saved. The in-memory progress stays authoritative.
var ErrPersistence = errors.New("progress could not be saved")

// ProgressStore loads and saves the learner's progress. Load returns nil
// when nothing has been saved yet.
type ProgressStore interface {
	Load(ctx context.Context) (*progression.UserProgress, error)
	Save(ctx context.Context, p progression.UserProgress) error
}

// EventRecorder is the slice of store.EventRepo the service writes to.
type EventRecorder interface {
	AppendQuizEvent(ctx context.Context, data store.QuizEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
	AppendBadgeEvent(ctx context.Context, data store.BadgeEventData) error
}

// Option configures a Service.
type Option func(*Service)

// WithLevels replaces the default level table.
func WithLevels(t progression.LevelTable) Option {
	return func(s *Service) { s.levels = t }
}

// WithBadges replaces the default badge catalog.
func WithBadges(b []progression.Badge) Option {
	return func(s *Service) { s.badges = b }
}

// Service is the single writer of UserProgress.
type Service struct {
	store  ProgressStore
	events EventRecorder
	levels progression.LevelTable
	badges []progression.Badge

	mu      sync.Mutex
	current progression.UserProgress

	// SessionUnlocks accumulates badges unlocked since the service started.
	SessionUnlocks []progression.Badge
}

// NewService creates a Service. Either dependency may be nil: a nil store
// keeps progress in memory only, a nil recorder skips event logging.
func NewService(ps ProgressStore, events EventRecorder, opts ...Option) *Service {
	s := &Service{
		store:   ps,
		events:  events,
		levels:  progression.DefaultLevels,
		badges:  progression.DefaultBadges,
		current: progression.NewUserProgress(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the persisted progress. Absent progress starts from zero.
func (s *Service) Load(ctx context.Context) error {
	p := progression.NewUserProgress()
	if s.store != nil {
		saved, err := s.store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if saved != nil {
			p = saved.Clone()
		}
	}

	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the current progress.
func (s *Service) Current() progression.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Level returns the level for the current XP.
func (s *Service) Level() progression.Level {
	return progression.ResolveLevel(s.levels, s.Current().XP)
}

// LevelProgress returns progress toward the next level.
func (s *Service) LevelProgress() progression.Progress {
	return progression.LevelProgress(s.levels, s.Current().XP)
}

// Levels returns the level table in use.
func (s *Service) Levels() progression.LevelTable {
	return s.levels
}

// Badges returns the badge catalog in use.
func (s *Service) Badges() []progression.Badge {
	return s.badges
}

// Complete applies a finished quiz to the progress and saves it. When the
// save fails the outcome is still returned, along with an error wrapping
// ErrPersistence.
func (s *Service) Complete(ctx context.Context, sessionID, subject string, r progression.QuizResult) (progression.Outcome, error) {
	s.mu.Lock()
	next, out := s.current.Apply(s.levels, s.badges, r)
	s.current = next
	if out.Unlocked != nil {
		s.SessionUnlocks = append(s.SessionUnlocks, *out.Unlocked)
	}
	s.mu.Unlock()

	saveErr := s.save(ctx, next)

	s.record(ctx, "quiz", func() error {
		return s.events.AppendQuizEvent(ctx, store.QuizEventData{
			SessionID:  sessionID,
			Subject:    subject,
			Action:     store.QuizActionComplete,
			Score:      r.Score,
			Questions:  r.Questions,
			XPGained:   r.XPGained,
			NewStreak:  r.NewStreak,
			Multiplier: r.Multiplier,
			Level:      out.Level.Name,
		})
	})
	if b := out.Unlocked; b != nil {
		s.record(ctx, "badge", func() error {
			return s.events.AppendBadgeEvent(ctx, store.BadgeEventData{
				BadgeID:   b.ID,
				BadgeName: b.Name,
				SessionID: sessionID,
				XP:        next.XP,
				Streak:    next.Streak,
			})
		})
	}

	return out, saveErr
}

// RecordStart logs that a quiz session began.
func (s *Service) RecordStart(ctx context.Context, sess *quiz.Session) {
	s.record(ctx, "quiz", func() error {
		return s.events.AppendQuizEvent(ctx, store.QuizEventData{
			SessionID: sess.ID,
			Subject:   sess.Subject,
			Action:    store.QuizActionStart,
		})
	})
}

// RecordAnswer logs an answered question.
func (s *Service) RecordAnswer(ctx context.Context, sess *quiz.Session, a quiz.AnswerOutcome) {
	q := sess.Current()
	if q == nil {
		return
	}
	s.record(ctx, "answer", func() error {
		return s.events.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionID:     sess.ID,
			Subject:       sess.Subject,
			QuestionIndex: sess.Index,
			QuestionText:  q.Text,
			Selected:      a.Selected,
			CorrectIndex:  a.CorrectIndex,
			Correct:       a.Correct,
		})
	})
}

// RecordAbandon logs an abandoned quiz. Progress is unchanged.
func (s *Service) RecordAbandon(ctx context.Context, sess *quiz.Session) {
	s.record(ctx, "quiz", func() error {
		return s.events.AppendQuizEvent(ctx, store.QuizEventData{
			SessionID: sess.ID,
			Subject:   sess.Subject,
			Action:    store.QuizActionAbandon,
			Score:     sess.Score,
			Questions: sess.Answered(),
		})
	})
}

// Reset returns progress to the zero state and saves it.
func (s *Service) Reset(ctx context.Context) error {
	zero := progression.NewUserProgress()
	s.mu.Lock()
	s.current = zero
	s.SessionUnlocks = nil
	s.mu.Unlock()
	return s.save(ctx, zero)
}

func (s *Service) save(ctx context.Context, p progression.UserProgress) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, p); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// record runs a best-effort event write.
func (s *Service) record(ctx context.Context, kind string, write func() error) {
	if s.events == nil || ctx.Err() != nil {
		return
	}
	if err := write(); err != nil {
		log.Printf("rewards: failed to record %s event: %v", kind, err)
	}
}
