// Package screens holds the dependencies shared by the TUI screens.
package screens

import (
	"context"
	"time"

	"github.com/abhisek/quizy/internal/artwork"
	"github.com/abhisek/quizy/internal/chat"
	"github.com/abhisek/quizy/internal/quiz"
	"github.com/abhisek/quizy/internal/rewards"
	"github.com/abhisek/quizy/internal/store"
)

// Narrator speaks short lines in the background.
type Narrator interface {
	Say(text string)
	Prefetch(ctx context.Context, texts []string) error
}

// Services is passed from the app to every screen. Only Rewards and
// Questions are required; nil optional services hide their features.
type Services struct {
	Rewards   *rewards.Service
	Questions quiz.QuestionSource
	Events    store.EventRepo
	Narrator  Narrator
	Artwork   *artwork.Service
	Chat      chat.Responder

	// QuestionTimeout bounds one question fetch. Zero means no limit.
	QuestionTimeout time.Duration

	// Offline is set when no LLM is configured and questions come from
	// the built-in bank.
	Offline bool
}

// Say narrates text when a narrator is configured.
func (s *Services) Say(text string) {
	if s.Narrator != nil && text != "" {
		s.Narrator.Say(text)
	}
}

// FetchContext returns a context bounded by QuestionTimeout.
func (s *Services) FetchContext() (context.Context, context.CancelFunc) {
	if s.QuestionTimeout > 0 {
		return context.WithTimeout(context.Background(), s.QuestionTimeout)
	}
	return context.WithCancel(context.Background())
}
