// Package questiongen supplies quiz questions from an LLM or from the
// built-in offline bank.
package questiongen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/quizy/internal/llm"
	"github.com/abhisek/quizy/internal/quiz"
)

var (
	_ quiz.QuestionSource = (*LLMSource)(nil)
	_ quiz.QuestionSource = (*BankSource)(nil)
	_ quiz.QuestionSource = (*FallbackSource)(nil)
)

// FallbackSource tries Primary and, if it fails, Secondary. A nil Primary
// goes straight to Secondary. With no Secondary, Primary's error is
// returned, or quiz.ErrLoadFailure when neither source is set.
//
// Once Primary fails with llm.ErrMisconfigured it is not asked again.
type FallbackSource struct {
	Primary   quiz.QuestionSource
	Secondary quiz.QuestionSource

	// OnFallback, when set, is told why Primary was skipped.
	OnFallback func(subject string, err error)

	mu     sync.Mutex
	broken error // Primary's configuration error, once seen
}

func (f *FallbackSource) FetchQuestions(ctx context.Context, subject string) ([]quiz.Question, error) {
	var primaryErr error
	switch broken := f.brokenPrimary(); {
	case f.Primary == nil:
	case broken != nil:
		primaryErr = broken
	default:
		qs, err := f.Primary.FetchQuestions(ctx, subject)
		if err == nil {
			return qs, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		primaryErr = err
		if errors.Is(err, llm.ErrMisconfigured) && f.Secondary != nil {
			f.mu.Lock()
			f.broken = err
			f.mu.Unlock()
		}
	}

	if f.Secondary == nil {
		if primaryErr != nil {
			return nil, primaryErr
		}
		return nil, fmt.Errorf("%w: no question source configured", quiz.ErrLoadFailure)
	}
	if primaryErr != nil && f.OnFallback != nil {
		f.OnFallback(subject, primaryErr)
	}
	return f.Secondary.FetchQuestions(ctx, subject)
}

func (f *FallbackSource) brokenPrimary() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.broken
}
