package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizy/internal/quiz"
)

// Validator checks a generated batch of questions.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural".
	Name() string

	// Validate returns nil if the batch passes.
	Validate(questions []quiz.Question) *ValidationError
}

// ValidationError describes why a batch failed validation.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// ShouldRetry lets a retrying provider decide whether to resample.
func (e *ValidationError) ShouldRetry() bool {
	return e.Retryable
}

const (
	maxQuestionLen    = 300
	maxOptionLen      = 120
	maxExplanationLen = 600
)

// StructuralValidator checks the batch size, option count, correct index
// and field lengths.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(questions []quiz.Question) *ValidationError {
	if len(questions) != quiz.QuestionsPerQuiz {
		return v.fail(fmt.Sprintf("got %d questions, want %d", len(questions), quiz.QuestionsPerQuiz))
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return v.fail(fmt.Sprintf("question %d: %v", i+1, err))
		}
		if len(q.Text) > maxQuestionLen {
			return v.fail(fmt.Sprintf("question %d exceeds %d characters", i+1, maxQuestionLen))
		}
		for _, opt := range q.Options {
			if len(opt) > maxOptionLen {
				return v.fail(fmt.Sprintf("question %d has an option over %d characters", i+1, maxOptionLen))
			}
		}
		if strings.TrimSpace(q.Explanation) == "" {
			return v.fail(fmt.Sprintf("question %d has no explanation", i+1))
		}
		if len(q.Explanation) > maxExplanationLen {
			return v.fail(fmt.Sprintf("question %d explanation exceeds %d characters", i+1, maxExplanationLen))
		}
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}

// DuplicateOptionValidator rejects questions whose options repeat, which
// would make more than one answer look correct.
type DuplicateOptionValidator struct{}

func (v *DuplicateOptionValidator) Name() string { return "duplicate-option" }

func (v *DuplicateOptionValidator) Validate(questions []quiz.Question) *ValidationError {
	for i, q := range questions {
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			key := normalize(opt)
			if seen[key] {
				return &ValidationError{
					Validator: v.Name(),
					Message:   fmt.Sprintf("question %d repeats option %q", i+1, opt),
					Retryable: true,
				}
			}
			seen[key] = true
		}
	}
	return nil
}

// DuplicateQuestionValidator rejects batches that ask the same question twice.
type DuplicateQuestionValidator struct{}

func (v *DuplicateQuestionValidator) Name() string { return "duplicate-question" }

func (v *DuplicateQuestionValidator) Validate(questions []quiz.Question) *ValidationError {
	seen := make(map[string]int, len(questions))
	for i, q := range questions {
		key := normalize(q.Text)
		if j, ok := seen[key]; ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("questions %d and %d are the same", j+1, i+1),
				Retryable: true,
			}
		}
		seen[key] = i
	}
	return nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
