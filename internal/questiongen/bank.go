package questiongen

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizy/internal/quiz"
)

//go:embed bank.yaml
var defaultBankYAML []byte

// ErrUnknownSubject is returned when the bank has no questions for a subject.
var ErrUnknownSubject = errors.New("no offline questions for subject")

type bankFile struct {
	Subjects []bankSubject `yaml:"subjects"`
}

type bankSubject struct {
	Name      string          `yaml:"name"`
	Questions []quiz.Question `yaml:"questions"`
}

// BankSource serves questions from a static bank. It lets the game run
// without an LLM key.
type BankSource struct {
	mu       sync.Mutex
	rng      *rand.Rand
	subjects map[string][]quiz.Question
}

// NewBankSource loads the built-in bank. The seed controls the shuffle.
func NewBankSource(seed uint64) (*BankSource, error) {
	return ParseBank(defaultBankYAML, seed)
}

// ParseBank loads a bank from YAML. Every question must be valid and each
// subject needs at least quiz.QuestionsPerQuiz questions.
func ParseBank(data []byte, seed uint64) (*BankSource, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	subjects := make(map[string][]quiz.Question, len(f.Subjects))
	for _, s := range f.Subjects {
		if len(s.Questions) < quiz.QuestionsPerQuiz {
			return nil, fmt.Errorf("bank subject %q has %d questions, need at least %d",
				s.Name, len(s.Questions), quiz.QuestionsPerQuiz)
		}
		for i, q := range s.Questions {
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("bank subject %q question %d: %w", s.Name, i+1, err)
			}
		}
		subjects[bankKey(s.Name)] = s.Questions
	}

	return &BankSource{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		subjects: subjects,
	}, nil
}

// Subjects returns how many subjects the bank covers.
func (b *BankSource) Subjects() int {
	return len(b.subjects)
}

// FetchQuestions picks quiz.QuestionsPerQuiz distinct questions for subject.
func (b *BankSource) FetchQuestions(ctx context.Context, subject string) ([]quiz.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool, ok := b.subjects[bankKey(subject)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}

	b.mu.Lock()
	perm := b.rng.Perm(len(pool))
	b.mu.Unlock()

	out := make([]quiz.Question, quiz.QuestionsPerQuiz)
	for i := range out {
		q := pool[perm[i]]
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out, nil
}

func bankKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
