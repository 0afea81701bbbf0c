package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/quizy/internal/llm"
	"github.com/abhisek/quizy/internal/quiz"
)

// LLMSource implements quiz.QuestionSource using an LLM provider.
type LLMSource struct {
	provider llm.Provider
	config   Config

	mu    sync.Mutex
	prior map[string][]string // subject -> recently asked question texts
}

// NewLLMSource creates an LLMSource with the given provider and config.
func NewLLMSource(provider llm.Provider, cfg Config) *LLMSource {
	return &LLMSource{
		provider: provider,
		config:   cfg,
		prior:    make(map[string][]string),
	}
}

// questionsOutput is the raw LLM response before validation.
type questionsOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// FetchQuestions asks the model for a batch of questions about subject.
// Each reply runs through the validator chain inside the provider call, so
// a retrying provider resamples rejected batches. A batch cut off at the
// token limit is requested again with twice the budget, up to
// Config.MaxTokensCeiling.
func (s *LLMSource) FetchQuestions(ctx context.Context, subject string) ([]quiz.Question, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	ctx = llm.WithCall(ctx, llm.Call{Purpose: llm.PurposeQuestionGen, Subject: subject})

	budget := s.config.MaxTokens
	for {
		questions, err := s.generate(ctx, subject, budget)
		if err == nil {
			s.remember(subject, questions)
			return questions, nil
		}
		if !errors.Is(err, llm.ErrTruncated) || budget*2 > s.config.MaxTokensCeiling {
			return nil, fmt.Errorf("generate %s questions: %w", subject, err)
		}
		budget *= 2
	}
}

func (s *LLMSource) generate(ctx context.Context, subject string, maxTokens int) ([]quiz.Question, error) {
	var batch []quiz.Question
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(subject, s.priorFor(subject), s.config)},
		},
		Schema:      QuestionsSchema,
		MaxTokens:   maxTokens,
		Temperature: s.config.Temperature,
		Check: func(content json.RawMessage) error {
			qs, verr := s.check(content)
			if verr != nil {
				return verr
			}
			batch = qs
			return nil
		},
	}

	if _, err := s.provider.Generate(ctx, req); err != nil {
		return nil, err
	}
	return batch, nil
}

// check decodes a schema-valid batch and runs the validator chain.
func (s *LLMSource) check(content json.RawMessage) ([]quiz.Question, *ValidationError) {
	var raw questionsOutput
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, &ValidationError{Validator: "decode", Message: err.Error(), Retryable: true}
	}

	questions := make([]quiz.Question, len(raw.Questions))
	for i, q := range raw.Questions {
		questions[i] = tidy(q)
	}
	for _, v := range s.config.Validators {
		if verr := v.Validate(questions); verr != nil {
			return nil, verr
		}
	}
	return questions, nil
}

func (s *LLMSource) priorFor(subject string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prior[strings.ToLower(subject)]...)
}

func (s *LLMSource) remember(subject string, questions []quiz.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(subject)
	list := s.prior[key]
	for _, q := range questions {
		list = append(list, q.Text)
	}
	if limit := s.config.MaxPriorQuestions; limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	s.prior[key] = list
}

func tidy(q quiz.Question) quiz.Question {
	q.Text = strings.TrimSpace(q.Text)
	q.Explanation = strings.TrimSpace(q.Explanation)
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = strings.TrimSpace(o)
	}
	q.Options = opts
	return q
}
