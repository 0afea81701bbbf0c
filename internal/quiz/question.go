package quiz

import (
	"context"
	"fmt"
	"strings"
)

const (
	QuestionsPerQuiz   = 5
	OptionsPerQuestion = 4
)

// Question is a single multiple-choice question.
type Question struct {
	Text         string   `json:"question" yaml:"question"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctAnswerIndex" yaml:"answer"`
	Explanation  string   `json:"explanation" yaml:"explanation"`
}

// Validate checks the question has text, four non-empty options, and a
// correct index pointing at one of them.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("question %q has %d options, want %d", q.Text, len(q.Options), OptionsPerQuestion)
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("question %q option %d is empty", q.Text, i)
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("question %q correct index %d out of range", q.Text, q.CorrectIndex)
	}
	return nil
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// OptionLabel returns the letter shown next to option i ("A".."D").
func OptionLabel(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

// QuestionSource supplies the questions for a quiz.
type QuestionSource interface {
	// FetchQuestions returns exactly QuestionsPerQuiz questions for subject.
	FetchQuestions(ctx context.Context, subject string) ([]Question, error)
}
