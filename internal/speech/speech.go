// Package speech reads quiz lines aloud. Audio is synthesized by a
// Synthesizer, cached on disk and handed to an external player command.
package speech

import (
	"context"
	"fmt"

	"github.com/abhisek/quizy/internal/quiz"
)

// Audio is a synthesized clip.
type Audio struct {
	Data     []byte
	MIMEType string
	Ext      string // file extension without the dot
}

// Synthesizer turns text into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
}

// Spoken lines.
const (
	CorrectLine   = "Correct!"
	IncorrectLine = "Not quite, try the next one!"
)

// FirstQuestionLine introduces the opening question of a quiz.
func FirstQuestionLine(q quiz.Question) string {
	return fmt.Sprintf("First question: %s", q.Text)
}

// QuestionLine reads any later question.
func QuestionLine(q quiz.Question) string {
	return q.Text
}

// FeedbackLine returns the line spoken after an answer.
func FeedbackLine(correct bool) string {
	if correct {
		return CorrectLine
	}
	return IncorrectLine
}
