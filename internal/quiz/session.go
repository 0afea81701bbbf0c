package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizy/internal/progression"
)

var (
	// ErrLoadFailure means the question source produced no usable quiz.
	ErrLoadFailure = errors.New("no questions available")

	// ErrInvalidTransition is returned when an event is not allowed in the
	// current state. The session is left unchanged.
	ErrInvalidTransition = errors.New("invalid quiz transition")
)

// State is the lifecycle state of a quiz session.
type State int

const (
	StateLoading        State = iota // Waiting for questions
	StateAnswerPending               // Current question shown, no answer yet
	StateAnswerRevealed              // Answer recorded, feedback shown
	StateCompleted                   // All questions answered
	StateLoadFailed                  // Question source failed
	StateAbandoned                   // User left before finishing
)

// StateReady is the state a freshly loaded session is in.
const StateReady = StateAnswerPending

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnswerPending:
		return "answer-pending"
	case StateAnswerRevealed:
		return "answer-revealed"
	case StateCompleted:
		return "completed"
	case StateLoadFailed:
		return "load-failed"
	case StateAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further events are accepted.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateLoadFailed || s == StateAbandoned
}

// AnswerOutcome is what the UI shows after an answer is recorded.
type AnswerOutcome struct {
	Selected     int
	Correct      bool
	CorrectIndex int
	Explanation  string
}

// Session is one five-question quiz. It is not safe for concurrent use; the
// caller feeds it one event at a time.
type Session struct {
	ID            string
	Subject       string
	CarriedStreak int
	StartedAt     time.Time

	Questions   []Question
	Index       int
	Selected    []int
	Score       int
	LastCorrect bool
	State       State
	Err         error

	result *progression.QuizResult
}

// New starts a session in the Loading state.
func New(subject string, carriedStreak int) *Session {
	return &Session{
		ID:            uuid.New().String(),
		Subject:       subject,
		CarriedStreak: carriedStreak,
		StartedAt:     time.Now(),
		State:         StateLoading,
	}
}

func (s *Session) refuse(op string) error {
	return fmt.Errorf("%s in state %s: %w", op, s.State, ErrInvalidTransition)
}

// Load delivers the question source's response. Any error, an empty list, a
// count other than QuestionsPerQuiz, or an invalid question fails the load.
func (s *Session) Load(questions []Question, err error) error {
	if s.State != StateLoading {
		return s.refuse("load")
	}

	if loadErr := checkQuestions(questions, err); loadErr != nil {
		s.State = StateLoadFailed
		s.Err = loadErr
		return loadErr
	}

	s.Questions = questions
	s.Selected = make([]int, len(questions))
	for i := range s.Selected {
		s.Selected[i] = -1
	}
	s.Index = 0
	s.State = StateReady
	return nil
}

func checkQuestions(questions []Question, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	if len(questions) == 0 {
		return ErrLoadFailure
	}
	if len(questions) != QuestionsPerQuiz {
		return fmt.Errorf("%w: got %d questions, want %d", ErrLoadFailure, len(questions), QuestionsPerQuiz)
	}
	for i, q := range questions {
		if vErr := q.Validate(); vErr != nil {
			return fmt.Errorf("%w: question %d: %w", ErrLoadFailure, i+1, vErr)
		}
	}
	return nil
}

// Answer records the selected option for the current question. Only the
// first answer per question counts.
func (s *Session) Answer(option int) (AnswerOutcome, error) {
	if s.State != StateAnswerPending {
		return AnswerOutcome{}, s.refuse("answer")
	}
	if s.Selected[s.Index] >= 0 {
		return AnswerOutcome{}, s.refuse("answer")
	}
	q := s.Questions[s.Index]
	if option < 0 || option >= len(q.Options) {
		return AnswerOutcome{}, fmt.Errorf("answer option %d out of range: %w", option, ErrInvalidTransition)
	}

	correct := option == q.CorrectIndex
	s.Selected[s.Index] = option
	if correct {
		s.Score++
	}
	s.LastCorrect = correct
	s.State = StateAnswerRevealed

	return AnswerOutcome{
		Selected:     option,
		Correct:      correct,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
	}, nil
}

// Advance moves past a revealed answer. On the last question the session
// completes and the result is returned; otherwise the result is nil.
func (s *Session) Advance() (*progression.QuizResult, error) {
	if s.State != StateAnswerRevealed {
		return nil, s.refuse("advance")
	}

	if s.Index+1 < len(s.Questions) {
		s.Index++
		s.State = StateAnswerPending
		return nil, nil
	}

	r := progression.ComputeResult(s.CarriedStreak, s.Score, len(s.Questions), s.LastCorrect)
	s.result = &r
	s.State = StateCompleted
	return s.result, nil
}

// Abandon discards the session. Allowed in any non-terminal state.
func (s *Session) Abandon() error {
	if s.State.Terminal() {
		return s.refuse("abandon")
	}
	s.State = StateAbandoned
	return nil
}

// Result returns the final result once completed.
func (s *Session) Result() (progression.QuizResult, bool) {
	if s.result == nil {
		return progression.QuizResult{}, false
	}
	return *s.result, true
}

// Current returns the question being shown, or nil outside of play.
func (s *Session) Current() *Question {
	if s.State != StateAnswerPending && s.State != StateAnswerRevealed {
		return nil
	}
	return &s.Questions[s.Index]
}

// Revealed reports whether the current question's answer is shown.
func (s *Session) Revealed() bool {
	return s.State == StateAnswerRevealed
}

// SelectedOption returns the recorded answer for the current question, or -1.
func (s *Session) SelectedOption() int {
	if s.Current() == nil {
		return -1
	}
	return s.Selected[s.Index]
}

// Answered returns how many questions have a recorded answer.
func (s *Session) Answered() int {
	n := 0
	for _, sel := range s.Selected {
		if sel >= 0 {
			n++
		}
	}
	return n
}

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool {
	return len(s.Questions) > 0 && s.Index == len(s.Questions)-1
}

// LiveStreak estimates the streak for the in-quiz header: the carried streak
// plus one while a correct answer for the current question is on screen.
func (s *Session) LiveStreak() int {
	if s.State == StateAnswerRevealed && s.LastCorrect && s.Score > s.Index {
		return s.CarriedStreak + 1
	}
	return s.CarriedStreak
}

// Remaining returns how many questions are still unanswered.
func (s *Session) Remaining() int {
	return len(s.Questions) - s.Answered()
}
