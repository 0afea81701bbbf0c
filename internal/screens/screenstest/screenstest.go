// Package screenstest provides fakes shared by the screen tests.
package screenstest

import (
	"context"
	"fmt"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/quiz"
	"github.com/abhisek/quizy/internal/rewards"
	"github.com/abhisek/quizy/internal/screens"
)

// Source is a quiz.QuestionSource that returns fixed questions.
type Source struct {
	Questions []quiz.Question
	Err       error

	mu    sync.Mutex
	calls int
}

func (s *Source) FetchQuestions(ctx context.Context, subject string) ([]quiz.Question, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Questions, nil
}

// Calls returns how many times FetchQuestions ran.
func (s *Source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Questions returns a valid quiz whose correct option for question i is
// i % 4.
func Questions() []quiz.Question {
	qs := make([]quiz.Question, quiz.QuestionsPerQuiz)
	for i := range qs {
		qs[i] = quiz.Question{
			Text:         fmt.Sprintf("Question %d?", i+1),
			Options:      []string{"Alpha", "Bravo", "Charlie", "Delta"},
			CorrectIndex: i % quiz.OptionsPerQuestion,
			Explanation:  fmt.Sprintf("Because of reason %d.", i+1),
		}
	}
	return qs
}

// ProgressStore keeps progress in memory.
type ProgressStore struct {
	Saved   *progression.UserProgress
	SaveErr error
}

func (m *ProgressStore) Load(context.Context) (*progression.UserProgress, error) {
	return m.Saved, nil
}

func (m *ProgressStore) Save(_ context.Context, p progression.UserProgress) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	c := p.Clone()
	m.Saved = &c
	return nil
}

// Narrator records spoken lines.
type Narrator struct {
	mu    sync.Mutex
	lines []string
}

func (n *Narrator) Say(text string) {
	n.mu.Lock()
	n.lines = append(n.lines, text)
	n.mu.Unlock()
}

func (n *Narrator) Prefetch(context.Context, []string) error { return nil }

// Lines returns everything said so far.
func (n *Narrator) Lines() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.lines...)
}

// Services returns services seeded with p, a fixed question source and a
// recording narrator.
func Services(p progression.UserProgress) (*screens.Services, *ProgressStore) {
	ps := &ProgressStore{Saved: &p}
	rs := rewards.NewService(ps, nil)
	if err := rs.Load(context.Background()); err != nil {
		panic(err)
	}
	return &screens.Services{
		Rewards:   rs,
		Questions: &Source{Questions: Questions()},
		Narrator:  &Narrator{},
	}, ps
}

// Key builds a key press for names like "enter", "esc", "space", "up",
// "down", "pgup" or a single printable character.
func Key(name string) tea.KeyPressMsg {
	switch name {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "pgup":
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	}
	r := []rune(name)[0]
	return tea.KeyPressMsg{Code: r, Text: name}
}

// Run executes cmd and returns its message, or nil for a nil command.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
