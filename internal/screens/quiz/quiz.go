package quiz

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/progression"
	qz "github.com/abhisek/quizy/internal/quiz"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/screens/summary"
	"github.com/abhisek/quizy/internal/speech"
	"github.com/abhisek/quizy/internal/ui/components"
	"github.com/abhisek/quizy/internal/ui/layout"
	"github.com/abhisek/quizy/internal/ui/theme"
)

var loadingLines = []string{
	"Generating your quiz...",
	"Quizy is thinking hard!",
}

// QuizScreen runs one quiz session for a subject.
type QuizScreen struct {
	svc     *screens.Services
	subject progression.Subject

	session     *qz.Session
	choices     components.MultiChoice
	outcome     *qz.AnswerOutcome
	spinner     spinner.Model
	loadingLine int
	confirmQuit bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New creates a quiz screen for subject.
func New(svc *screens.Services, subject progression.Subject) *QuizScreen {
	return &QuizScreen{
		svc:     svc,
		subject: subject,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	s.start()
	return tea.Batch(s.fetch(), s.spinner.Tick, rotateLoadingLine())
}

func (s *QuizScreen) Title() string {
	return s.subject.Name + " Quiz"
}

func (s *QuizScreen) HandlesEscape() bool { return true }

// Session exposes the running session.
func (s *QuizScreen) Session() *qz.Session {
	return s.session
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.session.State {
	case qz.StateLoading:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	case qz.StateLoadFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case qz.StateAnswerRevealed:
		label := "Next Question"
		if s.session.IsLast() {
			label = "Finish Quiz"
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: label},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		return s.handleLoaded(msg)

	case spinner.TickMsg:
		if s.session.State != qz.StateLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case loadingLineMsg:
		if s.session.State != qz.StateLoading {
			return s, nil
		}
		s.loadingLine = (s.loadingLine + 1) % len(loadingLines)
		return s, rotateLoadingLine()

	case components.ChoiceMadeMsg:
		return s.handleChoice(msg.Index)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// start begins a fresh session carrying the learner's current streak.
func (s *QuizScreen) start() {
	s.session = qz.New(s.subject.Name, s.svc.Rewards.Current().Streak)
	s.outcome = nil
	s.confirmQuit = false
	s.loadingLine = 0
}

// fetch asks the question source for the quiz.
func (s *QuizScreen) fetch() tea.Cmd {
	sess := s.session
	source := s.svc.Questions
	svc := s.svc
	subject := s.subject.Name
	return func() tea.Msg {
		if source == nil {
			return questionsLoadedMsg{session: sess, err: errors.New("no question source configured")}
		}
		ctx, cancel := svc.FetchContext()
		defer cancel()
		questions, err := source.FetchQuestions(ctx, subject)
		return questionsLoadedMsg{session: sess, questions: questions, err: err}
	}
}

func (s *QuizScreen) handleLoaded(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.session != s.session {
		return s, nil
	}
	if err := s.session.Load(msg.questions, msg.err); err != nil {
		return s, nil
	}

	s.svc.Rewards.RecordStart(context.Background(), s.session)
	q := s.session.Current()
	s.choices = components.NewMultiChoice(q.Options)
	s.svc.Say(speech.FirstQuestionLine(*q))
	return s, s.prefetchSpeech()
}

// prefetchSpeech warms the narration cache for the rest of the quiz.
func (s *QuizScreen) prefetchSpeech() tea.Cmd {
	if s.svc.Narrator == nil {
		return nil
	}
	lines := []string{speech.CorrectLine, speech.IncorrectLine}
	for _, q := range s.session.Questions[1:] {
		lines = append(lines, speech.QuestionLine(q))
	}
	narrator := s.svc.Narrator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		_ = narrator.Prefetch(ctx, lines)
		return nil
	}
}

func (s *QuizScreen) handleChoice(idx int) (screen.Screen, tea.Cmd) {
	if s.confirmQuit {
		return s, nil
	}
	out, err := s.session.Answer(idx)
	if err != nil {
		// Refused transitions are no-ops.
		return s, nil
	}
	s.outcome = &out
	s.svc.Rewards.RecordAnswer(context.Background(), s.session, out)
	s.choices.Reveal(out.Selected, out.CorrectIndex)
	s.svc.Say(speech.FeedbackLine(out.Correct))
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, s.abandon()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.session.State {
	case qz.StateLoading:
		if key == "esc" {
			return s, s.abandon()
		}

	case qz.StateLoadFailed:
		switch key {
		case "r", "R":
			s.start()
			return s, tea.Batch(s.fetch(), s.spinner.Tick, rotateLoadingLine())
		case "esc":
			return s, router.Pop()
		}

	case qz.StateAnswerPending:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		var cmd tea.Cmd
		s.choices, cmd = s.choices.Update(msg)
		return s, cmd

	case qz.StateAnswerRevealed:
		switch key {
		case "enter", "space", "n":
			return s.advance()
		case "esc":
			s.confirmQuit = true
		}
	}
	return s, nil
}

func (s *QuizScreen) advance() (screen.Screen, tea.Cmd) {
	result, err := s.session.Advance()
	if err != nil {
		return s, nil
	}
	if result == nil {
		q := s.session.Current()
		s.outcome = nil
		s.choices = components.NewMultiChoice(q.Options)
		s.svc.Say(speech.QuestionLine(*q))
		return s, nil
	}

	outcome, saveErr := s.svc.Rewards.Complete(context.Background(), s.session.ID, s.session.Subject, *result)
	sum := summary.Result{
		Subject:      s.subject,
		Quiz:         *result,
		Outcome:      outcome,
		PersistError: saveErr,
	}
	return s, router.Replace(summary.New(s.svc, sum))
}

// abandon discards the session without touching progress.
func (s *QuizScreen) abandon() tea.Cmd {
	loaded := s.session.State != qz.StateLoading
	if err := s.session.Abandon(); err == nil && loaded {
		s.svc.Rewards.RecordAbandon(context.Background(), s.session)
	}
	return router.Pop()
}

func rotateLoadingLine() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return loadingLineMsg{}
	})
}
