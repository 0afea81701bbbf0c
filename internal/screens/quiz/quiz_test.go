package quiz

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizy/internal/progression"
	qz "github.com/abhisek/quizy/internal/quiz"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/screens/screenstest"
	"github.com/abhisek/quizy/internal/screens/summary"
	"github.com/abhisek/quizy/internal/speech"
	"github.com/abhisek/quizy/internal/ui/components"
)

var mathSubject, _ = progression.FindSubject("Math")

// newLoadedQuiz starts a quiz and delivers its questions.
func newLoadedQuiz(t *testing.T, p progression.UserProgress) (*QuizScreen, *screens.Services, *screenstest.ProgressStore) {
	t.Helper()
	svc, ps := screenstest.Services(p)
	s := New(svc, mathSubject)
	s.Init()
	require.Equal(t, qz.StateLoading, s.Session().State)

	s.Update(s.fetch()())
	require.Equal(t, qz.StateAnswerPending, s.Session().State)
	return s, svc, ps
}

// answer presses the digit key for option idx and delivers the choice.
func answer(t *testing.T, s *QuizScreen, idx int) {
	t.Helper()
	_, cmd := s.Update(screenstest.Key(strconv.Itoa(idx + 1)))
	msg := screenstest.Run(cmd)
	require.NotNil(t, msg, "digit key should choose an option")
	s.Update(msg)
}

func TestQuizLoadsAndNarratesFirstQuestion(t *testing.T) {
	s, svc, _ := newLoadedQuiz(t, progression.NewUserProgress())

	assert.Equal(t, "Math Quiz", s.Title())
	view := s.View(80, 30)
	assert.Contains(t, view, "Question 1?")
	assert.Contains(t, view, "Alpha")

	lines := svc.Narrator.(*screenstest.Narrator).Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "First question: Question 1?", lines[0])
}

func TestQuizLoadingView(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	s := New(svc, mathSubject)
	s.Init()

	assert.Contains(t, s.View(80, 30), "Generating your quiz...")
	s.Update(loadingLineMsg{})
	assert.Contains(t, s.View(80, 30), "Quizy is thinking hard!")
}

func TestQuizAnswerRevealsFeedback(t *testing.T) {
	s, svc, _ := newLoadedQuiz(t, progression.NewUserProgress())

	// Question 1's correct option is A.
	answer(t, s, 0)
	assert.Equal(t, qz.StateAnswerRevealed, s.Session().State)
	assert.Equal(t, 1, s.Session().Score)

	view := s.View(80, 30)
	assert.Contains(t, view, "Great job!")
	assert.Contains(t, view, "Because of reason 1.")
	assert.Contains(t, view, "Next Question")

	lines := svc.Narrator.(*screenstest.Narrator).Lines()
	assert.Equal(t, speech.CorrectLine, lines[len(lines)-1])

	// Further choices are ignored once revealed.
	_, cmd := s.Update(screenstest.Key("2"))
	assert.Nil(t, cmd)
	s.Update(components.ChoiceMadeMsg{Index: 1})
	assert.Equal(t, 1, s.Session().Score)
	assert.Equal(t, 0, s.Session().SelectedOption())
}

func TestQuizWrongAnswer(t *testing.T) {
	s, svc, _ := newLoadedQuiz(t, progression.NewUserProgress())

	answer(t, s, 3)
	assert.Equal(t, 0, s.Session().Score)
	assert.Contains(t, s.View(80, 30), "Good try!")

	lines := svc.Narrator.(*screenstest.Narrator).Lines()
	assert.Equal(t, speech.IncorrectLine, lines[len(lines)-1])
}

func TestQuizArrowSelection(t *testing.T) {
	s, _, _ := newLoadedQuiz(t, progression.NewUserProgress())

	s.Update(screenstest.Key("down"))
	_, cmd := s.Update(screenstest.Key("enter"))
	s.Update(screenstest.Run(cmd))

	assert.Equal(t, 1, s.Session().SelectedOption())
}

func TestQuizFullRunWithStreakBonus(t *testing.T) {
	p := progression.NewUserProgress()
	p.Streak = 7
	s, svc, ps := newLoadedQuiz(t, p)

	for i := 0; i < qz.QuestionsPerQuiz; i++ {
		answer(t, s, i%qz.OptionsPerQuestion)
		if i < qz.QuestionsPerQuiz-1 {
			assert.Contains(t, s.View(80, 30), "Next Question")
			_, next := s.Update(screenstest.Key("enter"))
			assert.Nil(t, next)
			assert.Equal(t, i+1, s.Session().Index)
		}
	}
	assert.Contains(t, s.View(80, 30), "Finish Quiz")

	_, done := s.Update(screenstest.Key("enter"))
	msg, ok := screenstest.Run(done).(router.ReplaceScreenMsg)
	require.True(t, ok, "finishing should replace the quiz with the summary")
	_, ok = msg.Screen.(*summary.SummaryScreen)
	require.True(t, ok, "expected summary screen, got %T", msg.Screen)

	// 7 carried + 5 correct reaches the bonus threshold: 5 * 10 * 1.5.
	got := svc.Rewards.Current()
	assert.Equal(t, 75, got.XP)
	assert.Equal(t, 12, got.Streak)
	require.NotNil(t, ps.Saved)
	assert.Equal(t, 75, ps.Saved.XP)
	assert.Equal(t, qz.StateCompleted, s.Session().State)
}

func TestQuizQuitConfirm(t *testing.T) {
	p := progression.NewUserProgress()
	p.XP = 120
	p.Streak = 3
	s, svc, _ := newLoadedQuiz(t, p)
	answer(t, s, 0)

	_, cmd := s.Update(screenstest.Key("esc"))
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(80, 30), "Leave this quiz?")

	// "n" keeps playing.
	s.Update(screenstest.Key("n"))
	assert.NotContains(t, s.View(80, 30), "Leave this quiz?")
	assert.Equal(t, qz.StateAnswerRevealed, s.Session().State)

	s.Update(screenstest.Key("esc"))
	_, cmd = s.Update(screenstest.Key("y"))
	_, ok := screenstest.Run(cmd).(router.PopScreenMsg)
	assert.True(t, ok, "leaving should pop the quiz")
	assert.Equal(t, qz.StateAbandoned, s.Session().State)

	// Abandoning never touches progress.
	got := svc.Rewards.Current()
	assert.Equal(t, 120, got.XP)
	assert.Equal(t, 3, got.Streak)
}

func TestQuizChoicesIgnoredWhileConfirming(t *testing.T) {
	s, _, _ := newLoadedQuiz(t, progression.NewUserProgress())

	s.Update(screenstest.Key("esc"))
	_, cmd := s.Update(screenstest.Key("1"))
	assert.Nil(t, cmd)
	assert.Equal(t, qz.StateAnswerPending, s.Session().State)
}

func TestQuizEscWhileLoading(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	s := New(svc, mathSubject)
	s.Init()

	_, cmd := s.Update(screenstest.Key("esc"))
	_, ok := screenstest.Run(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
	assert.Equal(t, qz.StateAbandoned, s.Session().State)
}

func TestQuizLoadFailureAndRetry(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	source := &screenstest.Source{Err: errors.New("service unavailable")}
	svc.Questions = source
	s := New(svc, mathSubject)
	s.Init()

	s.Update(s.fetch()())
	assert.Equal(t, qz.StateLoadFailed, s.Session().State)
	view := s.View(80, 30)
	assert.Contains(t, view, "Couldn't load questions")
	assert.Contains(t, view, "Press R to retry")

	failed := s.Session()
	_, cmd := s.Update(screenstest.Key("r"))
	assert.NotNil(t, cmd)
	assert.NotSame(t, failed, s.Session())
	assert.Equal(t, qz.StateLoading, s.Session().State)

	// A late response for the failed session is ignored.
	s.Update(questionsLoadedMsg{session: failed, questions: screenstest.Questions()})
	assert.Equal(t, qz.StateLoading, s.Session().State)

	source.Err = nil
	source.Questions = screenstest.Questions()
	s.Update(s.fetch()())
	assert.Equal(t, qz.StateAnswerPending, s.Session().State)
	assert.Equal(t, 2, source.Calls())
}

func TestQuizLoadFailureEscGoesBack(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	svc.Questions = &screenstest.Source{Questions: screenstest.Questions()[:3]}
	s := New(svc, mathSubject)
	s.Init()
	s.Update(s.fetch()())
	require.Equal(t, qz.StateLoadFailed, s.Session().State)

	_, cmd := s.Update(screenstest.Key("esc"))
	_, ok := screenstest.Run(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestQuizKeyHints(t *testing.T) {
	s, _, _ := newLoadedQuiz(t, progression.NewUserProgress())

	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	assert.Contains(t, strings.Join(keys, " "), "1-4")

	answer(t, s, 0)
	assert.Equal(t, "Next Question", s.KeyHints()[0].Description)
}
