package welcome

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/screens/screenstest"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newWelcome(t *testing.T, p progression.UserProgress) (*WelcomeScreen, *int) {
	t.Helper()
	svc, _ := screenstest.Services(p)
	built := 0
	w := New(svc, func() screen.Screen {
		built++
		return &stubScreen{}
	})
	return w, &built
}

func advance(w *WelcomeScreen, frames int) tea.Cmd {
	var cmd tea.Cmd
	for range frames {
		_, cmd = w.Update(frameMsg{})
	}
	return cmd
}

func returningPlayer() progression.UserProgress {
	p := progression.NewUserProgress()
	p.XP = 140
	p.Streak = 3
	p.CorrectAnswers = 14
	p.TotalQuestions = 20
	return p
}

func TestFirstRunGreeting(t *testing.T) {
	w, _ := newWelcome(t, progression.NewUserProgress())

	g := w.Greeting()
	assert.False(t, g.Returning)
	assert.Equal(t, "First time here? Welcome!", g.Headline)
	assert.NotContains(t, g.Lines[0], "XP to")
}

func TestReturningPlayerGreeting(t *testing.T) {
	w, _ := newWelcome(t, returningPlayer())

	g := w.Greeting()
	require.True(t, g.Returning)
	assert.Equal(t, "Welcome back!", g.Headline)
	require.Len(t, g.Lines, 3)
	assert.Contains(t, g.Lines[0], "Learner")
	assert.Contains(t, g.Lines[0], "140 XP")
	assert.Contains(t, g.Lines[0], "🔥 3")
	assert.Contains(t, g.Lines[1], "160 XP to")
	assert.Contains(t, g.Lines[1], "Skilled")
	assert.Equal(t, "7 more in a row for Streak Master", g.Lines[2])
}

func TestGreetingAfterWrongAnswersOnly(t *testing.T) {
	p := progression.NewUserProgress()
	p.TotalQuestions = 5

	g := NewGreeting(p, progression.LevelProgress(progression.DefaultLevels, 0), progression.DefaultBadges)
	assert.True(t, g.Returning)
	assert.Contains(t, g.Lines[0], "🔥 0")
}

func TestGreetingAtTopLevelWithAllBadges(t *testing.T) {
	p := progression.NewUserProgress()
	p.XP = 1200
	p.Streak = 12
	p.TotalQuestions = 130
	p.UnlockedBadges = []string{"streak-master", "knowledge-king"}

	g := NewGreeting(p, progression.LevelProgress(progression.DefaultLevels, p.XP), progression.DefaultBadges)
	require.Len(t, g.Lines, 2)
	assert.Contains(t, g.Lines[0], "1,200 XP")
	assert.Equal(t, "You've reached the top level.", g.Lines[1])
}

func TestCardRevealedAfterAnimation(t *testing.T) {
	w, _ := newWelcome(t, returningPlayer())

	view := w.View(80, 40)
	assert.NotContains(t, view, "Welcome back!")
	assert.NotContains(t, view, "press any key")

	advance(w, bannerFrame)
	assert.NotContains(t, w.View(80, 40), "Welcome back!")

	cmd := advance(w, cardFrame-bannerFrame)
	assert.Nil(t, cmd, "animation stops once the card is shown")
	view = w.View(80, 40)
	assert.Contains(t, view, "Welcome back!")
	assert.Contains(t, view, "140 XP")
	assert.Contains(t, view, "press any key")
}

func TestFirstRunCardRendered(t *testing.T) {
	w, _ := newWelcome(t, progression.NewUserProgress())
	advance(w, cardFrame)

	view := w.View(80, 40)
	assert.Contains(t, view, "First time here?")
	assert.NotContains(t, view, "Welcome back!")
}

func TestKeyReplacesWithNextScreen(t *testing.T) {
	w, built := newWelcome(t, returningPlayer())

	_, cmd := w.Update(screenstest.Key("enter"))
	msg, ok := screenstest.Run(cmd).(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &stubScreen{}, msg.Screen)

	_, cmd = w.Update(screenstest.Key("x"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, *built)
}

func TestNoTransitionWithoutKey(t *testing.T) {
	w, built := newWelcome(t, progression.NewUserProgress())
	advance(w, cardFrame*3)
	assert.Zero(t, *built)
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newWelcome(t, progression.NewUserProgress())
	assert.Empty(t, w.Title())
}

func TestBannerFallsBackOnNarrowTerminals(t *testing.T) {
	assert.Contains(t, RenderBanner(30), "Q U I Z Y")
	assert.NotContains(t, RenderBanner(80), "Q U I Z Y")
	assert.Contains(t, RenderBanner(80), "██████╗")
}
