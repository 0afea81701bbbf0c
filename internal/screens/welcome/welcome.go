// Package welcome is the splash screen shown on launch. It greets the
// learner with their level, XP and streak before handing off to home.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/ui/components"
	"github.com/abhisek/quizy/internal/ui/theme"
)

const frameInterval = 120 * time.Millisecond

// Reveal order, in frames: mascot, then banner, then the greeting card.
const (
	bannerFrame = 4
	cardFrame   = 10
)

type frameMsg struct{}

// Greeting is the text of the welcome card.
type Greeting struct {
	Returning bool
	Headline  string
	Lines     []string
}

// NewGreeting builds the card for p. A learner who has never answered a
// question gets the first-run card.
func NewGreeting(p progression.UserProgress, lp progression.Progress, badges []progression.Badge) Greeting {
	if p.TotalQuestions == 0 && p.XP == 0 {
		return Greeting{
			Headline: "First time here? Welcome!",
			Lines: []string{
				"Pick a subject and answer 5 questions.",
				"Every correct answer earns XP and grows your streak.",
			},
		}
	}

	g := Greeting{
		Returning: true,
		Headline:  "Welcome back!",
		Lines: []string{
			fmt.Sprintf("%s  ·  %s XP  ·  🔥 %d", lp.Current.Label(), humanize.Comma(int64(p.XP)), p.Streak),
		},
	}
	if lp.AtMax {
		g.Lines = append(g.Lines, "You've reached the top level.")
	} else {
		g.Lines = append(g.Lines, fmt.Sprintf("%d XP to %s", lp.Remaining(), lp.Next.Label()))
	}
	if goal, ok := nextBadgeGoal(p, badges); ok {
		g.Lines = append(g.Lines, goal)
	}
	return g
}

// nextBadgeGoal describes the first locked badge that is not yet satisfied.
func nextBadgeGoal(p progression.UserProgress, badges []progression.Badge) (string, bool) {
	for _, b := range badges {
		if p.HasBadge(b.ID) || b.Satisfied(p) {
			continue
		}
		switch b.Kind {
		case progression.BadgeStreak:
			return fmt.Sprintf("%d more in a row for %s", b.MinRequirement-p.Streak, b.Name), true
		case progression.BadgeXP:
			return fmt.Sprintf("%d XP more for %s", b.MinRequirement-p.XP, b.Name), true
		}
	}
	return "", false
}

// WelcomeScreen reveals the mascot, banner and greeting, then waits for a
// key before replacing itself with the next screen.
type WelcomeScreen struct {
	next     func() screen.Screen
	greeting Greeting
	frame    int
	done     bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates the welcome screen for the learner tracked by svc.Rewards.
// next builds the screen shown after a key press.
func New(svc *screens.Services, next func() screen.Screen) *WelcomeScreen {
	rs := svc.Rewards
	return &WelcomeScreen{
		next:     next,
		greeting: NewGreeting(rs.Current(), rs.LevelProgress(), rs.Badges()),
	}
}

// Greeting returns the card the screen shows.
func (w *WelcomeScreen) Greeting() Greeting {
	return w.greeting
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return nextFrame()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		w.frame++
		if w.frame >= cardFrame {
			return w, nil
		}
		return w, nextFrame()

	case tea.KeyPressMsg:
		if w.done {
			return w, nil
		}
		w.done = true
		return w, router.Replace(w.next())
	}
	return w, nil
}

func (w *WelcomeScreen) View(width, height int) string {
	variant := components.MascotIdle
	if w.greeting.Returning {
		variant = components.MascotCelebrating
	}
	parts := []string{components.RenderMascot(variant)}

	if w.frame >= bannerFrame {
		parts = append(parts, "", RenderBanner(width))
	}
	if w.frame >= cardFrame {
		parts = append(parts, "", w.renderCard(width),
			"", theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (w *WelcomeScreen) renderCard(width int) string {
	headline := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	if !w.greeting.Returning {
		headline = headline.Foreground(theme.Secondary)
	}

	rows := []string{headline.Render(w.greeting.Headline)}
	for _, l := range w.greeting.Lines {
		rows = append(rows, theme.Body.Render(l))
	}
	return components.ArcadeCard(strings.Join(rows, "\n"), components.ContentWidth(width))
}
