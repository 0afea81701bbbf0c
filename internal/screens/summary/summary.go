package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/rewards"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/screens/reward"
	"github.com/abhisek/quizy/internal/ui/components"
	"github.com/abhisek/quizy/internal/ui/layout"
	"github.com/abhisek/quizy/internal/ui/theme"
)

// Result is everything the summary shows about a finished quiz.
type Result struct {
	Subject      progression.Subject
	Quiz         progression.QuizResult
	Outcome      progression.Outcome
	PersistError error
}

// SummaryScreen displays the quiz summary.
type SummaryScreen struct {
	svc    *screens.Services
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscapeHandler = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(svc *screens.Services, r Result) *SummaryScreen {
	return &SummaryScreen{svc: svc, result: r}
}

func (s *SummaryScreen) Init() tea.Cmd {
	s.svc.Say(s.spokenLine())
	if b := s.result.Outcome.Unlocked; b != nil && s.svc.Artwork != nil && s.svc.Artwork.Enabled() {
		// Generation outlives this screen; the reward screen polls for it.
		s.svc.Artwork.Request(context.Background(), *b)
	}
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) HandlesEscape() bool { return true }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.result.Outcome.Unlocked != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "See your badge"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "space":
			if b := s.result.Outcome.Unlocked; b != nil {
				return s, router.Replace(reward.New(s.svc, *b))
			}
			return s, router.Home()
		case "esc":
			return s, router.Home()
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	cw := components.ContentWidth(width)

	var b strings.Builder

	b.WriteString(components.Centered("Quiz complete!", width,
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)))
	b.WriteString("\n\n")

	b.WriteString(components.Centered(
		fmt.Sprintf("%s %s   Score: %d/%d", r.Subject.Icon, r.Subject.Name, r.Quiz.Score, r.Quiz.Questions),
		width, lipgloss.NewStyle().Foreground(theme.Text)))
	b.WriteString("\n\n")

	xp := fmt.Sprintf("+%d XP", r.Quiz.XPGained)
	if r.Quiz.BonusApplied() {
		xp += fmt.Sprintf("   (%.1f× streak bonus!)", r.Quiz.Multiplier)
	}
	b.WriteString(components.Centered(xp, width,
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)))
	b.WriteString("\n")

	streak := fmt.Sprintf("🔥 Streak: %d", r.Quiz.NewStreak)
	if r.Quiz.NewStreak == 0 {
		streak += "   (finish on a correct answer to keep it going)"
	}
	b.WriteString(components.Centered(streak, width,
		lipgloss.NewStyle().Foreground(theme.Accent)))
	b.WriteString("\n\n")

	if r.Outcome.LeveledUp {
		banner := fmt.Sprintf("LEVEL UP!  %s → %s", r.Outcome.PreviousLevel.Label(), r.Outcome.Level.Label())
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.ArcadeCard(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(banner), cw)))
		b.WriteString("\n\n")
	} else {
		b.WriteString(components.Centered("Level: "+r.Outcome.Level.Label(), width,
			lipgloss.NewStyle().Foreground(theme.Secondary)))
		b.WriteString("\n\n")
	}

	if badge := r.Outcome.Unlocked; badge != nil {
		b.WriteString(components.Centered("🏅 New badge: "+badge.Name, width,
			lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)))
		b.WriteString("\n\n")
	}

	if r.PersistError != nil {
		msg := "Your progress couldn't be saved. It will be kept until you quit."
		if !errors.Is(r.PersistError, rewards.ErrPersistence) {
			msg = "Something went wrong saving your progress."
		}
		b.WriteString(components.Centered("⚠ "+msg, width, theme.Notice))
		b.WriteString("\n")
	}

	return b.String()
}

// spokenLine is narrated when the summary opens.
func (s *SummaryScreen) spokenLine() string {
	r := s.result
	line := fmt.Sprintf("You scored %d out of %d and earned %d XP.", r.Quiz.Score, r.Quiz.Questions, r.Quiz.XPGained)
	if r.Outcome.LeveledUp {
		line += fmt.Sprintf(" Level up! You are now %s.", r.Outcome.Level.Name)
	}
	return line
}
