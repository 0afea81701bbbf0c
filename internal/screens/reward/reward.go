package reward

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/artwork"
	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/ui/components"
	"github.com/abhisek/quizy/internal/ui/layout"
	"github.com/abhisek/quizy/internal/ui/theme"
)

// frameMsg advances the mascot dance and polls the artwork status.
type frameMsg struct{}

const frameInterval = 400 * time.Millisecond

// RewardScreen celebrates a newly unlocked badge.
type RewardScreen struct {
	svc     *screens.Services
	badge   progression.Badge
	frame   int
	art     artwork.Result
	spinner spinner.Model
	button  components.Button
}

var _ screen.Screen = (*RewardScreen)(nil)
var _ screen.KeyHintProvider = (*RewardScreen)(nil)
var _ screen.EscapeHandler = (*RewardScreen)(nil)

// New creates the reward screen for badge.
func New(svc *screens.Services, badge progression.Badge) *RewardScreen {
	return &RewardScreen{
		svc:   svc,
		badge: badge,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
		button: components.NewButton("Awesome!", true, router.Home),
	}
}

func (s *RewardScreen) Init() tea.Cmd {
	s.svc.Say(fmt.Sprintf("Badge unlocked: %s!", s.badge.Name))
	if s.svc.Artwork != nil {
		if s.svc.Artwork.Enabled() {
			s.svc.Artwork.Request(context.Background(), s.badge)
		}
		s.art = s.svc.Artwork.Result(s.badge.ID)
	}
	return tea.Batch(nextFrame(), s.spinner.Tick)
}

func (s *RewardScreen) Title() string {
	return "Badge Unlocked"
}

func (s *RewardScreen) HandlesEscape() bool { return true }

func (s *RewardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Awesome!"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *RewardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		s.frame++
		if s.svc.Artwork != nil {
			s.art = s.svc.Artwork.Result(s.badge.ID)
		}
		return s, nextFrame()

	case spinner.TickMsg:
		if s.art.Status != artwork.StatusPending {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			return s, router.Home()
		}
		var cmd tea.Cmd
		s.button, cmd = s.button.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *RewardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(components.Centered("🏅 Badge Unlocked! 🏅", width,
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.RenderDancingMascot(s.frame)))
	b.WriteString("\n\n")

	card := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(s.badge.Name) + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.badge.Description)
	if art := s.artworkLine(); art != "" {
		card += "\n\n" + art
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ArcadeCard(card, cw)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.button.View()))
	return b.String()
}

func (s *RewardScreen) artworkLine() string {
	switch s.art.Status {
	case artwork.StatusPending:
		return s.spinner.View() + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Painting your badge...")
	case artwork.StatusReady:
		if s.art.Image != nil && s.art.Image.Path != "" {
			return lipgloss.NewStyle().Foreground(theme.Secondary).Render("🖼  " + s.art.Image.Path)
		}
	case artwork.StatusFailed:
		return theme.Notice.Render(artwork.FailureMessage)
	}
	return ""
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}
