package badges

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/artwork"
	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/store"
	"github.com/abhisek/quizy/internal/ui/layout"
	"github.com/abhisek/quizy/internal/ui/theme"
)

type unlocksLoadedMsg struct {
	Records []store.BadgeEventRecord
	Err     error
}

// Status of a badge in the vault.
type Status int

const (
	StatusLocked  Status = iota
	StatusPending        // requirement met, unlocks after the next quiz
	StatusUnlocked
)

// Entry is one row of the vault.
type Entry struct {
	Badge      progression.Badge
	Status     Status
	UnlockedAt time.Time
	Progress   string
}

// BadgesScreen lists every badge in the catalog.
type BadgesScreen struct {
	svc      *screens.Services
	unlocked map[string]time.Time
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*BadgesScreen)(nil)
var _ screen.KeyHintProvider = (*BadgesScreen)(nil)

// New creates a new BadgesScreen.
func New(svc *screens.Services) *BadgesScreen {
	return &BadgesScreen{svc: svc, unlocked: make(map[string]time.Time)}
}

func (s *BadgesScreen) Init() tea.Cmd {
	events := s.svc.Events
	return func() tea.Msg {
		if events == nil {
			return unlocksLoadedMsg{}
		}
		records, err := events.QueryBadgeEvents(context.Background(), store.QueryOpts{})
		return unlocksLoadedMsg{Records: records, Err: err}
	}
}

func (s *BadgesScreen) Title() string {
	return "Badges"
}

func (s *BadgesScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}}
	if s.svc.Artwork != nil && s.svc.Artwork.Enabled() {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Make artwork"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *BadgesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case unlocksLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		// Oldest first so the earliest unlock time wins.
		for i := len(msg.Records) - 1; i >= 0; i-- {
			rec := msg.Records[i]
			if _, ok := s.unlocked[rec.BadgeID]; !ok {
				s.unlocked[rec.BadgeID] = rec.Timestamp
			}
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.svc.Rewards.Badges())-1 {
				s.selected++
			}
		case "enter":
			entries := s.Entries()
			if s.svc.Artwork != nil && s.svc.Artwork.Enabled() && s.selected < len(entries) && entries[s.selected].Status == StatusUnlocked {
				s.svc.Artwork.Request(context.Background(), entries[s.selected].Badge)
			}
		}
	}
	return s, nil
}

// Entries combines the catalog with the learner's progress.
func (s *BadgesScreen) Entries() []Entry {
	p := s.svc.Rewards.Current()
	catalog := s.svc.Rewards.Badges()
	entries := make([]Entry, 0, len(catalog))
	for _, b := range catalog {
		e := Entry{Badge: b, Progress: requirementProgress(b, p)}
		switch {
		case p.HasBadge(b.ID):
			e.Status = StatusUnlocked
			e.UnlockedAt = s.unlocked[b.ID]
		case b.Satisfied(p):
			e.Status = StatusPending
		}
		entries = append(entries, e)
	}
	return entries
}

func requirementProgress(b progression.Badge, p progression.UserProgress) string {
	switch b.Kind {
	case progression.BadgeStreak:
		return fmt.Sprintf("%d/%d streak", min(p.Streak, b.MinRequirement), b.MinRequirement)
	case progression.BadgeXP:
		return fmt.Sprintf("%d/%d XP", min(p.XP, b.MinRequirement), b.MinRequirement)
	}
	return ""
}

func (s *BadgesScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading badges...")
	}

	entries := s.Entries()
	unlocked := 0
	for _, e := range entries {
		if e.Status == StatusUnlocked {
			unlocked++
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\n%d of %d badges unlocked\n", unlocked, len(entries))))
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for i, e := range entries {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}

		var icon, detail string
		var style lipgloss.Style
		switch e.Status {
		case StatusUnlocked:
			icon = "🏅"
			detail = "unlocked"
			if !e.UnlockedAt.IsZero() {
				detail = "unlocked " + e.UnlockedAt.Format("Jan 02, 2006")
			}
			style = lipgloss.NewStyle().Foreground(theme.ArcadeYellow)
		case StatusPending:
			icon = "✨"
			detail = "unlocks after your next quiz"
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		default:
			icon = "🔒"
			detail = e.Progress
			style = theme.Locked
		}
		if i == s.selected {
			style = style.Bold(true)
		}

		line := fmt.Sprintf("%s%s %-16s %-30s %s", prefix, icon, e.Badge.Name, e.Badge.Description, detail)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if e.Status == StatusUnlocked && s.svc.Artwork != nil {
			if art := artworkNote(s.svc.Artwork.Result(e.Badge.ID)); art != "" {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("     "+art)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func artworkNote(r artwork.Result) string {
	switch r.Status {
	case artwork.StatusPending:
		return "painting artwork..."
	case artwork.StatusReady:
		if r.Image != nil {
			return r.Image.Path
		}
	case artwork.StatusFailed:
		return artwork.FailureMessage
	}
	return ""
}
