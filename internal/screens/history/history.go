package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/store"
	"github.com/abhisek/quizy/internal/ui/layout"
	"github.com/abhisek/quizy/internal/ui/theme"
)

// Limit is the number of quizzes listed.
const Limit = 50

type historyLoadedMsg struct {
	Quizzes  []store.QuizSummary
	Badges   map[string][]store.BadgeEventRecord // sessionID → unlocks
	Subjects []store.SubjectStats
	Err      error
}

// HistoryScreen displays past quizzes with their rewards.
type HistoryScreen struct {
	eventRepo store.EventRepo
	quizzes   []store.QuizSummary
	badges    map[string][]store.BadgeEventRecord
	subjects  []store.SubjectStats
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. A nil repo shows an empty history.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		ctx := context.Background()

		quizzes, err := repo.QueryQuizSummaries(ctx, store.QueryOpts{Limit: Limit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		msg := historyLoadedMsg{Quizzes: quizzes, Badges: make(map[string][]store.BadgeEventRecord)}

		// Badge and accuracy lookups are extras; the list still renders without them.
		if unlocks, err := repo.QueryBadgeEvents(ctx, store.QueryOpts{}); err == nil {
			for _, u := range unlocks {
				msg.Badges[u.SessionID] = append(msg.Badges[u.SessionID], u)
			}
		}
		if stats, err := repo.SubjectAccuracy(ctx); err == nil {
			msg.Subjects = stats
		}
		return msg
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.quizzes = msg.Quizzes
			s.badges = msg.Badges
			s.subjects = msg.Subjects
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
			if s.selected < len(s.quizzes)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.quizzes) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Pick a subject and play!")
	}

	var b strings.Builder
	b.WriteString("\n")

	if line := s.accuracyLine(); line != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)))
		b.WriteString("\n\n")
	}

	for i, q := range s.quizzes {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		icon := "📘"
		if subj, ok := progression.FindSubject(q.Subject); ok {
			icon = subj.Icon
		}

		line := fmt.Sprintf("%s%s  %s %-10s %d/%d  +%d XP  🔥 %d",
			prefix, q.Timestamp.Format("Jan 02, 2006"), icon, q.Subject,
			q.Score, q.Questions, q.XPGained, q.NewStreak)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range s.details(q) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("    "+d)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func (s *HistoryScreen) details(q store.QuizSummary) []string {
	lines := []string{fmt.Sprintf("Level after quiz: %s", q.Level)}
	if q.Multiplier > 1 {
		lines = append(lines, fmt.Sprintf("Streak bonus %.1f×", q.Multiplier))
	}
	for _, u := range s.badges[q.SessionID] {
		lines = append(lines, fmt.Sprintf("🏅 Unlocked %s", u.BadgeName))
	}
	return lines
}

func (s *HistoryScreen) accuracyLine() string {
	parts := make([]string, 0, len(s.subjects))
	for _, st := range s.subjects {
		if st.Answered == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.0f%%", st.Subject, st.Accuracy()*100))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Accuracy: " + strings.Join(parts, " · ")
}
