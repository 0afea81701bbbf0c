package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/screens/badges"
	"github.com/abhisek/quizy/internal/screens/chat"
	"github.com/abhisek/quizy/internal/screens/history"
	quizscreen "github.com/abhisek/quizy/internal/screens/quiz"
	"github.com/abhisek/quizy/internal/ui/components"
	"github.com/abhisek/quizy/internal/ui/layout"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	svc           *screens.Services
	menu          components.Menu
	stats         stats
	level         string
	mascotVariant components.MascotVariant
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *screens.Services) *HomeScreen {
	var items []components.MenuItem
	for _, subj := range progression.DefaultSubjects {
		items = append(items, components.MenuItem{
			Label: subj.Icon + " " + strings.ToUpper(subj.Name),
			Action: func() tea.Cmd {
				return router.Push(quizscreen.New(svc, subj))
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "BADGES", Action: func() tea.Cmd {
			return router.Push(badges.New(svc))
		}},
		components.MenuItem{Label: "HISTORY", Action: func() tea.Cmd {
			return router.Push(history.New(svc.Events))
		}},
		components.MenuItem{Label: "ASK QUIZY", Disabled: svc.Chat == nil, Action: func() tea.Cmd {
			return router.Push(chat.New(svc))
		}},
		components.MenuItem{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	h := &HomeScreen{
		svc:  svc,
		menu: components.NewMenu(items),
	}
	h.refresh()
	return h
}

// refresh reloads the level card from the rewards service and picks the
// mascot: alert when offline, celebrating right after a level up.
func (h *HomeScreen) refresh() {
	p := h.svc.Rewards.Current()
	h.stats = stats{
		progress: h.svc.Rewards.LevelProgress(),
		xp:       p.XP,
		streak:   p.Streak,
		accuracy: p.Accuracy(),
		answered: p.TotalQuestions,
		badges:   len(p.UnlockedBadges),
		total:    len(h.svc.Rewards.Badges()),
	}

	level := h.stats.progress.Current.Name
	switch {
	case h.svc.Offline:
		h.mascotVariant = components.MascotAlert
	case h.level != "" && level != h.level:
		h.mascotVariant = components.MascotCelebrating
	default:
		h.mascotVariant = components.MascotIdle
	}
	h.level = level
}

// Resume refreshes the stats when a quiz or another screen returns home.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

// Mascot returns the mascot variant currently shown.
func (h *HomeScreen) Mascot() components.MascotVariant {
	return h.mascotVariant
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 80

	cw := components.ContentWidth(width)
	labels := h.menu.Labels()
	disabled := make(map[int]bool)
	for i, item := range h.menu.Items {
		disabled[i] = item.Disabled
	}

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if h.svc.Offline {
		sections = append(sections, renderOfflineBanner(cw))
	}
	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant, cw))
	}
	sections = append(sections, renderLevelCard(h.stats, cw, compact))
	if compact {
		sections = append(sections, renderArcadeMenuCompact(labels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderArcadeMenu(labels, h.menu.Selected, cw, disabled))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
