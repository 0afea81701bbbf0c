package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/screens/home"
	quizscreen "github.com/abhisek/quizy/internal/screens/quiz"
	"github.com/abhisek/quizy/internal/screens/welcome"
	"github.com/abhisek/quizy/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Services *screens.Services

	// Subject, when set, starts a quiz immediately on top of home.
	Subject *progression.Subject

	// SkipWelcome opens the home screen without the splash animation.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	svc    *screens.Services
	start  tea.Cmd
	width  int
	height int
}

// newAppModel creates a new AppModel rooted at the home screen.
func newAppModel(opts Options) AppModel {
	svc := opts.Services
	m := AppModel{svc: svc}

	switch {
	case opts.Subject != nil:
		m.router = router.New(home.New(svc))
		m.start = router.Push(quizscreen.New(svc, *opts.Subject))
	case opts.SkipWelcome:
		m.router = router.New(home.New(svc))
	default:
		m.router = router.New(welcome.New(svc, func() screen.Screen {
			return home.New(svc)
		}))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.start)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) headerStats() layout.HeaderStats {
	if m.svc == nil || m.svc.Rewards == nil {
		return layout.HeaderStats{}
	}
	p := m.svc.Rewards.Current()
	level := m.svc.Rewards.Level()
	return layout.HeaderStats{
		LevelIcon: level.Icon,
		LevelName: level.Name,
		XP:        p.XP,
		Streak:    p.Streak,
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerStats(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
