// Package chat is the "Ask Quizy" screen.
package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qchat "github.com/abhisek/quizy/internal/chat"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screen"
	"github.com/abhisek/quizy/internal/screens"
	"github.com/abhisek/quizy/internal/ui/components"
	"github.com/abhisek/quizy/internal/ui/layout"
	"github.com/abhisek/quizy/internal/ui/theme"
)

// replyTimeout bounds one assistant reply.
const replyTimeout = 60 * time.Second

type replyMsg struct {
	Message qchat.Message
	Err     error
}

// ChatScreen is a conversation with the Quizy assistant.
type ChatScreen struct {
	svc      *screens.Services
	conv     *qchat.Conversation
	input    components.TextInput
	viewport viewport.Model
	spinner  spinner.Model
	thinking bool
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.EscapeHandler = (*ChatScreen)(nil)

// New creates a chat screen. svc.Chat must be set.
func New(svc *screens.Services) *ChatScreen {
	return &ChatScreen{
		svc:      svc,
		conv:     qchat.NewConversation(svc.Chat),
		input:    components.NewTextInput("Ask Quizy anything...", 500),
		viewport: viewport.New(viewport.WithWidth(60), viewport.WithHeight(10)),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "Ask Quizy"
}

func (s *ChatScreen) HandlesEscape() bool {
	return true
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

// Conversation exposes the running conversation.
func (s *ChatScreen) Conversation() *qchat.Conversation {
	return s.conv
}

// Thinking reports whether a reply is in flight.
func (s *ChatScreen) Thinking() bool {
	return s.thinking
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		s.thinking = false
		if msg.Err != nil {
			log.Printf("chat: %v", msg.Err)
		}
		s.input.SetEnabled(true)
		s.viewport.GotoBottom()
		return s, nil

	case spinner.TickMsg:
		if !s.thinking {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop()
		case "enter":
			return s, s.send()
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			s.viewport, cmd = s.viewport.Update(msg)
			return s, cmd
		}
		if s.thinking {
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) send() tea.Cmd {
	text := s.input.Value()
	if text == "" || s.thinking {
		return nil
	}
	s.input.Reset()
	s.input.SetEnabled(false)
	s.thinking = true

	conv := s.conv
	ask := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		m, err := conv.Send(ctx, text)
		return replyMsg{Message: m, Err: err}
	}
	return tea.Batch(ask, s.spinner.Tick)
}

func (s *ChatScreen) View(width, height int) string {
	w := components.ContentWidth(width)
	s.viewport.SetWidth(w)
	s.viewport.SetHeight(max(height-6, 3))
	s.input.SetWidth(w - 4)

	s.viewport.SetContent(s.transcript(w))
	if s.thinking {
		s.viewport.GotoBottom()
	}

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.viewport.View()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(w).Render(s.input.View())))
	return b.String()
}

func (s *ChatScreen) transcript(width int) string {
	bubble := lipgloss.NewStyle().Padding(0, 1).Width(width * 3 / 4)
	quizy := bubble.Foreground(theme.Text).Background(theme.BgCard)
	user := bubble.Foreground(theme.Text).Background(theme.Primary)

	var lines []string
	for _, m := range s.conv.Messages() {
		if m.Role == qchat.RoleUser {
			lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, user.Render(m.Text)))
		} else {
			lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Left, quizy.Render("🤖 "+m.Text)))
		}
	}
	if s.thinking {
		lines = append(lines, theme.Hint.Render(s.spinner.View()+" Quizy is thinking..."))
	}
	return strings.Join(lines, "\n\n")
}
