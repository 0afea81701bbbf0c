package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/quiz"
	"github.com/abhisek/quizy/internal/ui/theme"
)

// ChoiceMadeMsg is emitted when the learner picks an option.
type ChoiceMadeMsg struct {
	Index int
}

// MultiChoice is a lettered option list. Before reveal the cursor moves
// with arrows and a choice is made with Enter or 1–4; after reveal the
// correct and chosen options are highlighted.
type MultiChoice struct {
	Options      []string
	Cursor       int
	Revealed     bool
	ChosenIndex  int
	CorrectIndex int
}

// NewMultiChoice creates a selector for options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:      options,
		ChosenIndex:  -1,
		CorrectIndex: -1,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		return m, nil
	case "enter":
		return m, choose(m.Cursor)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		idx := int(key[0] - '1')
		if idx < len(m.Options) {
			m.Cursor = idx
			return m, choose(idx)
		}
	}
	return m, nil
}

func choose(i int) tea.Cmd {
	return func() tea.Msg { return ChoiceMadeMsg{Index: i} }
}

// Reveal marks the chosen and correct options.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.Revealed = true
	m.ChosenIndex = chosen
	m.CorrectIndex = correct
	m.Cursor = chosen
}

// View renders the options, each padded to width.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Revealed {
			prefix = "▸ "
		}
		mark := ""
		if m.Revealed {
			switch i {
			case m.CorrectIndex:
				mark = "  ✓"
			case m.ChosenIndex:
				mark = "  ✗"
			}
		}
		line := fmt.Sprintf("%s%s)  %s%s", prefix, quiz.OptionLabel(i), opt, mark)

		style := lipgloss.NewStyle().Width(width).Padding(0, 1)
		switch {
		case m.Revealed && i == m.CorrectIndex:
			style = style.Foreground(theme.Success).Bold(true)
		case m.Revealed && i == m.ChosenIndex:
			style = style.Foreground(theme.Error).Bold(true)
		case m.Revealed:
			style = style.Foreground(theme.TextDim)
		case i == m.Cursor:
			style = style.Foreground(theme.Primary).Bold(true)
		default:
			style = style.Foreground(theme.Text)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect reports whether the revealed choice was the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Revealed && m.ChosenIndex == m.CorrectIndex
}
