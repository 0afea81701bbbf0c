package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/quizy/internal/quiz"
	"github.com/abhisek/quizy/internal/ui/components"
	"github.com/abhisek/quizy/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	switch s.session.State {
	case qz.StateLoading:
		return s.renderLoading(width)
	case qz.StateLoadFailed:
		return renderLoadFailed(width, s.session.Err)
	case qz.StateAnswerPending, qz.StateAnswerRevealed:
		return s.renderQuestion(width)
	}
	return ""
}

func (s *QuizScreen) renderLoading(width int) string {
	line := s.spinner.View() + " " + loadingLines[s.loadingLine]
	return "\n\n\n" + components.Centered(line, width,
		lipgloss.NewStyle().Foreground(theme.TextDim))
}

func (s *QuizScreen) renderQuestion(width int) string {
	sess := s.session
	q := sess.Current()
	cw := min(width-4, 72)

	var b strings.Builder

	// Info line: subject on the left, question counter and streak on the right.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s %s", s.subject.Icon, s.subject.Name))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d/%d   %s",
			sess.Index+1, len(sess.Questions),
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🔥 %d", sess.LiveStreak())),
		))
	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.NewProgressBar("", float64(sess.Answered())/float64(len(sess.Questions)), false, cw)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(components.Centered(q.Text, width, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View(cw)))

	if s.outcome != nil {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width, cw))
	}
	return b.String()
}

func (s *QuizScreen) renderFeedback(width, cw int) string {
	var b strings.Builder
	if s.outcome.Correct {
		b.WriteString(components.Centered("Great job!", width, theme.Correct))
	} else {
		b.WriteString(components.Centered("Good try!", width, theme.Incorrect))
	}
	b.WriteString("\n")

	if s.outcome.Explanation != "" {
		exp := lipgloss.NewStyle().
			Width(cw).
			Foreground(theme.Text).
			Render(s.outcome.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n")
	}

	label := "Next Question"
	if s.session.IsLast() {
		label = "Finish Quiz"
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.NewButton(label, true, nil).View()))
	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(components.Centered("Leave this quiz?", width,
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true)))
	b.WriteString("\n")
	b.WriteString(components.Centered("Answers so far won't count toward your XP or streak.", width,
		lipgloss.NewStyle().Foreground(theme.TextDim)))
	b.WriteString("\n\n")
	b.WriteString(components.Centered("[Y] Yes, leave", width,
		lipgloss.NewStyle().Foreground(theme.Error)))
	b.WriteString("\n")
	b.WriteString(components.Centered("[N] No, keep going", width,
		lipgloss.NewStyle().Foreground(theme.Primary)))
	return b.String()
}

func renderLoadFailed(width int, err error) string {
	msg := "Couldn't load questions."
	if err != nil {
		msg = fmt.Sprintf("Couldn't load questions: %v", err)
	}
	text := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Foreground(theme.Error).
		Render(msg)
	return "\n\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, text) +
		"\n\n" + components.Centered("Press R to retry or Esc to go back.", width, theme.Hint)
}
