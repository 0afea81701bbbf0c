package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/ui/components"
	"github.com/abhisek/quizy/internal/ui/theme"
)

// Block-letter title.
const arcadeTitleFull = ` ██████╗ ██╗   ██╗██╗███████╗██╗   ██╗
██╔═══██╗██║   ██║██║╚══███╔╝╚██╗ ██╔╝
██║   ██║██║   ██║██║  ███╔╝  ╚████╔╝
██║▄▄ ██║██║   ██║██║ ███╔╝    ╚██╔╝
╚██████╔╝╚██████╔╝██║███████╗   ██║
 ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝   ╚═╝`

const arcadeTitleCompact = "Q · U · I · Z · Y"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// stats is what the level card shows.
type stats struct {
	progress progression.Progress
	xp       int
	streak   int
	accuracy float64
	answered int
	badges   int
	total    int
}

// renderLevelCard renders the level, XP bar and stats in a double-bordered box.
func renderLevelCard(st stats, cw int, compact bool) string {
	levelStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	xpStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	accuracy := "—"
	if st.answered > 0 {
		accuracy = fmt.Sprintf("%.0f%%", st.accuracy*100)
	}

	var lines []string
	if compact {
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			levelStyle.Render(st.progress.Current.Label()),
			xpStyle.Render(fmt.Sprintf("%dXP", st.xp)),
			streakStyle.Render(fmt.Sprintf("🔥%d", st.streak)),
			dimStyle.Render(fmt.Sprintf("🏅%d/%d", st.badges, st.total)),
		))
	} else {
		lines = append(lines, levelStyle.Render(strings.ToUpper(st.progress.Current.Label())))

		bar := components.NewProgressBar("", st.progress.Fraction(), false, cw-8).View()
		lines = append(lines, bar)

		next := "MAX LEVEL"
		if !st.progress.AtMax {
			next = fmt.Sprintf("%d XP to %s", st.progress.Remaining(), st.progress.Next.Label())
		}
		lines = append(lines, dimStyle.Render(next))

		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			xpStyle.Render(fmt.Sprintf("★ %d XP", st.xp)),
			streakStyle.Render(fmt.Sprintf("🔥 %d", st.streak)),
			dimStyle.Render("◎ "+accuracy),
			dimStyle.Render(fmt.Sprintf("🏅 %d/%d", st.badges, st.total)),
		))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 26

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(label))
		} else {
			buttons = append(buttons, components.ArcadeButton(label, i == selected, buttonWidth))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for small terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		switch {
		case disabled[i]:
			line = theme.Locked.Render("   " + label)
		case i == selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderOfflineBanner is shown when questions come from the built-in bank.
func renderOfflineBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Offline mode: set an LLM API key for fresh questions (see quizy --help)")
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(variant components.MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(components.RenderMascot(variant))
}
