package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/ui/theme"
)

var bannerRows = []string{
	` ██████╗ ██╗   ██╗██╗███████╗██╗   ██╗`,
	`██╔═══██╗██║   ██║██║╚══███╔╝╚██╗ ██╔╝`,
	`██║   ██║██║   ██║██║  ███╔╝  ╚████╔╝ `,
	`██║▄▄ ██║██║   ██║██║ ███╔╝    ╚██╔╝  `,
	`╚██████╔╝╚██████╔╝██║███████╗   ██║   `,
	` ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝   ╚═╝   `,
}

// bannerMinWidth is the narrowest terminal that fits the block letters.
const bannerMinWidth = 42

// RenderBanner returns the QUIZY title, shading the block letters from
// indigo to violet. Narrow terminals get a spaced-out text title.
func RenderBanner(width int) string {
	if width < bannerMinWidth {
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Q U I Z Y")
	}

	top := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	bottom := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	rows := make([]string, len(bannerRows))
	for i, r := range bannerRows {
		if i < len(bannerRows)/2 {
			rows[i] = top.Render(r)
		} else {
			rows[i] = bottom.Render(r)
		}
	}
	return strings.Join(rows, "\n")
}
