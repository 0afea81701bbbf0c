package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizy/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default indigo
	MascotCelebrating                      // Gold, star eyes after a level up
	MascotAlert                            // Orange, offline or warning
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ?!✓ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ?!✓ │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ ?!✓ │
└─────┘`

// Dance frames alternate on the reward screen.
var mascotDance = []string{
	`\┌─────┐
 │ ★ ★ │/
 │  ▿  │
 │ ?!✓ │
 └─────┘
  ╯   ╰`,
	` ┌─────┐/
\│ ★ ★ │
 │  ▿  │
 │ ?!✓ │
 └─────┘
  ╰   ╯`,
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch variant {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

// RenderDancingMascot returns dance frame n, cycling through the frames.
func RenderDancingMascot(frame int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Render(mascotDance[frame%len(mascotDance)])
}
