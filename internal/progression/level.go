package progression

import (
	"errors"
	"fmt"
)

// Level is a named XP tier.
type Level struct {
	Name  string
	MinXP int
	Icon  string
}

// Label renders the level with its icon, e.g. "🚀 Pro".
func (l Level) Label() string {
	if l.Icon == "" {
		return l.Name
	}
	return l.Icon + " " + l.Name
}

// LevelTable is a list of levels sorted ascending by MinXP.
type LevelTable []Level

// DefaultLevels is the built-in level ladder.
var DefaultLevels = LevelTable{
	{Name: "Beginner", MinXP: 0, Icon: "🔰"},
	{Name: "Learner", MinXP: 100, Icon: "🧠"},
	{Name: "Skilled", MinXP: 300, Icon: "💪"},
	{Name: "Pro", MinXP: 600, Icon: "🚀"},
	{Name: "Master", MinXP: 1000, Icon: "👑"},
}

var ErrInvalidLevelTable = errors.New("invalid level table")

// Validate checks that the table is non-empty, starts at 0, and has strictly
// increasing thresholds.
func (t LevelTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidLevelTable)
	}
	if t[0].MinXP != 0 {
		return fmt.Errorf("%w: first level %q starts at %d, want 0", ErrInvalidLevelTable, t[0].Name, t[0].MinXP)
	}
	for i := 1; i < len(t); i++ {
		if t[i].MinXP <= t[i-1].MinXP {
			return fmt.Errorf("%w: level %q threshold %d does not exceed %q threshold %d",
				ErrInvalidLevelTable, t[i].Name, t[i].MinXP, t[i-1].Name, t[i-1].MinXP)
		}
	}
	return nil
}

// ResolveLevel returns the highest level whose threshold is at or below xp.
// Falls back to the lowest level when nothing matches. Returns the zero Level
// for an empty table.
func ResolveLevel(table LevelTable, xp int) Level {
	if len(table) == 0 {
		return Level{}
	}
	for i := len(table) - 1; i >= 0; i-- {
		if table[i].MinXP <= xp {
			return table[i]
		}
	}
	return table[0]
}

// Progress describes how far a learner is through the current level.
type Progress struct {
	Current   Level
	Next      Level
	XPInLevel int
	XPForNext int
	AtMax     bool
}

// Fraction returns XPInLevel/XPForNext clamped to [0, 1].
func (p Progress) Fraction() float64 {
	if p.AtMax {
		return 1
	}
	if p.XPForNext <= 0 {
		return 0
	}
	f := float64(p.XPInLevel) / float64(p.XPForNext)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Remaining returns the XP still needed to reach the next level.
func (p Progress) Remaining() int {
	if p.AtMax {
		return 0
	}
	if r := p.XPForNext - p.XPInLevel; r > 0 {
		return r
	}
	return 0
}

// defaultLevelSpan is used when the next level is not above the current one.
const defaultLevelSpan = 100

// LevelProgress computes the progress bar values shown on the home screen.
// The next level is the first level strictly above xp, or the last level when
// the learner is already at the top.
func LevelProgress(table LevelTable, xp int) Progress {
	if len(table) == 0 {
		return Progress{}
	}

	current := ResolveLevel(table, xp)
	next := table[len(table)-1]
	atMax := true
	for _, l := range table {
		if l.MinXP > xp {
			next = l
			atMax = false
			break
		}
	}

	span := next.MinXP - current.MinXP
	if span <= 0 {
		span = defaultLevelSpan
	}

	return Progress{
		Current:   current,
		Next:      next,
		XPInLevel: xp - current.MinXP,
		XPForNext: span,
		AtMax:     atMax,
	}
}
