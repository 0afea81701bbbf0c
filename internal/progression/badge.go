package progression

import "slices"

// BadgeKind selects the progress metric a badge is measured against.
type BadgeKind string

const (
	BadgeStreak BadgeKind = "streak"
	BadgeXP     BadgeKind = "xp"
)

// DisplayName returns a human-readable label for the badge kind.
func (k BadgeKind) DisplayName() string {
	switch k {
	case BadgeStreak:
		return "Streak"
	case BadgeXP:
		return "Experience"
	default:
		return string(k)
	}
}

// Badge is an achievement unlocked once its requirement is met.
type Badge struct {
	ID             string
	Name           string
	Description    string
	IconPrompt     string
	Kind           BadgeKind
	MinRequirement int
}

// Satisfied reports whether p meets the badge requirement. Unknown kinds are
// never satisfied.
func (b Badge) Satisfied(p UserProgress) bool {
	switch b.Kind {
	case BadgeStreak:
		return p.Streak >= b.MinRequirement
	case BadgeXP:
		return p.XP >= b.MinRequirement
	default:
		return false
	}
}

// DefaultBadges is the built-in badge catalog in evaluation order.
var DefaultBadges = []Badge{
	{
		ID:             "streak-master",
		Name:           "Streak Master",
		Description:    "10+ correct answers in a row",
		IconPrompt:     `A cute, vibrant cartoon icon of a fiery trophy for a "Streak Master" achievement, digital art style, on a clean white background.`,
		Kind:           BadgeStreak,
		MinRequirement: 10,
	},
	{
		ID:             "knowledge-king",
		Name:           "Knowledge King",
		Description:    "500+ XP earned",
		IconPrompt:     `A cute, vibrant cartoon icon of a sparkling diamond brain for a "Knowledge King" achievement, digital art style, on a clean white background.`,
		Kind:           BadgeXP,
		MinRequirement: 500,
	},
}

// FindBadge looks a badge up by ID.
func FindBadge(badges []Badge, id string) (Badge, bool) {
	for _, b := range badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// PendingBadges returns every badge that is satisfied but not yet unlocked,
// in catalog order.
func PendingBadges(badges []Badge, p UserProgress) []Badge {
	var out []Badge
	for _, b := range badges {
		if !p.HasBadge(b.ID) && b.Satisfied(p) {
			out = append(out, b)
		}
	}
	return out
}

// firstNewlyEarned picks the first catalog badge that p satisfies and has not
// unlocked yet.
func firstNewlyEarned(badges []Badge, p UserProgress) (Badge, bool) {
	pending := PendingBadges(badges, p)
	if len(pending) == 0 {
		return Badge{}, false
	}
	return pending[0], true
}

// CheckUnlocks unlocks at most one badge per call. It returns the newly
// unlocked badge (nil if none) and a copy of p with the badge id appended.
// Further eligible badges surface on subsequent calls.
func CheckUnlocks(badges []Badge, p UserProgress) (*Badge, UserProgress) {
	next := p.Clone()
	b, ok := firstNewlyEarned(badges, next)
	if !ok {
		return nil, next
	}
	next.UnlockedBadges = append(next.UnlockedBadges, b.ID)
	return &b, next
}

// HasBadge reports whether id is in the unlocked set.
func (p UserProgress) HasBadge(id string) bool {
	return slices.Contains(p.UnlockedBadges, id)
}
