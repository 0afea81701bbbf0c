package progression

import (
	"math"
	"slices"
)

// Reward constants.
const (
	XPPerCorrect          = 10
	StreakBonusThreshold  = 10
	StreakBonusMultiplier = 1.5
)

// UserProgress is the learner's lifetime progress. The level is derived from
// XP on demand and never stored.
type UserProgress struct {
	XP             int      `json:"xp"`
	Streak         int      `json:"streak"`
	CorrectAnswers int      `json:"correct_answers"`
	TotalQuestions int      `json:"total_questions"`
	UnlockedBadges []string `json:"unlocked_badges"`
}

// NewUserProgress returns the zero progress state.
func NewUserProgress() UserProgress {
	return UserProgress{UnlockedBadges: []string{}}
}

// Clone returns a deep copy.
func (p UserProgress) Clone() UserProgress {
	c := p
	c.UnlockedBadges = slices.Clone(p.UnlockedBadges)
	if c.UnlockedBadges == nil {
		c.UnlockedBadges = []string{}
	}
	return c
}

// Level derives the current level from XP.
func (p UserProgress) Level(table LevelTable) Level {
	return ResolveLevel(table, p.XP)
}

// Accuracy returns the lifetime fraction of correct answers.
func (p UserProgress) Accuracy() float64 {
	if p.TotalQuestions == 0 {
		return 0
	}
	return float64(p.CorrectAnswers) / float64(p.TotalQuestions)
}

// QuizResult is the reward computed at the end of a completed quiz.
type QuizResult struct {
	Score      int     `json:"score"`
	Questions  int     `json:"questions"`
	XPGained   int     `json:"xp_gained"`
	NewStreak  int     `json:"new_streak"`
	Multiplier float64 `json:"multiplier"`
}

// BonusApplied reports whether the streak multiplier was in effect.
func (r QuizResult) BonusApplied() bool {
	return r.Multiplier > 1
}

// ComputeResult derives XP and the new streak for a finished quiz.
//
// The streak continues (carried + score) only when the final answer was
// correct; otherwise it resets to zero, even if earlier answers in the quiz
// were correct.
func ComputeResult(carriedStreak, score, questions int, lastCorrect bool) QuizResult {
	multiplier := 1.0
	if carriedStreak+score >= StreakBonusThreshold {
		multiplier = StreakBonusMultiplier
	}

	newStreak := 0
	if lastCorrect {
		newStreak = carriedStreak + score
	}

	return QuizResult{
		Score:      score,
		Questions:  questions,
		XPGained:   int(math.Round(float64(score*XPPerCorrect) * multiplier)),
		NewStreak:  newStreak,
		Multiplier: multiplier,
	}
}

// Outcome summarizes what changed when a result was applied.
type Outcome struct {
	PreviousLevel Level
	Level         Level
	LeveledUp     bool
	Unlocked      *Badge
}

// Apply folds a quiz result into the progress and checks badge unlocks.
// It returns the updated copy; p itself is left untouched.
func (p UserProgress) Apply(table LevelTable, badges []Badge, r QuizResult) (UserProgress, Outcome) {
	prev := p.Level(table)

	next := p.Clone()
	next.XP += r.XPGained
	next.Streak = r.NewStreak
	next.CorrectAnswers += r.Score
	next.TotalQuestions += r.Questions

	unlocked, next := CheckUnlocks(badges, next)
	level := next.Level(table)

	return next, Outcome{
		PreviousLevel: prev,
		Level:         level,
		LeveledUp:     level.MinXP > prev.MinXP,
		Unlocked:      unlocked,
	}
}
