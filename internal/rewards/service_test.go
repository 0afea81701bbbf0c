package rewards

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/quiz"
	"github.com/abhisek/quizy/internal/store"
)

type memStore struct {
	saved   *progression.UserProgress
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(context.Context) (*progression.UserProgress, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.saved == nil {
		return nil, nil
	}
	p := m.saved.Clone()
	return &p, nil
}

func (m *memStore) Save(_ context.Context, p progression.UserProgress) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	c := p.Clone()
	m.saved = &c
	return nil
}

type memEvents struct {
	quiz    []store.QuizEventData
	answers []store.AnswerEventData
	badges  []store.BadgeEventData
}

func (m *memEvents) AppendQuizEvent(_ context.Context, d store.QuizEventData) error {
	m.quiz = append(m.quiz, d)
	return nil
}

func (m *memEvents) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	m.answers = append(m.answers, d)
	return nil
}

func (m *memEvents) AppendBadgeEvent(_ context.Context, d store.BadgeEventData) error {
	m.badges = append(m.badges, d)
	return nil
}

func TestLoad_AbsentStartsFromZero(t *testing.T) {
	svc := NewService(&memStore{}, nil)
	require.NoError(t, svc.Load(context.Background()))

	p := svc.Current()
	assert.Equal(t, 0, p.XP)
	assert.NotNil(t, p.UnlockedBadges)
	assert.Equal(t, "Beginner", svc.Level().Name)
}

func TestLoad_RestoresSavedProgress(t *testing.T) {
	saved := progression.UserProgress{XP: 320, Streak: 6, UnlockedBadges: []string{"streak-master"}}
	svc := NewService(&memStore{saved: &saved}, nil)
	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, 320, svc.Current().XP)
	assert.Equal(t, "Skilled", svc.Level().Name)
	lp := svc.LevelProgress()
	assert.Equal(t, "Pro", lp.Next.Name)
	assert.Equal(t, 20, lp.XPInLevel)
}

func TestLoad_Error(t *testing.T) {
	svc := NewService(&memStore{loadErr: errors.New("corrupt")}, nil)
	assert.Error(t, svc.Load(context.Background()))
}

func TestComplete_AppliesAndSaves(t *testing.T) {
	ms := &memStore{}
	ev := &memEvents{}
	svc := NewService(ms, ev)
	require.NoError(t, svc.Load(context.Background()))

	r := progression.ComputeResult(0, 4, 5, true)
	out, err := svc.Complete(context.Background(), "s1", "Math", r)
	require.NoError(t, err)

	assert.Nil(t, out.Unlocked)
	assert.False(t, out.LeveledUp)
	assert.Equal(t, 40, svc.Current().XP)
	assert.Equal(t, 4, svc.Current().Streak)
	require.NotNil(t, ms.saved)
	assert.Equal(t, 40, ms.saved.XP)

	require.Len(t, ev.quiz, 1)
	assert.Equal(t, store.QuizActionComplete, ev.quiz[0].Action)
	assert.Equal(t, 40, ev.quiz[0].XPGained)
	assert.Equal(t, "Beginner", ev.quiz[0].Level)
	assert.Empty(t, ev.badges)
}

func TestComplete_UnlocksBadgeAndLevels(t *testing.T) {
	saved := progression.UserProgress{XP: 60, Streak: 8, UnlockedBadges: []string{}}
	ev := &memEvents{}
	svc := NewService(&memStore{saved: &saved}, ev)
	require.NoError(t, svc.Load(context.Background()))

	r := progression.ComputeResult(8, 5, 5, true)
	out, err := svc.Complete(context.Background(), "s2", "Science", r)
	require.NoError(t, err)

	assert.Equal(t, 1.5, r.Multiplier)
	assert.Equal(t, 135, svc.Current().XP)
	assert.True(t, out.LeveledUp)
	assert.Equal(t, "Learner", out.Level.Name)
	require.NotNil(t, out.Unlocked)
	assert.Equal(t, "streak-master", out.Unlocked.ID)
	assert.True(t, svc.Current().HasBadge("streak-master"))

	require.Len(t, ev.badges, 1)
	assert.Equal(t, "streak-master", ev.badges[0].BadgeID)
	assert.Equal(t, 13, ev.badges[0].Streak)
	require.Len(t, svc.SessionUnlocks, 1)
}

func TestComplete_PersistenceFailureKeepsMemory(t *testing.T) {
	ms := &memStore{saveErr: errors.New("disk full")}
	svc := NewService(ms, nil)
	require.NoError(t, svc.Load(context.Background()))

	out, err := svc.Complete(context.Background(), "s3", "History", progression.ComputeResult(0, 5, 5, true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.Equal(t, "Beginner", out.Level.Name)
	assert.Equal(t, 50, svc.Current().XP)
}

func TestComplete_CopyIsolation(t *testing.T) {
	svc := NewService(nil, nil)
	before := svc.Current()
	_, err := svc.Complete(context.Background(), "s", "Math", progression.ComputeResult(0, 5, 5, true))
	require.NoError(t, err)
	assert.Equal(t, 0, before.XP)

	p := svc.Current()
	p.XP = 9999
	assert.Equal(t, 50, svc.Current().XP)
}

func TestRecordSessionEvents(t *testing.T) {
	ev := &memEvents{}
	svc := NewService(nil, ev)
	ctx := context.Background()

	sess := quiz.New("Math", 0)
	require.NoError(t, sess.Load(testQuestions(), nil))
	svc.RecordStart(ctx, sess)

	a, err := sess.Answer(2)
	require.NoError(t, err)
	svc.RecordAnswer(ctx, sess, a)

	require.NoError(t, sess.Abandon())
	svc.RecordAbandon(ctx, sess)

	require.Len(t, ev.quiz, 2)
	assert.Equal(t, store.QuizActionStart, ev.quiz[0].Action)
	assert.Equal(t, store.QuizActionAbandon, ev.quiz[1].Action)
	assert.Equal(t, 1, ev.quiz[1].Questions)

	require.Len(t, ev.answers, 1)
	assert.Equal(t, "Q1?", ev.answers[0].QuestionText)
	assert.Equal(t, 2, ev.answers[0].Selected)
	assert.True(t, ev.answers[0].Correct)
}

func TestReset(t *testing.T) {
	saved := progression.UserProgress{XP: 700, Streak: 3, UnlockedBadges: []string{"knowledge-king"}}
	ms := &memStore{saved: &saved}
	svc := NewService(ms, nil)
	require.NoError(t, svc.Load(context.Background()))

	require.NoError(t, svc.Reset(context.Background()))
	assert.Equal(t, 0, svc.Current().XP)
	assert.Equal(t, 0, ms.saved.XP)
	assert.Empty(t, ms.saved.UnlockedBadges)
}

func TestCustomCatalog(t *testing.T) {
	levels := progression.LevelTable{{Name: "Rookie", MinXP: 0}, {Name: "Star", MinXP: 20}}
	badges := []progression.Badge{{ID: "first-steps", Name: "First Steps", Kind: progression.BadgeXP, MinRequirement: 10}}
	svc := NewService(nil, nil, WithLevels(levels), WithBadges(badges))

	out, err := svc.Complete(context.Background(), "s", "Math", progression.ComputeResult(0, 3, 5, false))
	require.NoError(t, err)
	assert.Equal(t, "Star", out.Level.Name)
	require.NotNil(t, out.Unlocked)
	assert.Equal(t, "first-steps", out.Unlocked.ID)
	assert.Len(t, svc.Badges(), 1)
}

func testQuestions() []quiz.Question {
	qs := make([]quiz.Question, quiz.QuestionsPerQuiz)
	for i := range qs {
		qs[i] = quiz.Question{
			Text:         "Q" + string(rune('1'+i)) + "?",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 2,
			Explanation:  "c it is",
		}
	}
	return qs
}
