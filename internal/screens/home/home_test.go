package home

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qchat "github.com/abhisek/quizy/internal/chat"
	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screens/chat"
	quizscreen "github.com/abhisek/quizy/internal/screens/quiz"
	"github.com/abhisek/quizy/internal/screens/screenstest"
	"github.com/abhisek/quizy/internal/ui/components"
)

func TestHomeMenu(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	h := New(svc)

	labels := h.menu.Labels()
	require.Len(t, labels, len(progression.DefaultSubjects)+4)
	assert.Equal(t, "🧬 SCIENCE", labels[0])
	assert.Equal(t, "🌍 GENERAL KNOWLEDGE", labels[3])
	assert.Equal(t, []string{"BADGES", "HISTORY", "ASK QUIZY", "EXIT"}, labels[4:])

	// Without an assistant the chat entry is skipped during navigation.
	assert.True(t, h.menu.Items[6].Disabled)
	for range 6 {
		h.Update(screenstest.Key("down"))
	}
	assert.Equal(t, "EXIT", labels[h.menu.Selected])
}

func TestHomeStartsQuiz(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	h := New(svc)

	_, cmd := h.Update(screenstest.Key("enter"))
	push, ok := screenstest.Run(cmd).(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = push.Screen.(*quizscreen.QuizScreen)
	assert.True(t, ok)
}

type fixedReply struct{}

func (fixedReply) Reply(context.Context, []qchat.Message, string) (string, error) { return "ok", nil }

func TestHomeAskQuizy(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	svc.Chat = fixedReply{}
	h := New(svc)
	require.False(t, h.menu.Items[6].Disabled)

	h.menu.Selected = 6
	_, cmd := h.Update(screenstest.Key("enter"))
	push, ok := screenstest.Run(cmd).(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = push.Screen.(*chat.ChatScreen)
	assert.True(t, ok)
}

func TestHomeMascot(t *testing.T) {
	p := progression.NewUserProgress()
	p.XP = 90
	svc, _ := screenstest.Services(p)
	h := New(svc)
	assert.Equal(t, components.MascotIdle, h.Mascot())

	// Returning home after a level up celebrates once.
	_, err := svc.Rewards.Complete(context.Background(), "s1", "Math", progression.ComputeResult(0, 5, 5, true))
	require.NoError(t, err)
	h.Resume()
	assert.Equal(t, components.MascotCelebrating, h.Mascot())
	h.Resume()
	assert.Equal(t, components.MascotIdle, h.Mascot())

	svc.Offline = true
	h.Resume()
	assert.Equal(t, components.MascotAlert, h.Mascot())
}

func TestHomeView(t *testing.T) {
	p := progression.NewUserProgress()
	p.XP = 140
	p.Streak = 3
	svc, _ := screenstest.Services(p)
	svc.Offline = true
	h := New(svc)

	view := h.View(100, 40)
	assert.Contains(t, view, "Offline mode")
	assert.Contains(t, view, "LEARNER")
	assert.Contains(t, view, "160 XP to")
	assert.Contains(t, view, "BADGES")

	compact := h.View(70, 20)
	assert.Contains(t, compact, "140XP")
	assert.Contains(t, compact, "🔥3")
}
