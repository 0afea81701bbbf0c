package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "charm.land/bubbletea/v2"

	qchat "github.com/abhisek/quizy/internal/chat"
	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	chatscreen "github.com/abhisek/quizy/internal/screens/chat"
	"github.com/abhisek/quizy/internal/screens/home"
	quizscreen "github.com/abhisek/quizy/internal/screens/quiz"
	"github.com/abhisek/quizy/internal/screens/screenstest"
	"github.com/abhisek/quizy/internal/screens/welcome"
)

type silentReply struct{}

func (silentReply) Reply(context.Context, []qchat.Message, string) (string, error) { return "", nil }

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

func TestStartScreens(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())

	m := newAppModel(Options{Services: svc})
	_, ok := m.router.Active().(*welcome.WelcomeScreen)
	assert.True(t, ok)

	m = newAppModel(Options{Services: svc, SkipWelcome: true})
	_, ok = m.router.Active().(*home.HomeScreen)
	assert.True(t, ok)
	assert.Nil(t, m.start)

	mathSubject, _ := progression.FindSubject("math")
	m = newAppModel(Options{Services: svc, Subject: &mathSubject})
	push, ok := screenstest.Run(m.start).(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = push.Screen.(*quizscreen.QuizScreen)
	assert.True(t, ok)
}

func TestEscapeAtRootIsIgnored(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	m := newAppModel(Options{Services: svc, SkipWelcome: true})

	_, cmd := update(t, m, screenstest.Key("esc"))
	assert.Nil(t, cmd)
}

func TestEscapePopsPushedScreens(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	svc.Chat = silentReply{}
	m := newAppModel(Options{Services: svc, SkipWelcome: true})

	m.router.Push(home.New(svc))
	_, cmd := update(t, m, screenstest.Key("esc"))
	_, ok := screenstest.Run(cmd).(router.PopScreenMsg)
	assert.True(t, ok)

	// The chat screen handles Esc itself.
	m.router.Push(chatscreen.New(svc))
	_, cmd = update(t, m, screenstest.Key("esc"))
	_, ok = screenstest.Run(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestHeaderStats(t *testing.T) {
	p := progression.NewUserProgress()
	p.XP = 320
	p.Streak = 4
	svc, _ := screenstest.Services(p)
	m := newAppModel(Options{Services: svc, SkipWelcome: true})

	hs := m.headerStats()
	assert.Equal(t, "Skilled", hs.LevelName)
	assert.Equal(t, 320, hs.XP)
	assert.Equal(t, 4, hs.Streak)

	assert.Equal(t, "", AppModel{}.headerStats().LevelName)
}
