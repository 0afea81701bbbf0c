package reward

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizy/internal/artwork"
	"github.com/abhisek/quizy/internal/progression"
	"github.com/abhisek/quizy/internal/router"
	"github.com/abhisek/quizy/internal/screens/screenstest"
)

type fakeGenerator struct {
	err error
}

func (g *fakeGenerator) Generate(context.Context, string) (*artwork.Image, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &artwork.Image{MIMEType: "image/png", Data: []byte("\x89PNG fake")}, nil
}

var streakMaster = progression.DefaultBadges[0]

func TestRewardView(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	s := New(svc, streakMaster)
	s.Init()

	view := s.View(80, 30)
	for _, want := range []string{"Badge Unlocked!", "Streak Master", "10+ correct answers in a row", "Awesome!"} {
		assert.Contains(t, view, want)
	}
	assert.Equal(t, []string{"Badge unlocked: Streak Master!"}, svc.Narrator.(*screenstest.Narrator).Lines())
}

func TestRewardArtworkReady(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	svc.Artwork = artwork.NewService(&fakeGenerator{}, "fake", t.TempDir(), nil)
	s := New(svc, streakMaster)
	s.Init()

	require.Eventually(t, func() bool {
		return svc.Artwork.Result(streakMaster.ID).Status == artwork.StatusReady
	}, 2*time.Second, 10*time.Millisecond)

	s.Update(frameMsg{})
	assert.Equal(t, 1, s.frame)
	assert.Equal(t, artwork.StatusReady, s.art.Status)
	assert.Contains(t, s.artworkLine(), "streak-master.png")
}

func TestRewardArtworkFailed(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	svc.Artwork = artwork.NewService(&fakeGenerator{err: errors.New("quota")}, "fake", t.TempDir(), nil)
	s := New(svc, streakMaster)
	s.Init()

	require.Eventually(t, func() bool {
		return svc.Artwork.Result(streakMaster.ID).Status == artwork.StatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	s.Update(frameMsg{})
	assert.Contains(t, s.View(80, 30), artwork.FailureMessage)
	assert.Contains(t, s.artworkLine(), artwork.FailureMessage)
}

func TestRewardArtworkOff(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	svc.Artwork = artwork.NewService(nil, "off", t.TempDir(), nil)
	s := New(svc, streakMaster)
	s.Init()

	assert.Equal(t, artwork.StatusNone, svc.Artwork.Result(streakMaster.ID).Status)
	view := s.View(80, 30)
	assert.False(t, strings.Contains(view, artwork.FailureMessage))
	assert.False(t, strings.Contains(view, "Painting"))
}

func TestRewardDismiss(t *testing.T) {
	svc, _ := screenstest.Services(progression.NewUserProgress())
	s := New(svc, streakMaster)

	for _, key := range []string{"enter", "space", "esc"} {
		_, cmd := s.Update(screenstest.Key(key))
		_, ok := screenstest.Run(cmd).(router.PopToRootMsg)
		assert.True(t, ok, "%s should go home", key)
	}
}
