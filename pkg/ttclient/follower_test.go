package ttclient

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	position float64
	state    PlayerState
	seeks    []float64
	rate     float64
	quality  string
}

func (p *fakePlayer) SeekTo(seconds float64) error {
	p.position = seconds
	p.seeks = append(p.seeks, seconds)
	return nil
}

func (p *fakePlayer) PlayVideo() error {
	p.state = PlayerPlaying
	return nil
}

func (p *fakePlayer) PauseVideo() error {
	p.state = PlayerPaused
	return nil
}

func (p *fakePlayer) GetCurrentTime() (float64, error) {
	return p.position, nil
}

func (p *fakePlayer) GetPlayerState() (PlayerState, error) {
	return p.state, nil
}

func (p *fakePlayer) SetPlaybackRate(rate float64) error {
	p.rate = rate
	return nil
}

func (p *fakePlayer) SetPlaybackQuality(quality string) error {
	p.quality = quality
	return nil
}

func newTestFollower(p Player) *Follower {
	return NewFollower(p, DefaultDriftThreshold, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFollower_HostSyncJumpsWhenDrifted(t *testing.T) {
	p := &fakePlayer{position: 10, state: PlayerPaused}
	f := newTestFollower(p)

	require.NoError(t, f.HostSync(20, true))

	assert.Equal(t, 20.0, p.position)
	assert.Equal(t, []float64{20}, p.seeks)
	assert.Equal(t, PlayerPlaying, p.state)
}

func TestFollower_HostSyncToleratesSmallDrift(t *testing.T) {
	p := &fakePlayer{position: 19, state: PlayerPlaying}
	f := newTestFollower(p)

	require.NoError(t, f.HostSync(20.5, true))
	assert.Empty(t, p.seeks)
	assert.Equal(t, PlayerPlaying, p.state)

	require.NoError(t, f.HostSync(19.2, false))
	assert.Empty(t, p.seeks)
	assert.Equal(t, PlayerPaused, p.state)
}

func TestFollower_PlaybackEventsAlwaysSeek(t *testing.T) {
	p := &fakePlayer{position: 42, state: PlayerPaused}
	f := newTestFollower(p)

	require.NoError(t, f.Play(42.5))
	assert.Equal(t, 42.5, p.position)
	assert.Equal(t, PlayerPlaying, p.state)

	require.NoError(t, f.Pause(43))
	assert.Equal(t, 43.0, p.position)
	assert.Equal(t, PlayerPaused, p.state)

	require.NoError(t, f.Seek(43))
	assert.Equal(t, []float64{42.5, 43, 43}, p.seeks)
}

func TestNewFollower_DefaultThreshold(t *testing.T) {
	f := NewFollower(&fakePlayer{}, 0, slog.Default())
	assert.Equal(t, DefaultDriftThreshold, f.threshold)
}
