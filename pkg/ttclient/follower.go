package ttclient

import (
	"encoding/json"
	"log/slog"
	"math"
)

// DefaultDriftThreshold is the drift in seconds tolerated before a follower
// seeks.
const DefaultDriftThreshold = 2.0

type PlayerState int

// Values match the YouTube IFrame player.
const (
	PlayerUnstarted PlayerState = -1
	PlayerEnded     PlayerState = 0
	PlayerPlaying   PlayerState = 1
	PlayerPaused    PlayerState = 2
	PlayerBuffering PlayerState = 3
	PlayerCued      PlayerState = 5
)

// Player is the local playback engine a Follower drives.
type Player interface {
	SeekTo(seconds float64) error
	PlayVideo() error
	PauseVideo() error
	GetCurrentTime() (float64, error)
	GetPlayerState() (PlayerState, error)
	SetPlaybackRate(rate float64) error
	SetPlaybackQuality(quality string) error
}

// Follower keeps a non-host Player aligned with the room. Periodic host-sync
// reports only correct drift above the threshold; play, pause and seek events
// always jump to the carried position.
type Follower struct {
	player    Player
	threshold float64
	logger    *slog.Logger
}

func NewFollower(player Player, threshold float64, logger *slog.Logger) *Follower {
	if threshold <= 0 {
		threshold = DefaultDriftThreshold
	}

	return &Follower{
		player:    player,
		threshold: threshold,
		logger:    logger,
	}
}

// Attach subscribes f to the sync events of c.
func (f *Follower) Attach(c *Client) {
	onDecoded(c, EventHostSync, f.logger, func(p HostSync) error {
		return f.HostSync(p.CurrentTime, p.IsPlaying)
	})
	onDecoded(c, EventSyncResponse, f.logger, func(p SyncResponse) error {
		return f.HostSync(p.CurrentTime, p.IsPlaying)
	})
	onDecoded(c, EventVideoPlay, f.logger, func(p PositionUpdate) error {
		return f.Play(p.Timestamp)
	})
	onDecoded(c, EventVideoPause, f.logger, func(p PositionUpdate) error {
		return f.Pause(p.Timestamp)
	})
	onDecoded(c, EventVideoSeek, f.logger, func(p PositionUpdate) error {
		return f.Seek(p.Timestamp)
	})
}

func onDecoded[T any](c *Client, eventType string, logger *slog.Logger, h func(T) error) {
	c.On(eventType, func(payload json.RawMessage) {
		var p T
		if err := json.Unmarshal(payload, &p); err != nil {
			logger.Warn("failed to decode event", "type", eventType, "error", err)
			return
		}

		if err := h(p); err != nil {
			logger.Warn("failed to apply event", "type", eventType, "error", err)
		}
	})
}

// HostSync corrects the position only when it drifted more than the threshold
// from reported, and always aligns the transport state.
func (f *Follower) HostSync(reported float64, isPlaying bool) error {
	local, err := f.player.GetCurrentTime()
	if err != nil {
		return err
	}

	if math.Abs(local-reported) > f.threshold {
		if err := f.player.SeekTo(reported); err != nil {
			return err
		}
	}

	return f.applyPlaying(isPlaying)
}

func (f *Follower) Play(at float64) error {
	if err := f.player.SeekTo(at); err != nil {
		return err
	}

	return f.player.PlayVideo()
}

func (f *Follower) Pause(at float64) error {
	if err := f.player.PauseVideo(); err != nil {
		return err
	}

	return f.player.SeekTo(at)
}

func (f *Follower) Seek(to float64) error {
	return f.player.SeekTo(to)
}

func (f *Follower) applyPlaying(isPlaying bool) error {
	state, err := f.player.GetPlayerState()
	if err != nil {
		return err
	}

	switch {
	case isPlaying && state != PlayerPlaying && state != PlayerBuffering:
		return f.player.PlayVideo()
	case !isPlaying && (state == PlayerPlaying || state == PlayerBuffering):
		return f.player.PauseVideo()
	}

	return nil
}
