package room

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	omitnilpointers "github.com/togethertime/server/pkg/omit-nil-pointers"
	"github.com/togethertime/server/pkg/mediaurl"
)

// roomStateUpdate builds a partial room-state-update; nil fields are left out.
func roomStateUpdate(users *[]Member, host *string, isLocked *bool) map[string]any {
	return omitnilpointers.OmitNilPointers(map[string]any{
		"users":    users,
		"host":     host,
		"isLocked": isLocked,
	})
}

// authorize reports whether connectionId may change playback, media or lock
// sensitive state. Host status is derived on every call.
func (r *room) authorize(connectionId string) error {
	if r.locked && !r.isHost(connectionId) {
		return ErrRoomLocked
	}

	return nil
}

type SelectMediaParams struct {
	RoomId       string
	ConnectionId string
	VideoId      string
	Platform     mediaurl.Platform
}

func (s *service) SelectMedia(ctx context.Context, params *SelectMediaParams) (Media, error) {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Platform, PlatformRule...),
	); err != nil {
		return Media{}, validationError(err)
	}

	videoId, err := mediaurl.Normalize(params.Platform, params.VideoId)
	if err != nil {
		return Media{}, fmt.Errorf("%w: %w", ErrInvalidMedia, err)
	}

	r, _, err := s.lockMember(params.RoomId, params.ConnectionId)
	if err != nil {
		return Media{}, err
	}
	defer r.mu.Unlock()

	if err := r.authorize(params.ConnectionId); err != nil {
		return Media{}, err
	}

	media := Media{
		VideoId:  videoId,
		Platform: params.Platform,
	}
	r.media = &media
	r.playback = playback{
		isPlaying: true,
		position:  0,
		updatedAt: s.now(),
	}

	s.broadcast(ctx, r, EventVideoChange, media)

	return media, nil
}

type UpdatePlaybackParams struct {
	RoomId       string
	ConnectionId string
	Timestamp    float64
}

func (s *service) Play(ctx context.Context, params *UpdatePlaybackParams) error {
	return s.updatePlayback(ctx, params, EventVideoPlay, func(p *playback) {
		p.isPlaying = true
	})
}

func (s *service) Pause(ctx context.Context, params *UpdatePlaybackParams) error {
	return s.updatePlayback(ctx, params, EventVideoPause, func(p *playback) {
		p.isPlaying = false
	})
}

// Seek moves the position and keeps the transport state.
func (s *service) Seek(ctx context.Context, params *UpdatePlaybackParams) error {
	return s.updatePlayback(ctx, params, EventVideoSeek, func(*playback) {})
}

func (s *service) updatePlayback(ctx context.Context, params *UpdatePlaybackParams, event string, apply func(*playback)) error {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Timestamp, PositionRule...),
	); err != nil {
		return validationError(err)
	}

	r, _, err := s.lockMember(params.RoomId, params.ConnectionId)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	if err := r.authorize(params.ConnectionId); err != nil {
		return err
	}

	if r.media == nil {
		return ErrNoMedia
	}

	r.playback.position = params.Timestamp
	r.playback.updatedAt = s.now()
	apply(&r.playback)

	s.broadcast(ctx, r, event, PositionUpdate{Timestamp: params.Timestamp}, params.ConnectionId)

	return nil
}

type ToggleLockParams struct {
	RoomId       string
	ConnectionId string
	IsLocked     bool
}

type ToggleLockResponse struct {
	// Applied is false when a non-host asked and the request was ignored.
	Applied bool
}

func (s *service) ToggleLock(ctx context.Context, params *ToggleLockParams) (ToggleLockResponse, error) {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
	); err != nil {
		return ToggleLockResponse{}, validationError(err)
	}

	r, _, err := s.lockMember(params.RoomId, params.ConnectionId)
	if err != nil {
		return ToggleLockResponse{}, err
	}
	defer r.mu.Unlock()

	if !r.isHost(params.ConnectionId) {
		s.logger.DebugContext(ctx, "ignored toggle-lock from non-host", "room_id", r.id, "connection_id", params.ConnectionId)
		return ToggleLockResponse{}, nil
	}

	r.locked = params.IsLocked

	s.broadcast(ctx, r, EventRoomLocked, r.locked)
	s.broadcast(ctx, r, EventRoomStateUpdate, roomStateUpdate(nil, nil, &r.locked))

	return ToggleLockResponse{Applied: true}, nil
}
