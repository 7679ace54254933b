package room

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type RequestSyncParams struct {
	RoomId       string
	ConnectionId string
}

// RequestSync answers the requester only with the authoritative state.
func (s *service) RequestSync(ctx context.Context, params *RequestSyncParams) (SyncResponse, error) {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
	); err != nil {
		return SyncResponse{}, validationError(err)
	}

	r, _, err := s.lockMember(params.RoomId, params.ConnectionId)
	if err != nil {
		return SyncResponse{}, err
	}
	defer r.mu.Unlock()

	resp := r.syncResponse(s.now())
	s.send(ctx, params.ConnectionId, EventSyncResponse, resp)

	return resp, nil
}

type SyncTimeParams struct {
	RoomId       string
	ConnectionId string
	CurrentTime  float64
}

// SyncTime records the host reported position. Reports from anyone else are
// dropped.
func (s *service) SyncTime(ctx context.Context, params *SyncTimeParams) error {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.CurrentTime, PositionRule...),
	); err != nil {
		return validationError(err)
	}

	r, _, err := s.lockMember(params.RoomId, params.ConnectionId)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	if !r.isHost(params.ConnectionId) {
		s.logger.DebugContext(ctx, "ignored sync-time from non-host", "room_id", r.id, "connection_id", params.ConnectionId)
		return nil
	}

	r.playback.position = params.CurrentTime
	r.playback.updatedAt = s.now()

	return nil
}

type HostSyncParams struct {
	RoomId       string
	ConnectionId string
	CurrentTime  float64
	IsPlaying    bool
}

// HostSync records the host reported state and relays it to everyone else.
func (s *service) HostSync(ctx context.Context, params *HostSyncParams) error {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.CurrentTime, PositionRule...),
	); err != nil {
		return validationError(err)
	}

	r, _, err := s.lockMember(params.RoomId, params.ConnectionId)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	if !r.isHost(params.ConnectionId) {
		s.logger.DebugContext(ctx, "ignored host-sync from non-host", "room_id", r.id, "connection_id", params.ConnectionId)
		return nil
	}

	r.playback = playback{
		isPlaying: params.IsPlaying,
		position:  params.CurrentTime,
		updatedAt: s.now(),
	}

	s.broadcast(ctx, r, EventHostSync, r.hostSync(s.now()), params.ConnectionId)

	return nil
}

// startHostSync (re)starts the periodic host-sync of r. The caller must hold
// r.mu.
func (s *service) startHostSync(r *room) {
	r.stopHostSync()
	if s.syncInterval <= 0 || s.closing.Load() {
		return
	}

	done := make(chan struct{})
	r.syncDone = done

	s.syncWg.Add(1)
	go s.runHostSync(r, done)
}

func (s *service) runHostSync(r *room, done <-chan struct{}) {
	defer s.syncWg.Done()

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !s.tickHostSync(r, done) {
				return
			}
		}
	}
}

// tickHostSync sends one host-sync to every non-host member. It reports false
// once the ticker of r has been stopped.
func (s *service) tickHostSync(r *room, done <-chan struct{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-done:
		return false
	default:
	}

	if r.closed || r.hostId == "" {
		return false
	}

	if r.media == nil {
		return true
	}

	s.broadcast(context.Background(), r, EventHostSync, r.hostSync(s.now()), r.hostId)

	return true
}
