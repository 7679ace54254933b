package room

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/togethertime/server/internal/repository/connection"
)

type ConnectMemberParams struct {
	ConnectionId string
	Conn         connection.Conn
}

func (s *service) ConnectMember(ctx context.Context, params *ConnectMemberParams) error {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Conn, validation.Required),
	); err != nil {
		return validationError(err)
	}

	if err := s.connRepo.Add(params.ConnectionId, params.Conn); err != nil {
		return fmt.Errorf("failed to add conn: %w", err)
	}

	return nil
}

type DisconnectMemberParams struct {
	ConnectionId string
}

// DisconnectMember takes the connection out of its room through the same path
// as LeaveRoom and forgets the connection.
func (s *service) DisconnectMember(ctx context.Context, params *DisconnectMemberParams) error {
	if roomId, ok := s.getMembership(params.ConnectionId); ok {
		if err := s.leave(ctx, roomId, params.ConnectionId); err != nil {
			s.logger.InfoContext(ctx, "failed to leave room on disconnect", "room_id", roomId, "error", err)
		}
	}

	conn, err := s.connRepo.Remove(params.ConnectionId)
	if err != nil {
		return fmt.Errorf("failed to remove conn: %w", err)
	}

	if err := conn.Close(); err != nil {
		s.logger.DebugContext(ctx, "failed to close conn", "error", err)
	}

	return nil
}

type JoinRoomParams struct {
	RoomId       string
	ConnectionId string
	Name         string
	IsMuted      bool
	// Token is a session token from an earlier room-state of the same room.
	Token string
}

type JoinRoomResponse struct {
	State RoomState
}

func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	params.Name = strings.TrimSpace(params.Name)
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Name, NameRule...),
	); err != nil {
		return JoinRoomResponse{}, validationError(err)
	}

	if prevRoomId, ok := s.getMembership(params.ConnectionId); ok && prevRoomId != params.RoomId {
		if err := s.leave(ctx, prevRoomId, params.ConnectionId); err != nil {
			s.logger.InfoContext(ctx, "failed to leave previous room", "room_id", prevRoomId, "error", err)
		}
	}

	name := params.Name
	if name == "" {
		name = s.tokenName(params.Token, params.RoomId)
	}

	r := s.acquireRoom(params.RoomId)
	defer r.mu.Unlock()

	// Joining the same room twice only resends the snapshot.
	if m, ok := r.getMember(params.ConnectionId); ok {
		state, err := s.roomState(r, m)
		if err != nil {
			return JoinRoomResponse{}, err
		}

		s.send(ctx, params.ConnectionId, EventRoomState, state)
		return JoinRoomResponse{State: state}, nil
	}

	if s.membersLimit > 0 && len(r.members) >= s.membersLimit {
		return JoinRoomResponse{}, ErrRoomFull
	}

	if name == "" {
		r.guestSeq++
		name = fmt.Sprintf("Guest_%d", r.guestSeq)
	}

	m := &member{
		connectionId: params.ConnectionId,
		displayName:  name,
		isMuted:      params.IsMuted,
		joinedAt:     s.now(),
	}
	r.members = append(r.members, m)
	s.setMembership(params.ConnectionId, params.RoomId)

	if r.hostId == "" {
		r.hostId = m.connectionId
		s.startHostSync(r)
	}

	state, err := s.roomState(r, m)
	if err != nil {
		s.removeMember(ctx, r, m.connectionId)
		return JoinRoomResponse{}, err
	}

	s.broadcast(ctx, r, EventUserJoined, r.toMember(m), m.connectionId)
	s.broadcast(ctx, r, EventReceiveMessage, s.systemMessage(fmt.Sprintf("%s joined the room", m.displayName)), m.connectionId)
	s.send(ctx, m.connectionId, EventRoomState, state)

	s.logger.InfoContext(ctx, "member joined", "room_id", r.id, "connection_id", m.connectionId, "members", len(r.members))

	return JoinRoomResponse{State: state}, nil
}

type LeaveRoomParams struct {
	RoomId       string
	ConnectionId string
}

func (s *service) LeaveRoom(ctx context.Context, params *LeaveRoomParams) error {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
	); err != nil {
		return validationError(err)
	}

	return s.leave(ctx, params.RoomId, params.ConnectionId)
}

func (s *service) leave(ctx context.Context, roomId, connectionId string) error {
	r, _, err := s.lockMember(roomId, connectionId)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	s.removeMember(ctx, r, connectionId)
	return nil
}

type UpdateProfileParams struct {
	RoomId       string
	ConnectionId string
	Name         *string
	IsMuted      *bool
}

func (s *service) UpdateProfile(ctx context.Context, params *UpdateProfileParams) (Member, error) {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		params.Name = &name
	}

	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Name, validation.NilOrNotEmpty, validation.RuneLength(1, maxNameLength)),
	); err != nil {
		return Member{}, validationError(err)
	}

	r, m, err := s.lockMember(params.RoomId, params.ConnectionId)
	if err != nil {
		return Member{}, err
	}
	defer r.mu.Unlock()

	if params.Name != nil {
		m.displayName = *params.Name
	}
	if params.IsMuted != nil {
		m.isMuted = *params.IsMuted
	}

	updated := r.toMember(m)
	s.broadcast(ctx, r, EventUserUpdated, updated)

	return updated, nil
}

type UpdateMuteStatusParams struct {
	RoomId       string
	ConnectionId string
	IsMuted      bool
}

func (s *service) UpdateMuteStatus(ctx context.Context, params *UpdateMuteStatusParams) (Member, error) {
	return s.UpdateProfile(ctx, &UpdateProfileParams{
		RoomId:       params.RoomId,
		ConnectionId: params.ConnectionId,
		IsMuted:      &params.IsMuted,
	})
}

// acquireRoom returns the live room for roomId with its lock held, creating it
// if needed. A room closed between lookup and lock is skipped.
func (s *service) acquireRoom(roomId string) *room {
	for {
		r := s.registry.getOrCreate(roomId)
		r.mu.Lock()
		if !r.closed {
			return r
		}
		r.mu.Unlock()
	}
}

// lockMember returns the room with its lock held and the member connectionId
// holds in it.
func (s *service) lockMember(roomId, connectionId string) (*room, *member, error) {
	r := s.registry.get(roomId)
	if r == nil {
		return nil, nil, ErrNotInRoom
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, nil, ErrNotInRoom
	}

	m, ok := r.getMember(connectionId)
	if !ok {
		r.mu.Unlock()
		return nil, nil, ErrNotInRoom
	}

	return r, m, nil
}

func (s *service) roomState(r *room, m *member) (RoomState, error) {
	token, err := s.generateJWT(r.id, m.displayName)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to generate jwt: %w", err)
	}

	state := r.snapshot(s.now())
	state.Self = m.connectionId
	state.Token = token

	return state, nil
}

// removeMember drops connectionId from r, hands host over if needed and
// destroys r once it is empty. The caller must hold r.mu.
func (s *service) removeMember(ctx context.Context, r *room, connectionId string) {
	i := r.memberIndex(connectionId)
	if i < 0 {
		return
	}

	m := r.members[i]
	wasHost := r.isHost(connectionId)
	left := r.toMember(m)
	r.members = append(r.members[:i], r.members[i+1:]...)
	s.clearMembership(connectionId, r.id)

	if len(r.members) == 0 {
		r.hostId = ""
		r.stopHostSync()
		s.registry.removeIfEmpty(r.id, r)
		s.logger.InfoContext(ctx, "room destroyed", "room_id", r.id)
		return
	}

	s.broadcast(ctx, r, EventUserLeft, left)
	s.broadcast(ctx, r, EventReceiveMessage, s.systemMessage(fmt.Sprintf("%s left the room", m.displayName)))

	if wasHost {
		s.handOffHost(ctx, r)
	}

	s.logger.InfoContext(ctx, "member left", "room_id", r.id, "connection_id", connectionId, "members", len(r.members))
}

// handOffHost promotes the earliest joined member. The caller must hold r.mu.
func (s *service) handOffHost(ctx context.Context, r *room) {
	next := r.members[0]
	r.hostId = next.connectionId
	s.startHostSync(r)

	s.send(ctx, next.connectionId, EventHostAssigned, HostAssigned{
		Message: "You are now the host",
	})

	users := r.memberList()
	host := r.hostId
	s.broadcast(ctx, r, EventRoomStateUpdate, roomStateUpdate(&users, &host, nil))
	s.broadcast(ctx, r, EventReceiveMessage, s.systemMessage(fmt.Sprintf("%s is now the host", next.displayName)))
}
