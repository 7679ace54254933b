package room

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type SendMessageParams struct {
	RoomId       string
	ConnectionId string
	// Id is the client generated message id. One is generated when empty.
	Id   string
	Text string
	// Timestamp is in unix milliseconds. Server time is used when nil.
	Timestamp *int64
}

type SendMessageResponse struct {
	Message ChatMessage
	// Duplicate is true when the id was already relayed and nothing was sent.
	Duplicate bool
}

func (s *service) SendMessage(ctx context.Context, params *SendMessageParams) (SendMessageResponse, error) {
	params.Text = strings.TrimSpace(params.Text)
	params.Id = strings.TrimSpace(params.Id)
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Id, MessageIdRule...),
		validation.Field(&params.Text, MessageTextRule...),
	); err != nil {
		return SendMessageResponse{}, validationError(err)
	}

	r, m, err := s.lockMember(params.RoomId, params.ConnectionId)
	if err != nil {
		return SendMessageResponse{}, err
	}
	defer r.mu.Unlock()

	now := s.now()
	msg := ChatMessage{
		Id:        params.Id,
		UserId:    m.connectionId,
		UserName:  m.displayName,
		Text:      params.Text,
		Timestamp: now.UnixMilli(),
	}
	if msg.Id == "" {
		msg.Id = uuid.NewString()
	}
	if params.Timestamp != nil {
		msg.Timestamp = *params.Timestamp
	}

	first, err := s.dedupRepo.MarkSeen(ctx, r.sessionId, msg.Id)
	if err != nil {
		return SendMessageResponse{}, fmt.Errorf("failed to mark message seen: %w", err)
	}

	if !first {
		s.logger.DebugContext(ctx, "dropped duplicate message", "room_id", r.id, "message_id", msg.Id)
		return SendMessageResponse{Message: msg, Duplicate: true}, nil
	}

	s.broadcast(ctx, r, EventReceiveMessage, msg, m.connectionId)

	return SendMessageResponse{Message: msg}, nil
}

func (s *service) systemMessage(text string) ChatMessage {
	return ChatMessage{
		Id:        uuid.NewString(),
		UserName:  "System",
		Text:      text,
		Timestamp: s.now().UnixMilli(),
		IsSystem:  true,
	}
}
