package controller

import (
	"context"
	"fmt"

	"github.com/togethertime/server/internal/service/room"
	"github.com/togethertime/server/pkg/mediaurl"
)

type EmptyInput struct{}

func (c controller) handlePing(_ context.Context, _ EmptyInput) error {
	return nil
}

type JoinRoomInput struct {
	RoomId string `json:"roomId" validate:"required,max=64"`
	Name   string `json:"name" validate:"max=32"`
	// IsHost is accepted for compatibility and ignored; host status is
	// assigned by the server.
	IsHost  bool   `json:"isHost"`
	IsMuted bool   `json:"isMuted"`
	Token   string `json:"token"`
}

func (c controller) handleJoinRoom(ctx context.Context, input JoinRoomInput) error {
	if _, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		Name:         input.Name,
		IsMuted:      input.IsMuted,
		Token:        input.Token,
	}); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

type RoomInput struct {
	RoomId string `json:"roomId" validate:"required,max=64"`
}

func (c controller) handleLeaveRoom(ctx context.Context, input RoomInput) error {
	if err := c.roomService.LeaveRoom(ctx, &room.LeaveRoomParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
	}); err != nil {
		return fmt.Errorf("failed to leave room: %w", err)
	}

	return nil
}

type UpdateMuteStatusInput struct {
	RoomId  string `json:"roomId" validate:"required,max=64"`
	IsMuted bool   `json:"isMuted"`
}

func (c controller) handleUpdateMuteStatus(ctx context.Context, input UpdateMuteStatusInput) error {
	if _, err := c.roomService.UpdateMuteStatus(ctx, &room.UpdateMuteStatusParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		IsMuted:      input.IsMuted,
	}); err != nil {
		return fmt.Errorf("failed to update mute status: %w", err)
	}

	return nil
}

type UpdateProfileInput struct {
	RoomId  string  `json:"roomId" validate:"required,max=64"`
	Name    *string `json:"name" validate:"omitnil,max=32"`
	IsMuted *bool   `json:"isMuted"`
}

func (c controller) handleUpdateProfile(ctx context.Context, input UpdateProfileInput) error {
	if _, err := c.roomService.UpdateProfile(ctx, &room.UpdateProfileParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		Name:         input.Name,
		IsMuted:      input.IsMuted,
	}); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

type VideoChangeInput struct {
	RoomId   string            `json:"roomId" validate:"required,max=64"`
	VideoId  string            `json:"videoId" validate:"required"`
	Platform mediaurl.Platform `json:"platform" validate:"required,oneof=youtube vimeo file url"`
}

func (c controller) handleVideoChange(ctx context.Context, input VideoChangeInput) error {
	if _, err := c.roomService.SelectMedia(ctx, &room.SelectMediaParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		VideoId:      input.VideoId,
		Platform:     input.Platform,
	}); err != nil {
		return fmt.Errorf("failed to change video: %w", err)
	}

	return nil
}

type PlaybackInput struct {
	RoomId    string  `json:"roomId" validate:"required,max=64"`
	Timestamp float64 `json:"timestamp" validate:"gte=0"`
}

func (c controller) playbackParams(ctx context.Context, input PlaybackInput) *room.UpdatePlaybackParams {
	return &room.UpdatePlaybackParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		Timestamp:    input.Timestamp,
	}
}

func (c controller) handleVideoPlay(ctx context.Context, input PlaybackInput) error {
	if err := c.roomService.Play(ctx, c.playbackParams(ctx, input)); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	return nil
}

func (c controller) handleVideoPause(ctx context.Context, input PlaybackInput) error {
	if err := c.roomService.Pause(ctx, c.playbackParams(ctx, input)); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}

	return nil
}

func (c controller) handleVideoSeek(ctx context.Context, input PlaybackInput) error {
	if err := c.roomService.Seek(ctx, c.playbackParams(ctx, input)); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	return nil
}

type ToggleLockInput struct {
	RoomId   string `json:"roomId" validate:"required,max=64"`
	IsLocked bool   `json:"isLocked"`
}

func (c controller) handleToggleLock(ctx context.Context, input ToggleLockInput) error {
	if _, err := c.roomService.ToggleLock(ctx, &room.ToggleLockParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		IsLocked:     input.IsLocked,
	}); err != nil {
		return fmt.Errorf("failed to toggle lock: %w", err)
	}

	return nil
}

func (c controller) handleRequestSync(ctx context.Context, input RoomInput) error {
	if _, err := c.roomService.RequestSync(ctx, &room.RequestSyncParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
	}); err != nil {
		return fmt.Errorf("failed to request sync: %w", err)
	}

	return nil
}

type SyncTimeInput struct {
	RoomId      string  `json:"roomId" validate:"required,max=64"`
	CurrentTime float64 `json:"currentTime" validate:"gte=0"`
}

func (c controller) handleSyncTime(ctx context.Context, input SyncTimeInput) error {
	if err := c.roomService.SyncTime(ctx, &room.SyncTimeParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		CurrentTime:  input.CurrentTime,
	}); err != nil {
		return fmt.Errorf("failed to sync time: %w", err)
	}

	return nil
}

type HostSyncInput struct {
	RoomId      string  `json:"roomId" validate:"required,max=64"`
	CurrentTime float64 `json:"currentTime" validate:"gte=0"`
	IsPlaying   bool    `json:"isPlaying"`
}

func (c controller) handleHostSync(ctx context.Context, input HostSyncInput) error {
	if err := c.roomService.HostSync(ctx, &room.HostSyncParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		CurrentTime:  input.CurrentTime,
		IsPlaying:    input.IsPlaying,
	}); err != nil {
		return fmt.Errorf("failed to host sync: %w", err)
	}

	return nil
}

type SendMessageInput struct {
	RoomId    string `json:"roomId" validate:"required,max=64"`
	Id        string `json:"id" validate:"max=128"`
	Text      string `json:"text" validate:"required"`
	Timestamp *int64 `json:"timestamp"`
}

func (c controller) handleSendMessage(ctx context.Context, input SendMessageInput) error {
	if _, err := c.roomService.SendMessage(ctx, &room.SendMessageParams{
		RoomId:       input.RoomId,
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		Id:           input.Id,
		Text:         input.Text,
		Timestamp:    input.Timestamp,
	}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
