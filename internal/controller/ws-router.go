package controller

import (
	"context"

	"github.com/togethertime/server/pkg/wsrouter"
)

// Inbound event names.
const (
	eventJoinRoom         = "join-room"
	eventLeaveRoom        = "leave-room"
	eventSendMessage      = "send-message"
	eventToggleLock       = "toggle-lock"
	eventUpdateMuteStatus = "update-mute-status"
	eventUpdateProfile    = "update-profile"
	eventVideoPlay        = "video-play"
	eventVideoPause       = "video-pause"
	eventVideoSeek        = "video-seek"
	eventVideoChange      = "video-change"
	eventRequestSync      = "request-sync"
	eventSyncTime         = "sync-time"
	eventHostSync         = "host-sync"
	eventPing             = "ping"
)

// Outbound events owned by the gateway.
const (
	eventConnected = "connected"
	eventError     = "error"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdMw(), c.wsLoggerMw())
	mux.OnError(c.handleWSError)

	wsrouter.Handle(mux, eventPing, validated(c, c.handlePing))

	// membership
	wsrouter.Handle(mux, eventJoinRoom, validated(c, c.handleJoinRoom))
	wsrouter.Handle(mux, eventLeaveRoom, validated(c, c.handleLeaveRoom))
	wsrouter.Handle(mux, eventUpdateMuteStatus, validated(c, c.handleUpdateMuteStatus))
	wsrouter.Handle(mux, eventUpdateProfile, validated(c, c.handleUpdateProfile))

	// player
	wsrouter.Handle(mux, eventVideoChange, validated(c, c.handleVideoChange))
	wsrouter.Handle(mux, eventVideoPlay, validated(c, c.handleVideoPlay))
	wsrouter.Handle(mux, eventVideoPause, validated(c, c.handleVideoPause))
	wsrouter.Handle(mux, eventVideoSeek, validated(c, c.handleVideoSeek))
	wsrouter.Handle(mux, eventToggleLock, validated(c, c.handleToggleLock))

	// sync
	wsrouter.Handle(mux, eventRequestSync, validated(c, c.handleRequestSync))
	wsrouter.Handle(mux, eventSyncTime, validated(c, c.handleSyncTime))
	wsrouter.Handle(mux, eventHostSync, validated(c, c.handleHostSync))

	// chat
	wsrouter.Handle(mux, eventSendMessage, validated(c, c.handleSendMessage))

	return mux
}

// validated runs the struct tags of the decoded input before h.
func validated[T any](c controller, h wsrouter.HandlerFunc[T]) wsrouter.HandlerFunc[T] {
	return func(ctx context.Context, input T) error {
		if err := c.validate.Struct(input); err != nil {
			return err
		}

		return h(ctx, input)
	}
}
