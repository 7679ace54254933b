package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/togethertime/server/internal/service/room"
	"github.com/togethertime/server/pkg/ctxlogger"
)

type ConnectedOutput struct {
	ConnectionId   string  `json:"connectionId"`
	DriftThreshold float64 `json:"driftThreshold"`
}

func (c controller) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	connectionId := uuid.NewString()
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	ctx = ctxlogger.AppendCtx(ctx, slog.String("connection_id", connectionId))
	ctx = context.WithValue(ctx, connectionIdCtxKey, connectionId)

	ws := newWSConn(ctx, conn, c.logger)
	ctx = context.WithValue(ctx, connCtxKey, ws)

	if err := c.roomService.ConnectMember(ctx, &room.ConnectMemberParams{
		ConnectionId: connectionId,
		Conn:         ws,
	}); err != nil {
		c.logger.ErrorContext(ctx, "failed to connect member", "error", err)
		conn.Close()
		return
	}

	go ws.writeLoop(ctx)
	go func() {
		select {
		case <-c.closing:
			ws.Close()
		case <-ctx.Done():
		}
	}()

	c.logger.InfoContext(ctx, "websocket connected")
	if err := ws.Send(eventConnected, ConnectedOutput{
		ConnectionId:   connectionId,
		DriftThreshold: c.driftThreshold,
	}); err != nil {
		c.logger.InfoContext(ctx, "failed to send connected", "error", err)
	}

	if err := c.wsRouter.ServeConn(ctx, conn); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, context.Canceled) {
			c.logger.InfoContext(ctx, "websocket closed unexpectedly", "error", err)
		}
	}

	if err := c.roomService.DisconnectMember(ctx, &room.DisconnectMemberParams{
		ConnectionId: connectionId,
	}); err != nil {
		c.logger.ErrorContext(ctx, "failed to disconnect member", "error", err)
	}

	c.logger.InfoContext(ctx, "websocket disconnected")
}
