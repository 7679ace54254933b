package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/togethertime/server/internal/repository/connection"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// wsConn owns the write side of a websocket. Send only enqueues; a single
// writeLoop goroutine performs every write.
type wsConn struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	// ctx carries the connection's log attributes.
	ctx    context.Context
	logger *slog.Logger
}

func newWSConn(ctx context.Context, conn *websocket.Conn, logger *slog.Logger) *wsConn {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &wsConn{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		ctx:    ctx,
		logger: logger,
	}
}

// Send enqueues one envelope without blocking. A connection whose queue is
// full is closed.
func (c *wsConn) Send(msgType string, payload any) error {
	data, err := json.Marshal(Output{
		Type:    msgType,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	select {
	case <-c.done:
		return connection.ErrClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.WarnContext(c.ctx, "send queue full, closing connection")
		c.Close()
		return connection.ErrClosed
	}
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	return nil
}

func (c *wsConn) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.DebugContext(ctx, "failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(ctx, "failed to write ping", "error", err)
				return
			}
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			return
		case <-ctx.Done():
			return
		}
	}
}
