package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/togethertime/server/internal/repository/connection"
	"github.com/togethertime/server/pkg/ctxlogger"
)

func TestWSConn_QueueFullLogsConnectionId(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ctxlogger.ContextHandler{Handler: slog.NewJSONHandler(&buf, nil)})
	ctx := ctxlogger.AppendCtx(context.Background(), slog.String("connection_id", "c1"))

	ws := &wsConn{
		send:   make(chan []byte),
		done:   make(chan struct{}),
		ctx:    ctx,
		logger: logger,
	}

	err := ws.Send("room-state", map[string]any{})
	assert.ErrorIs(t, err, connection.ErrClosed)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "send queue full, closing connection", record["msg"])
	assert.Equal(t, "c1", record["connection_id"])

	select {
	case <-ws.done:
	default:
		t.Fatal("connection was not closed")
	}
}
