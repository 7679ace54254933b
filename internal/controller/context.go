package controller

import "context"

type contextKey int

const (
	connectionIdCtxKey contextKey = iota
	connCtxKey
)

func (c controller) getConnectionIdFromCtx(ctx context.Context) string {
	connectionId, ok := ctx.Value(connectionIdCtxKey).(string)
	if !ok {
		return ""
	}

	return connectionId
}

func (c controller) getConnFromCtx(ctx context.Context) *wsConn {
	conn, ok := ctx.Value(connCtxKey).(*wsConn)
	if !ok {
		return nil
	}

	return conn
}
