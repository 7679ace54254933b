package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInvalidPayload     = errors.New("invalid payload")
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, payload T) error

type Middleware func(next HandlerFunc[json.RawMessage]) HandlerFunc[json.RawMessage]

// ErrorHandler receives every error returned by a handler. Returning a non-nil
// error from it stops ServeConn.
type ErrorHandler func(ctx context.Context, err error) error

type WSRouter struct {
	routes      map[string]HandlerFunc[json.RawMessage]
	middlewares []Middleware
	onError     ErrorHandler
}

func New() *WSRouter {
	return &WSRouter{
		routes: make(map[string]HandlerFunc[json.RawMessage]),
		onError: func(_ context.Context, err error) error {
			return nil
		},
	}
}

func (r *WSRouter) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *WSRouter) OnError(h ErrorHandler) {
	r.onError = h
}

// Handle registers h for messageType. The payload is decoded into T before h is called.
func Handle[T any](r *WSRouter, messageType string, h HandlerFunc[T]) {
	r.routes[messageType] = func(ctx context.Context, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 && string(payload) != "null" {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			}
		}

		return h(ctx, input)
	}
}

func (r *WSRouter) Routes() []string {
	routes := make([]string, 0, len(r.routes))
	for route := range r.routes {
		routes = append(routes, route)
	}

	return routes
}

// Dispatch routes a single raw envelope.
func (r *WSRouter) Dispatch(ctx context.Context, data []byte) error {
	_, err := r.dispatch(ctx, data)
	return err
}

// dispatch returns the context the handler ran with so errors can be reported
// against the message type.
func (r *WSRouter) dispatch(ctx context.Context, data []byte) (context.Context, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return ctx, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	ctx = context.WithValue(ctx, messageTypeKey, msg.Type)

	handler, exists := r.routes[msg.Type]
	if !exists {
		return ctx, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}

	return ctx, handler(ctx, msg.Payload)
}

// ServeConn reads messages from conn until it fails or ctx is done.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if messageType != websocket.TextMessage {
			continue
		}

		if msgCtx, err := r.dispatch(ctx, data); err != nil {
			if err := r.onError(msgCtx, err); err != nil {
				return err
			}
		}
	}
}
