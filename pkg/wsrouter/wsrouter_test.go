package wsrouter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seekInput struct {
	RoomId    string  `json:"roomId"`
	Timestamp float64 `json:"timestamp"`
}

func TestDispatch(t *testing.T) {
	r := New()

	var got seekInput
	var gotType string
	Handle(r, "video-seek", func(ctx context.Context, input seekInput) error {
		got = input
		gotType = GetMessageTypeFromCtx(ctx)
		return nil
	})

	err := r.Dispatch(context.Background(), []byte(`{"type":"video-seek","payload":{"roomId":"ABC123","timestamp":42.5}}`))
	require.NoError(t, err)
	assert.Equal(t, seekInput{RoomId: "ABC123", Timestamp: 42.5}, got)
	assert.Equal(t, "video-seek", gotType)
}

func TestDispatchErrors(t *testing.T) {
	r := New()
	Handle(r, "video-seek", func(ctx context.Context, input seekInput) error {
		return nil
	})

	err := r.Dispatch(context.Background(), []byte(`{"type":"nope"}`))
	assert.ErrorIs(t, err, ErrUnknownMessageType)

	err = r.Dispatch(context.Background(), []byte(`{"type":"video-seek","payload":{"timestamp":"soon"}}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	err = r.Dispatch(context.Background(), []byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestMiddlewareOrder(t *testing.T) {
	r := New()

	var calls []string
	mw := func(name string) Middleware {
		return func(next HandlerFunc[json.RawMessage]) HandlerFunc[json.RawMessage] {
			return func(ctx context.Context, payload json.RawMessage) error {
				calls = append(calls, name)
				return next(ctx, payload)
			}
		}
	}
	r.Use(mw("first"), mw("second"))
	Handle(r, "ping", func(ctx context.Context, _ struct{}) error {
		calls = append(calls, "handler")
		return nil
	})

	require.NoError(t, r.Dispatch(context.Background(), []byte(`{"type":"ping"}`)))
	assert.Equal(t, []string{"first", "second", "handler"}, calls)
}

func TestDispatchUnknownTypeKeepsMessageType(t *testing.T) {
	r := New()

	ctx, err := r.dispatch(context.Background(), []byte(`{"type":"nope"}`))
	assert.ErrorIs(t, err, ErrUnknownMessageType)
	assert.Equal(t, "nope", GetMessageTypeFromCtx(ctx))
}
