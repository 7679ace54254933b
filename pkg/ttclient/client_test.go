package ttclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEchoServer greets every connection and sends each received event back.
func newEchoServer(t *testing.T) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteJSON(map[string]any{
			"type":    EventConnected,
			"payload": Connected{ConnectionId: "conn-1"},
		}); err != nil {
			return
		}

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient_DialEmitClose(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, newEchoServer(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "conn-1", c.ConnectionId())

	var mu sync.Mutex
	var got []PositionUpdate
	var types []string
	received := make(chan struct{}, 1)

	c.OnAny(func(e Event) {
		mu.Lock()
		types = append(types, e.Type)
		mu.Unlock()
	})
	c.On(EventVideoSeek, func(payload json.RawMessage) {
		var p PositionUpdate
		assert.NoError(t, json.Unmarshal(payload, &p))
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
		received <- struct{}{}
	})

	require.NoError(t, c.Seek(ctx, "ABC123", 12.5))

	select {
	case <-received:
	case <-ctx.Done():
		t.Fatal("echo not received")
	}

	mu.Lock()
	assert.Equal(t, []PositionUpdate{{Timestamp: 12.5}}, got)
	assert.Equal(t, []string{EventVideoSeek}, types)
	mu.Unlock()

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Emit(ctx, EventPing, nil), ErrClosed)
}

func TestClient_FollowerAttached(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, newEchoServer(t), nil)
	require.NoError(t, err)
	defer c.Close()

	p := &lockedPlayer{fakePlayer: fakePlayer{position: 3, state: PlayerPaused}}
	NewFollower(p, DefaultDriftThreshold, slog.New(slog.NewTextHandler(io.Discard, nil))).Attach(c)

	// The echo server reflects the event, so the follower sees it as if the
	// server had broadcast it.
	require.NoError(t, c.Emit(ctx, EventHostSync, HostSync{CurrentTime: 30, IsPlaying: true}))

	assert.Eventually(t, func() bool {
		pos, _ := p.GetCurrentTime()
		state, _ := p.GetPlayerState()
		return pos == 30 && state == PlayerPlaying
	}, 2*time.Second, 10*time.Millisecond)
}

type lockedPlayer struct {
	mu sync.Mutex
	fakePlayer
}

func (p *lockedPlayer) SeekTo(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fakePlayer.SeekTo(seconds)
}

func (p *lockedPlayer) PlayVideo() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fakePlayer.PlayVideo()
}

func (p *lockedPlayer) PauseVideo() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fakePlayer.PauseVideo()
}

func (p *lockedPlayer) GetCurrentTime() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fakePlayer.GetCurrentTime()
}

func (p *lockedPlayer) GetPlayerState() (PlayerState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fakePlayer.GetPlayerState()
}
