// Package ttclient is a Go client for the room sync protocol. A Client is one
// websocket connection; it is opened with Dial and released with Close.
package ttclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
)

var ErrClosed = errors.New("client closed")

type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type Handler func(payload json.RawMessage)

type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	handlersMu  sync.RWMutex
	handlers    map[string][]Handler
	anyHandlers []func(Event)

	connected      chan struct{}
	connectionId   string
	driftThreshold float64

	done      chan struct{}
	closeOnce sync.Once
	err       error
}

// Dial opens a connection and waits for the server to assign a connection id.
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	c := &Client{
		conn:      conn,
		handlers:  make(map[string][]Handler),
		connected: make(chan struct{}),
		done:      make(chan struct{}),
	}

	go c.readLoop()

	select {
	case <-c.connected:
		return c, nil
	case <-c.done:
		return nil, fmt.Errorf("connection closed before handshake: %w", c.err)
	case <-ctx.Done():
		c.Close()
		return nil, ctx.Err()
	}
}

// ConnectionId is the id the server assigned to this connection.
func (c *Client) ConnectionId() string {
	return c.connectionId
}

// DriftThreshold is the threshold the server suggested, or zero.
func (c *Client) DriftThreshold() float64 {
	return c.driftThreshold
}

// On registers h for every event of type eventType. Handlers run on the read
// goroutine in arrival order.
func (c *Client) On(eventType string, h Handler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()

	c.handlers[eventType] = append(c.handlers[eventType], h)
}

// OnAny registers h for every event.
func (c *Client) OnAny(h func(Event)) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()

	c.anyHandlers = append(c.anyHandlers, h)
}

// Emit sends one event.
func (c *Client) Emit(ctx context.Context, eventType string, payload any) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	data, err := json.Marshal(struct {
		Type    string `json:"type"`
		Payload any    `json:"payload"`
	}{eventType, payload})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err is the reason the connection ended. It is valid after Done is closed.
func (c *Client) Err() error {
	<-c.done
	return c.err
}

// Close sends a close frame and waits for the read loop to exit.
func (c *Client) Close() error {
	c.writeMu.Lock()
	err := c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	c.writeMu.Unlock()

	select {
	case <-c.done:
	case <-time.After(writeWait):
	}

	c.conn.Close()
	<-c.done

	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}

	return nil
}

func (c *Client) readLoop() {
	defer c.closeOnce.Do(func() {
		c.conn.Close()
		close(c.done)
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.err = err
			}
			return
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}

		if event.Type == EventConnected && c.connectionId == "" {
			var connected Connected
			if err := json.Unmarshal(event.Payload, &connected); err == nil {
				c.connectionId = connected.ConnectionId
				c.driftThreshold = connected.DriftThreshold
				close(c.connected)
			}
		}

		c.dispatch(event)
	}
}

func (c *Client) dispatch(event Event) {
	c.handlersMu.RLock()
	handlers := append([]Handler(nil), c.handlers[event.Type]...)
	anyHandlers := append(([]func(Event))(nil), c.anyHandlers...)
	c.handlersMu.RUnlock()

	for _, h := range anyHandlers {
		h(event)
	}
	for _, h := range handlers {
		h(event.Payload)
	}
}
