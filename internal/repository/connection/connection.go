package connection

import "errors"

var (
	ErrNotFound      = errors.New("connection not found")
	ErrAlreadyExists = errors.New("connection already exists")
	ErrClosed        = errors.New("connection closed")
)

// Conn is the outbound half of a client connection. Send must not block.
type Conn interface {
	Send(msgType string, payload any) error
	Close() error
}
