package room

import "errors"

var (
	ErrRoomLocked   = errors.New("room is locked")
	ErrInvalidMedia = errors.New("invalid media reference")
	ErrNoMedia      = errors.New("no media selected")
	ErrNotInRoom    = errors.New("connection is not in the room")
	ErrRoomFull     = errors.New("room is full")
	ErrValidation   = errors.New("validation error")
	ErrInvalidToken = errors.New("invalid token")
)

// IsClientError reports whether err was caused by the request rather than the
// server.
func IsClientError(err error) bool {
	for _, target := range []error{ErrRoomLocked, ErrInvalidMedia, ErrNoMedia, ErrNotInRoom, ErrRoomFull, ErrValidation} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
