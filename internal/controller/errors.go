package controller

import (
	"context"
	"errors"

	"github.com/togethertime/server/internal/service/room"
	"github.com/togethertime/server/pkg/validator"
	"github.com/togethertime/server/pkg/wsrouter"
)

const (
	codeRoomLocked   = "ROOM_LOCKED"
	codeInvalidURL   = "INVALID_URL"
	codeNoMedia      = "NO_MEDIA"
	codeNotInRoom    = "NOT_IN_ROOM"
	codeRoomFull     = "ROOM_FULL"
	codeValidation   = "VALIDATION_ERROR"
	codeUnknownEvent = "UNKNOWN_EVENT"
	codeInternal     = "INTERNAL_ERROR"
)

type ErrorOutput struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Event   string `json:"event,omitempty"`
}

func errorOutput(err error) ErrorOutput {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, room.ErrRoomLocked):
		return ErrorOutput{Code: codeRoomLocked, Message: "Room is locked by the host"}
	case errors.Is(err, room.ErrInvalidMedia):
		return ErrorOutput{Code: codeInvalidURL, Message: "Invalid video URL"}
	case errors.Is(err, room.ErrNoMedia):
		return ErrorOutput{Code: codeNoMedia, Message: "No video selected"}
	case errors.Is(err, room.ErrNotInRoom):
		return ErrorOutput{Code: codeNotInRoom, Message: "Not in this room"}
	case errors.Is(err, room.ErrRoomFull):
		return ErrorOutput{Code: codeRoomFull, Message: "Room is full"}
	case errors.As(err, &validationErrors):
		return ErrorOutput{Code: codeValidation, Message: validationErrors.Error()}
	case errors.Is(err, room.ErrValidation), errors.Is(err, wsrouter.ErrInvalidPayload):
		return ErrorOutput{Code: codeValidation, Message: err.Error()}
	case errors.Is(err, wsrouter.ErrUnknownMessageType):
		return ErrorOutput{Code: codeUnknownEvent, Message: "Unknown event"}
	default:
		return ErrorOutput{Code: codeInternal, Message: "Internal error"}
	}
}

// handleWSError reports err to the connection that caused it. It never ends
// the connection.
func (c controller) handleWSError(ctx context.Context, err error) error {
	output := errorOutput(err)
	output.Event = wsrouter.GetMessageTypeFromCtx(ctx)

	if output.Code == codeInternal {
		c.logger.ErrorContext(ctx, "failed to handle websocket message", "error", err)
	} else {
		c.logger.InfoContext(ctx, "rejected websocket message", "code", output.Code, "error", err)
	}

	conn := c.getConnFromCtx(ctx)
	if conn == nil {
		return nil
	}

	if err := conn.Send(eventError, output); err != nil {
		c.logger.DebugContext(ctx, "failed to send error", "error", err)
	}

	return nil
}
