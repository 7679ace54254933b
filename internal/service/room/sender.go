package room

import (
	"context"
	"slices"
)

// send enqueues one event for connectionId. Delivery is best effort: a missing
// or saturated connection is logged and skipped, its own read loop reports the
// disconnect.
func (s *service) send(ctx context.Context, connectionId, msgType string, payload any) {
	conn, err := s.connRepo.GetConn(connectionId)
	if err != nil {
		s.logger.DebugContext(ctx, "failed to get conn", "connection_id", connectionId, "error", err)
		return
	}

	if err := conn.Send(msgType, payload); err != nil {
		s.logger.InfoContext(ctx, "failed to send message", "connection_id", connectionId, "type", msgType, "error", err)
	}
}

// broadcast enqueues one event for every member of r except the excluded ids.
// The caller must hold r.mu.
func (s *service) broadcast(ctx context.Context, r *room, msgType string, payload any, exclude ...string) {
	for _, m := range r.members {
		if slices.Contains(exclude, m.connectionId) {
			continue
		}

		s.send(ctx, m.connectionId, msgType, payload)
	}
}
