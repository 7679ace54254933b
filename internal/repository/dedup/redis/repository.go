package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/togethertime/server/internal/repository/dedup"
)

type repo struct {
	rc     *redis.Client
	window time.Duration
}

func NewRepo(rc *redis.Client, cfg *dedup.Config) *repo {
	return &repo{
		rc:     rc,
		window: cfg.Window,
	}
}

func (r repo) getMessageKey(sessionId, messageId string) string {
	return "room-session:" + sessionId + ":message:" + messageId
}

// MarkSeen records messageId for the room session sessionId and reports whether it was new.
func (r repo) MarkSeen(ctx context.Context, sessionId, messageId string) (bool, error) {
	ok, err := r.rc.SetNX(ctx, r.getMessageKey(sessionId, messageId), 1, r.window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message seen: %w", err)
	}

	return ok, nil
}
