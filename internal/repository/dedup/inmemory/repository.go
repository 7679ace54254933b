package inmemory

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/togethertime/server/internal/repository/dedup"
)

type repo struct {
	// expirable.LRU is safe for concurrent use but Get+Add must be atomic here.
	mu    sync.Mutex
	cache *expirable.LRU[string, struct{}]
}

func NewRepo(cfg *dedup.Config) *repo {
	return &repo{
		cache: expirable.NewLRU[string, struct{}](cfg.Size, nil, cfg.Window),
	}
}

func (r *repo) key(sessionId, messageId string) string {
	return sessionId + ":" + messageId
}

// MarkSeen records messageId for the room session sessionId and reports whether it was new.
func (r *repo) MarkSeen(_ context.Context, sessionId, messageId string) (bool, error) {
	key := r.key(sessionId, messageId)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cache.Get(key); ok {
		return false, nil
	}

	r.cache.Add(key, struct{}{})
	return true, nil
}
