package room

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/togethertime/server/internal/repository/connection"
)

type iConnRepo interface {
	Add(string, connection.Conn) error
	Remove(string) (connection.Conn, error)
	GetConn(string) (connection.Conn, error)
}

// iDedupRepo is keyed by room session id so a recreated room starts with no
// seen messages.
type iDedupRepo interface {
	MarkSeen(ctx context.Context, sessionId, messageId string) (bool, error)
}

type service struct {
	registry     *registry
	connRepo     iConnRepo
	dedupRepo    iDedupRepo
	membersLimit int
	syncInterval time.Duration
	secret       []byte
	tokenTTL     time.Duration
	logger       *slog.Logger
	now          func() time.Time

	// memberships maps a connection id to the single room it is in.
	membershipsMu sync.Mutex
	memberships   map[string]string

	syncWg sync.WaitGroup
	// closing stops new host-sync tickers once Close has begun.
	closing atomic.Bool
}

type Config struct {
	// MembersLimit caps the roster of a room. Zero means unlimited.
	MembersLimit int
	// SyncInterval is the period of the host-sync broadcast. Zero disables the ticker.
	SyncInterval time.Duration
	Secret       string
	TokenTTL     time.Duration
}

func NewService(connRepo iConnRepo, dedupRepo iDedupRepo, cfg *Config, logger *slog.Logger) *service {
	tokenTTL := cfg.TokenTTL
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour
	}

	return &service{
		registry:     newRegistry(),
		connRepo:     connRepo,
		dedupRepo:    dedupRepo,
		membersLimit: cfg.MembersLimit,
		syncInterval: cfg.SyncInterval,
		secret:       []byte(cfg.Secret),
		tokenTTL:     tokenTTL,
		logger:       logger,
		now:          time.Now,
		memberships:  make(map[string]string),
	}
}

// RoomsCount returns the number of live rooms.
func (s *service) RoomsCount() int {
	return s.registry.count()
}

// Close stops every host-sync ticker and waits for them to exit. Tickers are
// not restarted afterwards, even by handoffs of connections still draining.
func (s *service) Close() {
	s.closing.Store(true)

	for _, r := range s.registry.all() {
		r.mu.Lock()
		r.stopHostSync()
		r.mu.Unlock()
	}

	s.syncWg.Wait()
}

func (s *service) setMembership(connectionId, roomId string) {
	s.membershipsMu.Lock()
	defer s.membershipsMu.Unlock()

	s.memberships[connectionId] = roomId
}

func (s *service) clearMembership(connectionId, roomId string) {
	s.membershipsMu.Lock()
	defer s.membershipsMu.Unlock()

	if s.memberships[connectionId] == roomId {
		delete(s.memberships, connectionId)
	}
}

func (s *service) getMembership(connectionId string) (string, bool) {
	s.membershipsMu.Lock()
	defer s.membershipsMu.Unlock()

	roomId, ok := s.memberships[connectionId]
	return roomId, ok
}
