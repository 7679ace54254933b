package room

import "sync"

// registry maps room ids to live rooms. It never holds its lock while
// acquiring a room lock; callers that destroy a room do so while holding
// that room's lock, so the order is always room -> registry.
type registry struct {
	mu    sync.Mutex
	rooms map[string]*room
}

func newRegistry() *registry {
	return &registry{
		rooms: make(map[string]*room),
	}
}

func (reg *registry) getOrCreate(roomId string) *room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[roomId]
	if !ok {
		r = newRoom(roomId)
		reg.rooms[roomId] = r
	}

	return r
}

func (reg *registry) get(roomId string) *room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return reg.rooms[roomId]
}

// removeIfEmpty deletes roomId if it still maps to r and r has no members.
// The caller must hold r.mu.
func (reg *registry) removeIfEmpty(roomId string, r *room) bool {
	if len(r.members) != 0 {
		return false
	}

	r.closed = true

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.rooms[roomId] != r {
		return false
	}

	delete(reg.rooms, roomId)
	return true
}

func (reg *registry) count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return len(reg.rooms)
}

func (reg *registry) all() []*room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rooms := make([]*room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}

	return rooms
}
