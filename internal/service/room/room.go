package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type State int

const (
	StateEmpty State = iota
	StateAwaitingMedia
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateAwaitingMedia:
		return "AWAITING_MEDIA"
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type member struct {
	connectionId string
	displayName  string
	isMuted      bool
	joinedAt     time.Time
}

type playback struct {
	isPlaying bool
	position  float64
	updatedAt time.Time
}

// positionAt extrapolates the playback position to now.
func (p playback) positionAt(now time.Time) float64 {
	if !p.isPlaying || p.updatedAt.IsZero() {
		return p.position
	}

	elapsed := now.Sub(p.updatedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	return p.position + elapsed
}

// room is the authoritative state of one room. Every field is guarded by mu.
type room struct {
	mu sync.Mutex

	id string
	// sessionId identifies this incarnation of the room. A room recreated
	// under the same id gets a new one.
	sessionId string
	hostId    string
	media    *Media
	playback playback
	locked   bool
	// members is kept in join order.
	members  []*member
	guestSeq int
	// closed is set once the room has been removed from the registry.
	closed bool

	syncDone chan struct{}
}

func newRoom(id string) *room {
	return &room{
		id:        id,
		sessionId: uuid.NewString(),
	}
}

func (r *room) state() State {
	switch {
	case len(r.members) == 0:
		return StateEmpty
	case r.media == nil:
		return StateAwaitingMedia
	case r.playback.isPlaying:
		return StatePlaying
	default:
		return StatePaused
	}
}

func (r *room) memberIndex(connectionId string) int {
	for i, m := range r.members {
		if m.connectionId == connectionId {
			return i
		}
	}

	return -1
}

func (r *room) getMember(connectionId string) (*member, bool) {
	i := r.memberIndex(connectionId)
	if i < 0 {
		return nil, false
	}

	return r.members[i], true
}

// isHost is always derived from hostId, never from anything the client asserted.
func (r *room) isHost(connectionId string) bool {
	return connectionId != "" && connectionId == r.hostId
}

func (r *room) toMember(m *member) Member {
	return Member{
		Id:      m.connectionId,
		Name:    m.displayName,
		IsHost:  r.isHost(m.connectionId),
		IsMuted: m.isMuted,
	}
}

func (r *room) memberList() []Member {
	members := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, r.toMember(m))
	}

	return members
}

func (r *room) mediaFields() (string, Media) {
	if r.media == nil {
		return "", Media{}
	}

	return r.media.VideoId, *r.media
}

func (r *room) snapshot(now time.Time) RoomState {
	videoId, media := r.mediaFields()
	return RoomState{
		RoomId:      r.id,
		VideoId:     videoId,
		Platform:    media.Platform,
		IsPlaying:   r.playback.isPlaying,
		IsLocked:    r.locked,
		CurrentTime: r.playback.positionAt(now),
		Host:        r.hostId,
		Users:       r.memberList(),
	}
}

func (r *room) syncResponse(now time.Time) SyncResponse {
	videoId, media := r.mediaFields()
	return SyncResponse{
		VideoId:     videoId,
		Platform:    media.Platform,
		IsPlaying:   r.playback.isPlaying,
		IsLocked:    r.locked,
		CurrentTime: r.playback.positionAt(now),
	}
}

func (r *room) hostSync(now time.Time) HostSync {
	return HostSync{
		CurrentTime: r.playback.positionAt(now),
		IsPlaying:   r.playback.isPlaying,
	}
}

func (r *room) stopHostSync() {
	if r.syncDone != nil {
		close(r.syncDone)
		r.syncDone = nil
	}
}
