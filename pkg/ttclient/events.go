package ttclient

import "context"

// Event names.
const (
	EventConnected        = "connected"
	EventError            = "error"
	EventJoinRoom         = "join-room"
	EventLeaveRoom        = "leave-room"
	EventRoomState        = "room-state"
	EventRoomStateUpdate  = "room-state-update"
	EventUserJoined       = "user-joined"
	EventUserLeft         = "user-left"
	EventUserUpdated      = "user-updated"
	EventHostAssigned     = "host-assigned"
	EventVideoPlay        = "video-play"
	EventVideoPause       = "video-pause"
	EventVideoSeek        = "video-seek"
	EventVideoChange      = "video-change"
	EventRequestSync      = "request-sync"
	EventSyncResponse     = "sync-response"
	EventSyncTime         = "sync-time"
	EventHostSync         = "host-sync"
	EventToggleLock       = "toggle-lock"
	EventRoomLocked       = "room-locked"
	EventSendMessage      = "send-message"
	EventReceiveMessage   = "receive-message"
	EventUpdateMuteStatus = "update-mute-status"
	EventUpdateProfile    = "update-profile"
	EventPing             = "ping"
)

type Connected struct {
	ConnectionId   string  `json:"connectionId"`
	// DriftThreshold is the server suggested threshold for a Follower.
	DriftThreshold float64 `json:"driftThreshold"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Event   string `json:"event,omitempty"`
}

type Member struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	IsHost  bool   `json:"isHost"`
	IsMuted bool   `json:"isMuted"`
}

type RoomState struct {
	RoomId      string   `json:"roomId"`
	VideoId     string   `json:"videoId"`
	Platform    string   `json:"platform"`
	IsPlaying   bool     `json:"isPlaying"`
	IsLocked    bool     `json:"isLocked"`
	CurrentTime float64  `json:"currentTime"`
	Host        string   `json:"host"`
	Users       []Member `json:"users"`
	Self        string   `json:"self"`
	Token       string   `json:"token,omitempty"`
}

// RoomStateUpdate is partial; nil fields were not part of the update.
type RoomStateUpdate struct {
	Users    []Member `json:"users,omitempty"`
	Host     *string  `json:"host,omitempty"`
	IsLocked *bool    `json:"isLocked,omitempty"`
}

type HostAssigned struct {
	Message string `json:"message"`
}

type Media struct {
	VideoId  string `json:"videoId"`
	Platform string `json:"platform"`
}

type PositionUpdate struct {
	Timestamp float64 `json:"timestamp"`
}

type SyncResponse struct {
	VideoId     string  `json:"videoId"`
	Platform    string  `json:"platform"`
	IsPlaying   bool    `json:"isPlaying"`
	IsLocked    bool    `json:"isLocked"`
	CurrentTime float64 `json:"currentTime"`
}

type HostSync struct {
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
}

type ChatMessage struct {
	Id        string `json:"id"`
	UserId    string `json:"userId,omitempty"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	IsSystem  bool   `json:"isSystem"`
}

type JoinRoom struct {
	RoomId  string `json:"roomId"`
	Name    string `json:"name,omitempty"`
	IsMuted bool   `json:"isMuted"`
	Token   string `json:"token,omitempty"`
}

type roomRef struct {
	RoomId string `json:"roomId"`
}

type playback struct {
	RoomId    string  `json:"roomId"`
	Timestamp float64 `json:"timestamp"`
}

func (c *Client) JoinRoom(ctx context.Context, join JoinRoom) error {
	return c.Emit(ctx, EventJoinRoom, join)
}

func (c *Client) LeaveRoom(ctx context.Context, roomId string) error {
	return c.Emit(ctx, EventLeaveRoom, roomRef{RoomId: roomId})
}

func (c *Client) Play(ctx context.Context, roomId string, at float64) error {
	return c.Emit(ctx, EventVideoPlay, playback{RoomId: roomId, Timestamp: at})
}

func (c *Client) Pause(ctx context.Context, roomId string, at float64) error {
	return c.Emit(ctx, EventVideoPause, playback{RoomId: roomId, Timestamp: at})
}

func (c *Client) Seek(ctx context.Context, roomId string, to float64) error {
	return c.Emit(ctx, EventVideoSeek, playback{RoomId: roomId, Timestamp: to})
}

func (c *Client) ChangeVideo(ctx context.Context, roomId string, media Media) error {
	return c.Emit(ctx, EventVideoChange, struct {
		RoomId string `json:"roomId"`
		Media
	}{roomId, media})
}

func (c *Client) RequestSync(ctx context.Context, roomId string) error {
	return c.Emit(ctx, EventRequestSync, roomRef{RoomId: roomId})
}

func (c *Client) SyncTime(ctx context.Context, roomId string, currentTime float64) error {
	return c.Emit(ctx, EventSyncTime, struct {
		RoomId      string  `json:"roomId"`
		CurrentTime float64 `json:"currentTime"`
	}{roomId, currentTime})
}

func (c *Client) HostSync(ctx context.Context, roomId string, sync HostSync) error {
	return c.Emit(ctx, EventHostSync, struct {
		RoomId string `json:"roomId"`
		HostSync
	}{roomId, sync})
}

func (c *Client) ToggleLock(ctx context.Context, roomId string, locked bool) error {
	return c.Emit(ctx, EventToggleLock, struct {
		RoomId   string `json:"roomId"`
		IsLocked bool   `json:"isLocked"`
	}{roomId, locked})
}

// SendMessage sends text under the client generated id. Resending the same id
// is delivered at most once.
func (c *Client) SendMessage(ctx context.Context, roomId, id, text string) error {
	return c.Emit(ctx, EventSendMessage, struct {
		RoomId string `json:"roomId"`
		Id     string `json:"id"`
		Text   string `json:"text"`
	}{roomId, id, text})
}

func (c *Client) UpdateMuteStatus(ctx context.Context, roomId string, muted bool) error {
	return c.Emit(ctx, EventUpdateMuteStatus, struct {
		RoomId  string `json:"roomId"`
		IsMuted bool   `json:"isMuted"`
	}{roomId, muted})
}

func (c *Client) UpdateProfile(ctx context.Context, roomId string, name *string, muted *bool) error {
	return c.Emit(ctx, EventUpdateProfile, struct {
		RoomId  string  `json:"roomId"`
		Name    *string `json:"name,omitempty"`
		IsMuted *bool   `json:"isMuted,omitempty"`
	}{roomId, name, muted})
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Emit(ctx, EventPing, nil)
}
