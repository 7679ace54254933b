package room

// Outbound event names.
const (
	EventRoomState       = "room-state"
	EventRoomStateUpdate = "room-state-update"
	EventUserJoined      = "user-joined"
	EventUserLeft        = "user-left"
	EventUserUpdated     = "user-updated"
	EventHostAssigned    = "host-assigned"
	EventVideoPlay       = "video-play"
	EventVideoPause      = "video-pause"
	EventVideoSeek       = "video-seek"
	EventVideoChange     = "video-change"
	EventSyncResponse    = "sync-response"
	EventHostSync        = "host-sync"
	EventRoomLocked      = "room-locked"
	EventReceiveMessage  = "receive-message"
)
