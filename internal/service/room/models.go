package room

import "github.com/togethertime/server/pkg/mediaurl"

type Media struct {
	VideoId  string            `json:"videoId"`
	Platform mediaurl.Platform `json:"platform"`
}

type Member struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	IsHost  bool   `json:"isHost"`
	IsMuted bool   `json:"isMuted"`
}

// RoomState is the full snapshot sent to a joining connection.
type RoomState struct {
	RoomId      string            `json:"roomId"`
	VideoId     string            `json:"videoId"`
	Platform    mediaurl.Platform `json:"platform"`
	IsPlaying   bool              `json:"isPlaying"`
	IsLocked    bool              `json:"isLocked"`
	CurrentTime float64           `json:"currentTime"`
	Host        string            `json:"host"`
	Users       []Member          `json:"users"`
	Self        string            `json:"self"`
	Token       string            `json:"token,omitempty"`
}

type SyncResponse struct {
	VideoId     string            `json:"videoId"`
	Platform    mediaurl.Platform `json:"platform"`
	IsPlaying   bool              `json:"isPlaying"`
	IsLocked    bool              `json:"isLocked"`
	CurrentTime float64           `json:"currentTime"`
}

type HostSync struct {
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
}

// PositionUpdate carries the authoritative position of a play, pause or seek.
type PositionUpdate struct {
	Timestamp float64 `json:"timestamp"`
}

type HostAssigned struct {
	Message string `json:"message"`
}

type ChatMessage struct {
	Id        string `json:"id"`
	UserId    string `json:"userId,omitempty"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	IsSystem  bool   `json:"isSystem"`
}
