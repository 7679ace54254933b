package controller

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/togethertime/server/internal/service/room"
	"github.com/togethertime/server/pkg/mediainfo"
	"github.com/togethertime/server/pkg/mediaurl"
	"github.com/togethertime/server/pkg/validator"
	"github.com/togethertime/server/pkg/wsrouter"
)

type iRoomService interface {
	ConnectMember(context.Context, *room.ConnectMemberParams) error
	DisconnectMember(context.Context, *room.DisconnectMemberParams) error
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	LeaveRoom(context.Context, *room.LeaveRoomParams) error
	UpdateProfile(context.Context, *room.UpdateProfileParams) (room.Member, error)
	UpdateMuteStatus(context.Context, *room.UpdateMuteStatusParams) (room.Member, error)
	SelectMedia(context.Context, *room.SelectMediaParams) (room.Media, error)
	Play(context.Context, *room.UpdatePlaybackParams) error
	Pause(context.Context, *room.UpdatePlaybackParams) error
	Seek(context.Context, *room.UpdatePlaybackParams) error
	ToggleLock(context.Context, *room.ToggleLockParams) (room.ToggleLockResponse, error)
	RequestSync(context.Context, *room.RequestSyncParams) (room.SyncResponse, error)
	SyncTime(context.Context, *room.SyncTimeParams) error
	HostSync(context.Context, *room.HostSyncParams) error
	SendMessage(context.Context, *room.SendMessageParams) (room.SendMessageResponse, error)
	RoomsCount() int
}

type iMediaInfo interface {
	Get(context.Context, mediaurl.Platform, string) (*mediainfo.VideoData, error)
}

type iRoomIdGenerator interface {
	RoomId() (string, error)
}

type Config struct {
	// PublicURL is the origin invite links are built on.
	PublicURL string
	// DriftThreshold is advertised to clients in the connected event.
	DriftThreshold float64
}

type controller struct {
	roomService    iRoomService
	mediaInfo      iMediaInfo
	roomIds        iRoomIdGenerator
	upgrader       websocket.Upgrader
	wsRouter       *wsrouter.WSRouter
	validate       *validator.Validator
	publicURL      string
	driftThreshold float64
	logger         *slog.Logger

	closing   chan struct{}
	closeOnce *sync.Once
}

func NewController(roomService iRoomService, mediaInfo iMediaInfo, roomIds iRoomIdGenerator, cfg *Config, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService:    roomService,
		mediaInfo:      mediaInfo,
		roomIds:        roomIds,
		validate:       validator.NewValidator(),
		publicURL:      cfg.PublicURL,
		driftThreshold: cfg.DriftThreshold,
		logger:         logger,
		closing:        make(chan struct{}),
		closeOnce:      &sync.Once{},
	}
	c.wsRouter = c.getWSRouter()

	return c
}

// Shutdown closes every open websocket. http.Server.Shutdown does not track
// hijacked connections, so it is registered with RegisterOnShutdown.
func (c controller) Shutdown() {
	c.closeOnce.Do(func() {
		close(c.closing)
	})
}
