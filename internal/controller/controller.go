package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vrtravel/server/internal/repository/catalog"
	"github.com/vrtravel/server/internal/repository/connection/inmemory"
	"github.com/vrtravel/server/internal/service/room"
	"github.com/vrtravel/server/pkg/randstr"
	"github.com/vrtravel/server/pkg/validator"
	"github.com/vrtravel/server/pkg/wsrouter"
)

type iRoomService interface {
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	LeaveRoom(context.Context, *room.LeaveRoomParams) (room.LeaveRoomResponse, error)
	UpdateSyncState(context.Context, *room.UpdateSyncStateParams) (room.UpdateSyncStateResponse, error)
	RelayChat(context.Context, *room.RelayChatParams) (room.RelayChatResponse, error)
	MemberCount(roomId string) int
}

type CatalogRepo interface {
	SetRoom(context.Context, *catalog.RoomRecord) error
	GetRoom(context.Context, string) (catalog.RoomRecord, error)
	GetRooms(context.Context) ([]catalog.RoomRecord, error)
	GetVideo(context.Context, string) (catalog.VideoRecord, error)
	GetVideos(context.Context) ([]catalog.VideoRecord, error)
}

type Config struct {
	HandshakeTimeout time.Duration
}

type controller struct {
	roomService iRoomService
	catalogRepo CatalogRepo
	connRepo    *inmemory.Repo
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	generator   *randstr.Generator
	logger      *slog.Logger
	wsmux       *wsrouter.WSRouter

	handshakeTimeout time.Duration
}

func NewController(roomService iRoomService, catalogRepo CatalogRepo, connRepo *inmemory.Repo, cfg *Config, logger *slog.Logger) *controller {
	letterBytes := []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

	c := &controller{
		roomService: roomService,
		catalogRepo: catalogRepo,
		connRepo:    connRepo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:         validator.NewValidator(),
		generator:        randstr.New(letterBytes),
		logger:           logger,
		handshakeTimeout: cfg.HandshakeTimeout,
	}
	c.wsmux = c.getWSRouter()

	return c
}
