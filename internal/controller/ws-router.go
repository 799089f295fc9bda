package controller

import (
	"context"

	"github.com/vrtravel/server/internal/protocol"
	"github.com/vrtravel/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIdMw())

	mux.Handle(protocol.TypeVideoSync, c.handleVideoSync)
	mux.Handle(protocol.TypeChatMessage, c.handleChatMessage)
	mux.Handle(protocol.TypeLeaveRoom, c.handleLeaveRoom)

	// malformed or unknown frames are dropped, never fatal
	mux.OnDropped = func(ctx context.Context, raw []byte, err error) {
		c.logger.WarnContext(ctx, "dropping frame",
			"message_type", wsrouter.GetMessageTypeFromCtx(ctx),
			"error", err,
		)
	}

	return mux
}
