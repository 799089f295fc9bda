package controller

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/vrtravel/server/pkg/ctxlogger"
	"github.com/vrtravel/server/pkg/wsrouter"
)

func (c controller) wsRequestIdMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
			ctx = ctxlogger.AppendCtx(ctx,
				slog.String("ws_request_id", c.generateTimeBasedId()),
				slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)),
			)

			return next(ctx, conn, raw)
		}
	}
}
