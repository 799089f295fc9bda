// Package wsrouter multiplexes typed JSON frames read from a websocket
// connection onto registered handlers. Frames are flat objects carrying a
// "type" discriminator; the raw frame is handed to the handler so it can
// decode the full shape itself.
package wsrouter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error

type Middleware func(next HandlerFunc) HandlerFunc

type WSRouter struct {
	routes      map[string]HandlerFunc
	middlewares []Middleware

	// OnDropped is called for frames that fail to parse or carry an
	// unregistered type. Such frames are dropped, never fatal.
	OnDropped func(ctx context.Context, raw []byte, err error)
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Use(mw Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// ServeConn reads frames until the connection fails or the context is
// cancelled. Handler errors and undecodable frames are reported through
// OnDropped and do not stop the loop.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			r.dropped(ctx, data, fmt.Errorf("failed to parse frame: %w", err))
			continue
		}

		handler, ok := r.routes[env.Type]
		if !ok {
			r.dropped(ctx, data, fmt.Errorf("no handler for message type %q", env.Type))
			continue
		}

		for i := len(r.middlewares) - 1; i >= 0; i-- {
			handler = r.middlewares[i](handler)
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, env.Type)
		if err := handler(msgCtx, conn, data); err != nil {
			r.dropped(msgCtx, data, err)
		}
	}
}

func (r *WSRouter) dropped(ctx context.Context, raw []byte, err error) {
	if r.OnDropped != nil {
		r.OnDropped(ctx, raw, err)
	}
}
