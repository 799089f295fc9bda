package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vrtravel/server/internal/protocol"
	"github.com/vrtravel/server/internal/repository/catalog"
	"github.com/vrtravel/server/internal/repository/connection/inmemory"
	"github.com/vrtravel/server/internal/service/room"
)

// serveWS upgrades the connection and runs the session. The first frame
// must be join-room and must arrive within the handshake timeout; the
// client treats the room-joined reply, not the raw upgrade, as a successful
// connect.
func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	join, err := c.readJoinHandshake(conn)
	if err != nil {
		c.logger.DebugContext(r.Context(), "handshake failed", "error", err)
		return
	}

	if err := c.checkCapacity(r.Context(), join.RoomId); err != nil {
		c.logger.InfoContext(r.Context(), "join rejected", "room_id", join.RoomId, "error", err)
		return
	}

	peer, err := c.connRepo.Add(conn, join.User.Id, join.RoomId)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to register connection", "error", err)
		return
	}

	joinResp, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		RoomId: join.RoomId,
		User:   join.User,
		Sender: peer,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to join room", "error", err)
		c.connRepo.Remove(peer)
		return
	}
	defer c.disconnect(r.Context(), peer)

	// snapshot goes to the joining connection only
	if err := c.writeToSender(r.Context(), peer, &protocol.RoomJoined{
		RoomId:       join.RoomId,
		Participants: joinResp.Participants,
		VideoState:   joinResp.VideoState,
		IsHost:       joinResp.IsHost,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write room-joined", "error", err)
		return
	}

	if err := c.broadcast(r.Context(), joinResp.Others, &protocol.UserJoined{
		User: joinResp.Joined,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to broadcast user-joined", "error", err)
		return
	}

	ctx := context.WithValue(r.Context(), roomIdCtxKey, join.RoomId)
	ctx = context.WithValue(ctx, memberIdCtxKey, join.User.Id)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "connection closed", "error", err)
	}
}

func (c controller) readJoinHandshake(conn *websocket.Conn) (*protocol.JoinRoom, error) {
	conn.SetReadDeadline(time.Now().Add(c.handshakeTimeout))
	defer conn.SetReadDeadline(time.Time{})

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg, err := protocol.Decode(data)
	if err != nil {
		return nil, err
	}

	join, ok := msg.(*protocol.JoinRoom)
	if !ok {
		return nil, errors.New("first frame must be join-room")
	}
	if join.RoomId == "" || join.User.Id == "" {
		return nil, errors.New("join-room is missing room or user id")
	}

	return join, nil
}

// checkCapacity enforces the catalog's participant limit for rooms that
// have a record. Ad-hoc rooms without one are unrestricted.
func (c controller) checkCapacity(ctx context.Context, roomId string) error {
	record, err := c.catalogRepo.GetRoom(ctx, roomId)
	if err != nil {
		if errors.Is(err, catalog.ErrRoomNotFound) {
			return nil
		}

		return err
	}

	if record.MaxParticipants > 0 && c.roomService.MemberCount(roomId) >= record.MaxParticipants {
		return room.ErrRoomFull
	}

	return nil
}

// disconnect treats any closed connection as an implicit leave of whatever
// room the connection was associated with.
func (c controller) disconnect(ctx context.Context, peer *inmemory.Peer) {
	defer c.connRepo.Remove(peer)

	leaveResp, err := c.roomService.LeaveRoom(ctx, &room.LeaveRoomParams{
		RoomId:   peer.RoomId(),
		MemberId: peer.MemberId(),
	})
	if err != nil {
		// already gone: explicit leave-room raced with the close
		if !errors.Is(err, room.ErrMemberNotFound) && !errors.Is(err, room.ErrRoomNotFound) {
			c.logger.WarnContext(ctx, "failed to leave room", "error", err)
		}
		return
	}

	if leaveResp.IsRoomDeleted {
		return
	}

	if err := c.broadcast(ctx, leaveResp.Others, &protocol.UserLeft{
		UserId: peer.MemberId(),
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to broadcast user-left", "error", err)
	}

	if leaveResp.NewHost != nil {
		if err := c.broadcast(ctx, leaveResp.Others, &protocol.HostChanged{
			HostId: leaveResp.NewHost.Id,
		}); err != nil {
			c.logger.WarnContext(ctx, "failed to broadcast host-changed", "error", err)
		}
	}
}

func (c controller) handleVideoSync(ctx context.Context, _ *websocket.Conn, raw json.RawMessage) error {
	msg, err := protocol.Decode(raw)
	if err != nil {
		return err
	}
	sync, ok := msg.(*protocol.VideoSync)
	if !ok {
		return protocol.ErrBadPayload
	}

	// connection identity is authoritative, not the frame's fields
	resp, err := c.roomService.UpdateSyncState(ctx, &room.UpdateSyncStateParams{
		RoomId:      c.getRoomIdFromCtx(ctx),
		SenderId:    c.getMemberIdFromCtx(ctx),
		Action:      sync.Action,
		IsPlaying:   sync.IsPlaying,
		CurrentTime: sync.CurrentTime,
	})
	if err != nil {
		if errors.Is(err, room.ErrNotHost) {
			c.logger.InfoContext(ctx, "dropping video-sync from non-host",
				"member_id", c.getMemberIdFromCtx(ctx),
			)
			return nil
		}

		return err
	}

	// relay the frame unmodified to every other member
	c.broadcastRaw(ctx, resp.Others, raw)

	return nil
}

func (c controller) handleChatMessage(ctx context.Context, _ *websocket.Conn, raw json.RawMessage) error {
	if _, err := protocol.Decode(raw); err != nil {
		return err
	}

	resp, err := c.roomService.RelayChat(ctx, &room.RelayChatParams{
		RoomId:   c.getRoomIdFromCtx(ctx),
		SenderId: c.getMemberIdFromCtx(ctx),
	})
	if err != nil {
		return err
	}

	c.broadcastRaw(ctx, resp.Others, raw)

	return nil
}

// handleLeaveRoom closes the connection; the read loop ends and the
// deferred disconnect performs the actual leave and broadcasts.
func (c controller) handleLeaveRoom(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	conn.Close()

	return nil
}
