// Package client implements the room sync client: it dials the server's
// websocket endpoint, performs the join handshake, keeps a local mirror of
// the room state, and recovers from connection loss by retrying with a
// growing delay before falling back to a local offline session.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vrtravel/server/internal/protocol"
)

var (
	ErrAlreadyConnected = errors.New("client already connected")
	ErrHandshakeFailed  = errors.New("join handshake failed")
)

const (
	defaultMaxReconnectAttempts = 5
	defaultReconnectBaseDelay   = time.Second
	defaultHandshakeTimeout     = 10 * time.Second
	defaultEventBuffer          = 64
)

type Config struct {
	URL       string
	RoomId    string
	UserId    string
	UserName  string
	AvatarURL string

	MaxReconnectAttempts int
	ReconnectBaseDelay   time.Duration
	HandshakeTimeout     time.Duration
	EventBuffer          int

	Logger *slog.Logger
}

// SyncClient mirrors one room membership. All exported methods are safe for
// concurrent use.
type SyncClient struct {
	cfg Config

	mu           sync.Mutex
	state        State
	conn         *websocket.Conn
	closed       bool
	participants map[string]protocol.Participant
	hostId       string
	videoState   protocol.SyncState

	writeMu sync.Mutex

	events chan Event
	logger *slog.Logger
}

func New(cfg Config) *SyncClient {
	if cfg.MaxReconnectAttempts == 0 {
		cfg.MaxReconnectAttempts = defaultMaxReconnectAttempts
	}
	if cfg.ReconnectBaseDelay == 0 {
		cfg.ReconnectBaseDelay = defaultReconnectBaseDelay
	}
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.EventBuffer == 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &SyncClient{
		cfg:          cfg,
		state:        StateDisconnected,
		participants: make(map[string]protocol.Participant),
		videoState:   protocol.DefaultSyncState(),
		events:       make(chan Event, cfg.EventBuffer),
		logger:       cfg.Logger,
	}
}

// Events delivers state notifications in arrival order. Slow consumers lose
// events once the buffer fills.
func (c *SyncClient) Events() <-chan Event {
	return c.events
}

func (c *SyncClient) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsHost reports whether local playback controls are unlocked. An offline
// session is always its own host.
func (c *SyncClient) IsHost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isHostLocked()
}

func (c *SyncClient) isHostLocked() bool {
	if c.state == StateOffline {
		return true
	}
	return c.hostId == c.cfg.UserId
}

// Participants returns a snapshot of the known room members.
func (c *SyncClient) Participants() []protocol.Participant {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]protocol.Participant, 0, len(c.participants))
	for _, p := range c.participants {
		out = append(out, p)
	}
	return out
}

func (c *SyncClient) VideoState() protocol.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.videoState
}

// Connect dials the server and blocks until the join handshake completes.
// Failed attempts are retried with a delay that grows with the attempt
// number; once the attempt budget is spent the client switches to a local
// offline session and Connect returns nil.
func (c *SyncClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.closed = false
	c.setStateLocked(StateConnecting)
	c.mu.Unlock()

	return c.connectLoop(ctx)
}

func (c *SyncClient) connectLoop(ctx context.Context) error {
	for attempt := 1; attempt <= c.cfg.MaxReconnectAttempts; attempt++ {
		if c.isClosed() {
			return nil
		}

		err := c.dialAndJoin(ctx)
		if err == nil {
			return nil
		}
		c.logger.WarnContext(ctx, "connection attempt failed",
			"attempt", attempt,
			"error", err,
		)

		if attempt == c.cfg.MaxReconnectAttempts {
			break
		}

		delay := c.cfg.ReconnectBaseDelay * time.Duration(attempt)
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.setStateLocked(StateDisconnected)
			c.mu.Unlock()
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	c.goOffline()
	return nil
}

func (c *SyncClient) dialAndJoin(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}

	join, err := protocol.Encode(&protocol.JoinRoom{
		RoomId: c.cfg.RoomId,
		User: protocol.User{
			Id:     c.cfg.UserId,
			Name:   c.cfg.UserName,
			Avatar: c.cfg.AvatarURL,
		},
	})
	if err != nil {
		conn.Close()
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		conn.Close()
		return fmt.Errorf("failed to send join: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.cfg.HandshakeTimeout))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}
	conn.SetReadDeadline(time.Time{})

	msg, err := protocol.Decode(frame)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}
	joined, ok := msg.(*protocol.RoomJoined)
	if !ok {
		conn.Close()
		return fmt.Errorf("%w: unexpected %s frame", ErrHandshakeFailed, msg.MessageType())
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.conn = conn
	c.setStateLocked(StateConnected)
	c.applySnapshotLocked(joined)
	c.mu.Unlock()

	c.emit(RoomJoined{
		RoomId:       joined.RoomId,
		Participants: joined.Participants,
		VideoState:   joined.VideoState,
		IsHost:       joined.IsHost,
	})

	go c.readLoop(conn)

	return nil
}

// applySnapshotLocked replaces the local room mirror with the server's
// authoritative view. Applying the same snapshot twice is a no-op.
func (c *SyncClient) applySnapshotLocked(joined *protocol.RoomJoined) {
	c.participants = make(map[string]protocol.Participant, len(joined.Participants))
	c.hostId = ""
	for _, p := range joined.Participants {
		c.participants[p.Id] = p
		if p.IsHost {
			c.hostId = p.Id
		}
	}
	if joined.IsHost {
		c.hostId = c.cfg.UserId
	}
	c.videoState = joined.VideoState
}

func (c *SyncClient) readLoop(conn *websocket.Conn) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			c.handleConnectionLost(conn)
			return
		}

		msg, err := protocol.Decode(frame)
		if err != nil {
			c.logger.Warn("dropping frame", "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *SyncClient) handleMessage(msg protocol.Message) {
	switch m := msg.(type) {
	case *protocol.RoomJoined:
		c.mu.Lock()
		c.applySnapshotLocked(m)
		c.mu.Unlock()
		c.emit(RoomJoined{
			RoomId:       m.RoomId,
			Participants: m.Participants,
			VideoState:   m.VideoState,
			IsHost:       m.IsHost,
		})
	case *protocol.UserJoined:
		c.mu.Lock()
		c.participants[m.User.Id] = m.User
		if m.User.IsHost {
			c.hostId = m.User.Id
		}
		c.mu.Unlock()
		c.emit(UserJoined{User: m.User})
	case *protocol.UserLeft:
		c.mu.Lock()
		delete(c.participants, m.UserId)
		c.mu.Unlock()
		c.emit(UserLeft{UserId: m.UserId})
	case *protocol.HostChanged:
		c.mu.Lock()
		c.hostId = m.HostId
		if p, ok := c.participants[m.HostId]; ok {
			p.IsHost = true
			c.participants[m.HostId] = p
		}
		isHost := m.HostId == c.cfg.UserId
		c.mu.Unlock()
		c.emit(HostChanged{HostId: m.HostId, IsHost: isHost})
	case *protocol.VideoSync:
		c.mu.Lock()
		c.videoState.CurrentTime = m.CurrentTime
		if m.Action == protocol.ActionPlayPause && m.IsPlaying != nil {
			c.videoState.IsPlaying = *m.IsPlaying
		}
		c.videoState.LastUpdate = time.Now().UnixMilli()
		state := c.videoState
		c.mu.Unlock()
		c.emit(SyncUpdated{State: state})
	case *protocol.ChatMessage:
		c.emit(ChatReceived{Message: ChatMessage{
			Id:         uuid.NewString(),
			AuthorId:   m.UserId,
			AuthorName: m.UserName,
			Body:       m.Message,
			Timestamp:  m.Timestamp,
			Kind:       ChatKindUser,
		}})
	default:
		c.logger.Warn("dropping frame", "message_type", msg.MessageType())
	}
}

func (c *SyncClient) handleConnectionLost(conn *websocket.Conn) {
	conn.Close()

	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	if c.closed {
		c.setStateLocked(StateDisconnected)
		c.mu.Unlock()
		return
	}
	c.setStateLocked(StateConnecting)
	c.mu.Unlock()

	go func() {
		if err := c.connectLoop(context.Background()); err != nil {
			c.logger.Warn("reconnect abandoned", "error", err)
		}
	}()
}

// goOffline converts the client into a local single-member session. The
// local user becomes host so playback controls stay usable.
func (c *SyncClient) goOffline() {
	c.mu.Lock()
	if c.closed {
		c.setStateLocked(StateDisconnected)
		c.mu.Unlock()
		return
	}
	self := protocol.Participant{
		Id:     c.cfg.UserId,
		Name:   c.cfg.UserName,
		Avatar: c.cfg.AvatarURL,
		IsHost: true,
	}
	c.participants = map[string]protocol.Participant{self.Id: self}
	c.hostId = self.Id
	state := c.videoState
	c.setStateLocked(StateOffline)
	c.mu.Unlock()

	c.emit(WentOffline{})
	c.emit(RoomJoined{
		RoomId:       c.cfg.RoomId,
		Participants: []protocol.Participant{self},
		VideoState:   state,
		IsHost:       true,
	})
	c.emit(ChatReceived{Message: ChatMessage{
		Id:        uuid.NewString(),
		Body:      "Connection lost. Playback continues in offline mode.",
		Timestamp: time.Now().UnixMilli(),
		Kind:      ChatKindSystem,
	}})
}

// Disconnect leaves the room and stops any reconnection. It is safe to call
// in any state.
func (c *SyncClient) Disconnect() {
	c.mu.Lock()
	if c.closed && c.conn == nil {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.setStateLocked(StateDisconnected)
	c.mu.Unlock()

	if conn != nil {
		if leave, err := protocol.Encode(&protocol.LeaveRoom{
			RoomId: c.cfg.RoomId,
			UserId: c.cfg.UserId,
		}); err == nil {
			c.writeMu.Lock()
			conn.WriteMessage(websocket.TextMessage, leave)
			c.writeMu.Unlock()
		}
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}
}

// SendPlayState reports a host play or pause intent. Dropped silently
// unless the client is connected.
func (c *SyncClient) SendPlayState(isPlaying bool, currentTime float64) {
	c.send(&protocol.VideoSync{
		Action:      protocol.ActionPlayPause,
		IsPlaying:   &isPlaying,
		CurrentTime: currentTime,
		UserId:      c.cfg.UserId,
		RoomId:      c.cfg.RoomId,
	})
}

// SendSeekState reports a host seek intent. Dropped silently unless the
// client is connected.
func (c *SyncClient) SendSeekState(currentTime float64) {
	c.send(&protocol.VideoSync{
		Action:      protocol.ActionSeek,
		CurrentTime: currentTime,
		UserId:      c.cfg.UserId,
		RoomId:      c.cfg.RoomId,
	})
}

// SendChatMessage relays a chat line to the room. The author's own entry is
// echoed locally since the server only fans out to the other members. In
// offline mode the entry stays local.
func (c *SyncClient) SendChatMessage(body string) {
	now := time.Now().UnixMilli()

	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	if state != StateConnected && state != StateOffline {
		return
	}

	if state == StateConnected {
		c.send(&protocol.ChatMessage{
			Message:   body,
			UserId:    c.cfg.UserId,
			UserName:  c.cfg.UserName,
			RoomId:    c.cfg.RoomId,
			Timestamp: now,
		})
	}

	c.emit(ChatReceived{Message: ChatMessage{
		Id:         uuid.NewString(),
		AuthorId:   c.cfg.UserId,
		AuthorName: c.cfg.UserName,
		Body:       body,
		Timestamp:  now,
		Kind:       ChatKindUser,
	}})
}

func (c *SyncClient) send(msg protocol.Message) {
	c.mu.Lock()
	conn := c.conn
	connected := c.state == StateConnected
	c.mu.Unlock()

	if !connected || conn == nil {
		return
	}

	data, err := protocol.Encode(msg)
	if err != nil {
		c.logger.Warn("failed to encode message", "error", err)
		return
	}

	c.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		c.logger.Warn("failed to send message", "error", err)
	}
}

func (c *SyncClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *SyncClient) setStateLocked(state State) {
	if c.state == state {
		return
	}
	c.state = state
	c.emit(ConnectionChanged{State: state})
}

func (c *SyncClient) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warn("dropping event", "event", fmt.Sprintf("%T", ev))
	}
}
