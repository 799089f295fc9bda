// Package inmemory tracks live websocket peers. Each peer owns a bounded
// send buffer drained by a dedicated writer goroutine, so a slow or stuck
// connection never blocks a room broadcast.
package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vrtravel/server/internal/repository/connection"
)

type Peer struct {
	conn     *websocket.Conn
	send     chan []byte
	memberId string
	roomId   string

	closeOnce sync.Once
	done      chan struct{}
}

func newPeer(conn *websocket.Conn, memberId, roomId string, sendBuffer int) *Peer {
	p := &Peer{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		memberId: memberId,
		roomId:   roomId,
		done:     make(chan struct{}),
	}
	go p.writePump()

	return p
}

func (p *Peer) MemberId() string { return p.memberId }

func (p *Peer) RoomId() string { return p.roomId }

// Send queues data for delivery. It reports false when the peer is closed
// or its buffer is full; the caller decides whether to disconnect the slow
// peer. It never blocks.
func (p *Peer) Send(data []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}

	select {
	case p.send <- data:
		return true
	default:
		return false
	}
}

func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}

func (p *Peer) writePump() {
	defer p.Close()

	for {
		select {
		case <-p.done:
			return
		case data := <-p.send:
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}

// memberKey scopes member ids to their room: the same id may be live in
// two different rooms at once.
type memberKey struct {
	roomId   string
	memberId string
}

type Repo struct {
	byMember map[memberKey]*Peer
	byConn   map[*websocket.Conn]*Peer

	sendBuffer int
	mu         sync.RWMutex
}

func NewRepo(sendBuffer int) *Repo {
	return &Repo{
		byMember:   make(map[memberKey]*Peer),
		byConn:     make(map[*websocket.Conn]*Peer),
		sendBuffer: sendBuffer,
	}
}

// Add registers a connection for a member. A connection belongs to at most
// one room at a time, and a member id to one connection per room.
func (r *Repo) Add(conn *websocket.Conn, memberId, roomId string) (*Peer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey{roomId: roomId, memberId: memberId}
	if r.byMember[key] != nil || r.byConn[conn] != nil {
		return nil, connection.ErrAlreadyExists
	}

	peer := newPeer(conn, memberId, roomId, r.sendBuffer)
	r.byMember[key] = peer
	r.byConn[conn] = peer

	return peer, nil
}

func (r *Repo) GetByConn(conn *websocket.Conn) (*Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	peer, ok := r.byConn[conn]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return peer, nil
}

func (r *Repo) GetByMemberId(roomId, memberId string) (*Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	peer, ok := r.byMember[memberKey{roomId: roomId, memberId: memberId}]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return peer, nil
}

// Remove unregisters the peer and closes it.
func (r *Repo) Remove(peer *Peer) {
	r.mu.Lock()
	delete(r.byMember, memberKey{roomId: peer.roomId, memberId: peer.memberId})
	delete(r.byConn, peer.conn)
	r.mu.Unlock()

	peer.Close()
}
