// Package room owns canonical per-room state: membership in join order,
// host assignment, and the shared playback state. All mutation goes through
// the service; clients only ever hold immutable copies.
package room

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberExists   = errors.New("member already in room")
	ErrNotHost        = errors.New("sender is not the host")
	ErrRoomFull       = errors.New("room is full")
)

// Sender delivers encoded frames to one member's connection. Send must not
// block; it reports false when the frame was dropped.
type Sender interface {
	Send(data []byte) bool
	Close()
}

type Config struct {
	// MembersLimit caps room membership. Zero means unlimited.
	MembersLimit int
}

type service struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	rooms map[string]*room
}

// NewService returns an empty registry. Rooms are created lazily on first
// join and deleted by the departure that empties them.
func NewService(cfg *Config, logger *slog.Logger) *service {
	return &service{
		cfg:    *cfg,
		logger: logger,
		now:    time.Now,
		rooms:  make(map[string]*room),
	}
}

// MemberCount reports current membership, 0 for unknown rooms.
func (s *service) MemberCount(roomId string) int {
	s.mu.RLock()
	rm, ok := s.rooms[roomId]
	s.mu.RUnlock()
	if !ok {
		return 0
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	return len(rm.members)
}

// Shutdown drops every room and closes every member connection.
func (s *service) Shutdown() {
	s.mu.Lock()
	rooms := s.rooms
	s.rooms = make(map[string]*room)
	s.mu.Unlock()

	for _, rm := range rooms {
		rm.mu.Lock()
		rm.closed = true
		members := rm.members
		rm.members = nil
		rm.mu.Unlock()

		for _, m := range members {
			m.sender.Close()
		}
	}
}

func (s *service) getOrCreateRoom(roomId string) *room {
	s.mu.RLock()
	rm, ok := s.rooms[roomId]
	s.mu.RUnlock()
	if ok {
		return rm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rm, ok := s.rooms[roomId]; ok {
		return rm
	}

	rm = newRoom(roomId)
	s.rooms[roomId] = rm
	s.logger.Debug("room created", "room_id", roomId)

	return rm
}

func (s *service) getRoom(roomId string) (*room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rm, ok := s.rooms[roomId]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return rm, nil
}

// removeRoom deletes the registry entry for a closed room. The map may
// already point at a fresh room with the same id, in which case it is left
// alone.
func (s *service) removeRoom(rm *room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.rooms[rm.id]; ok && current == rm {
		delete(s.rooms, rm.id)
	}
}
