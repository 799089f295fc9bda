package room

import (
	"sync"

	"github.com/vrtravel/server/internal/protocol"
)

// member is a room participant. Join order is kept by position in the room
// slice; the member at index 0 is the host.
type member struct {
	id     string
	name   string
	avatar string
	sender Sender
}

func (m *member) participant(isHost bool) protocol.Participant {
	return protocol.Participant{
		Id:     m.id,
		Name:   m.name,
		Avatar: m.avatar,
		IsHost: isHost,
	}
}

type room struct {
	id string

	// mu serializes all joins, leaves and relays for this room. Rooms are
	// independent of each other.
	mu      sync.Mutex
	members []*member
	state   protocol.SyncState

	// closed marks a room emptied out and unlinked from the registry. A
	// join racing with the deletion retries against a fresh room.
	closed bool
}

func newRoom(id string) *room {
	return &room{
		id:    id,
		state: protocol.DefaultSyncState(),
	}
}

// callers hold r.mu for all *Locked methods.

func (r *room) indexOfLocked(memberId string) int {
	for i, m := range r.members {
		if m.id == memberId {
			return i
		}
	}

	return -1
}

func (r *room) participantsLocked() []protocol.Participant {
	participants := make([]protocol.Participant, 0, len(r.members))
	for i, m := range r.members {
		participants = append(participants, m.participant(i == 0))
	}

	return participants
}

// othersLocked returns the senders of every member except the given one.
func (r *room) othersLocked(exceptId string) []Sender {
	senders := make([]Sender, 0, len(r.members))
	for _, m := range r.members {
		if m.id != exceptId {
			senders = append(senders, m.sender)
		}
	}

	return senders
}
