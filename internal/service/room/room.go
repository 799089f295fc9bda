package room

import (
	"context"

	"github.com/vrtravel/server/internal/protocol"
)

type JoinRoomParams struct {
	RoomId string
	User   protocol.User
	Sender Sender
}

type JoinRoomResponse struct {
	Joined       protocol.Participant
	Participants []protocol.Participant
	VideoState   protocol.SyncState
	IsHost       bool
	// Others are the senders to notify with user-joined.
	Others []Sender
}

// JoinRoom admits a member, creating the room when it does not exist yet.
// The first member of a room becomes its host.
func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	for {
		rm := s.getOrCreateRoom(params.RoomId)

		rm.mu.Lock()
		if rm.closed {
			// lost a race with the departure that emptied the room
			rm.mu.Unlock()
			continue
		}

		if rm.indexOfLocked(params.User.Id) >= 0 {
			rm.mu.Unlock()
			return JoinRoomResponse{}, ErrMemberExists
		}

		if s.cfg.MembersLimit > 0 && len(rm.members) >= s.cfg.MembersLimit {
			rm.mu.Unlock()
			return JoinRoomResponse{}, ErrRoomFull
		}

		m := &member{
			id:     params.User.Id,
			name:   params.User.Name,
			avatar: params.User.Avatar,
			sender: params.Sender,
		}
		rm.members = append(rm.members, m)

		isHost := len(rm.members) == 1
		resp := JoinRoomResponse{
			Joined:       m.participant(isHost),
			Participants: rm.participantsLocked(),
			VideoState:   rm.state,
			IsHost:       isHost,
			Others:       rm.othersLocked(m.id),
		}
		rm.mu.Unlock()

		s.logger.InfoContext(ctx, "member joined",
			"room_id", params.RoomId,
			"member_id", m.id,
			"is_host", isHost,
		)

		return resp, nil
	}
}

type LeaveRoomParams struct {
	RoomId   string
	MemberId string
}

type LeaveRoomResponse struct {
	// Others are the surviving senders to notify with user-left.
	Others []Sender
	// NewHost is set when the departing member was host and succession
	// happened; it drives the host-changed broadcast.
	NewHost       *protocol.Participant
	IsRoomDeleted bool
}

// LeaveRoom removes a member. A departing host is succeeded by the next
// oldest surviving member; the departure that empties a room deletes it.
func (s *service) LeaveRoom(ctx context.Context, params *LeaveRoomParams) (LeaveRoomResponse, error) {
	rm, err := s.getRoom(params.RoomId)
	if err != nil {
		return LeaveRoomResponse{}, err
	}

	rm.mu.Lock()
	idx := rm.indexOfLocked(params.MemberId)
	if idx < 0 {
		rm.mu.Unlock()
		return LeaveRoomResponse{}, ErrMemberNotFound
	}

	wasHost := idx == 0
	rm.members = append(rm.members[:idx], rm.members[idx+1:]...)

	if len(rm.members) == 0 {
		rm.closed = true
		rm.mu.Unlock()
		s.removeRoom(rm)

		s.logger.InfoContext(ctx, "room deleted",
			"room_id", params.RoomId,
			"member_id", params.MemberId,
		)

		return LeaveRoomResponse{IsRoomDeleted: true}, nil
	}

	resp := LeaveRoomResponse{
		Others: rm.othersLocked(params.MemberId),
	}
	if wasHost {
		newHost := rm.members[0].participant(true)
		resp.NewHost = &newHost
	}
	rm.mu.Unlock()

	s.logger.InfoContext(ctx, "member left",
		"room_id", params.RoomId,
		"member_id", params.MemberId,
		"was_host", wasHost,
	)

	return resp, nil
}
