package room

import (
	"context"

	"github.com/vrtravel/server/internal/protocol"
)

type UpdateSyncStateParams struct {
	RoomId      string
	SenderId    string
	Action      string
	IsPlaying   *bool
	CurrentTime float64
}

type UpdateSyncStateResponse struct {
	State protocol.SyncState
	// Others are the senders to relay the video-sync frame to.
	Others []Sender
}

// UpdateSyncState applies a host playback intent and returns the senders to
// relay it to. Non-host intents are rejected: the client gates them at the
// UI level and the session drops them here as well.
func (s *service) UpdateSyncState(ctx context.Context, params *UpdateSyncStateParams) (UpdateSyncStateResponse, error) {
	rm, err := s.getRoom(params.RoomId)
	if err != nil {
		return UpdateSyncStateResponse{}, err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	idx := rm.indexOfLocked(params.SenderId)
	if idx < 0 {
		return UpdateSyncStateResponse{}, ErrMemberNotFound
	}
	if idx != 0 {
		return UpdateSyncStateResponse{}, ErrNotHost
	}

	state := rm.state
	state.CurrentTime = params.CurrentTime
	state.LastUpdate = s.now().UnixMilli()
	if params.Action == protocol.ActionPlayPause && params.IsPlaying != nil {
		state.IsPlaying = *params.IsPlaying
	}
	rm.state = state

	return UpdateSyncStateResponse{
		State:  state,
		Others: rm.othersLocked(params.SenderId),
	}, nil
}
