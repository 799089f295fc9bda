package room

import "context"

type RelayChatParams struct {
	RoomId   string
	SenderId string
}

type RelayChatResponse struct {
	// Others are the senders to relay the chat frame to.
	Others []Sender
}

// RelayChat resolves the recipients of a chat message: every member of the
// sender's room except the sender. Chat is relayed regardless of host
// status.
func (s *service) RelayChat(ctx context.Context, params *RelayChatParams) (RelayChatResponse, error) {
	rm, err := s.getRoom(params.RoomId)
	if err != nil {
		return RelayChatResponse{}, err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.indexOfLocked(params.SenderId) < 0 {
		return RelayChatResponse{}, ErrMemberNotFound
	}

	return RelayChatResponse{
		Others: rm.othersLocked(params.SenderId),
	}, nil
}
