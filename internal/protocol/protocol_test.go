package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJoinRoom(t *testing.T) {
	frame := []byte(`{"type":"join-room","roomId":"room-1","user":{"id":"u1","name":"alice","avatar":"a.png"}}`)

	msg, err := Decode(frame)
	require.NoError(t, err)

	join, ok := msg.(*JoinRoom)
	require.True(t, ok)
	assert.Equal(t, "room-1", join.RoomId)
	assert.Equal(t, "u1", join.User.Id)
	assert.Equal(t, "alice", join.User.Name)
	assert.Equal(t, "a.png", join.User.Avatar)
}

func TestDecodeVideoSync(t *testing.T) {
	// play-pause carries the flag
	msg, err := Decode([]byte(`{"type":"video-sync","action":"play-pause","isPlaying":true,"currentTime":12.5,"userId":"u1","roomId":"room-1"}`))
	require.NoError(t, err)
	sync, ok := msg.(*VideoSync)
	require.True(t, ok)
	assert.Equal(t, ActionPlayPause, sync.Action)
	require.NotNil(t, sync.IsPlaying)
	assert.True(t, *sync.IsPlaying)
	assert.Equal(t, 12.5, sync.CurrentTime)

	// seek omits it
	msg, err = Decode([]byte(`{"type":"video-sync","action":"seek","currentTime":99,"userId":"u1","roomId":"room-1"}`))
	require.NoError(t, err)
	sync = msg.(*VideoSync)
	assert.Equal(t, ActionSeek, sync.Action)
	assert.Nil(t, sync.IsPlaying)
	assert.Equal(t, float64(99), sync.CurrentTime)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"shrug"}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Decode([]byte(`{`))
	assert.ErrorIs(t, err, ErrBadPayload)

	_, err = Decode([]byte(`{"type":"chat-message","timestamp":"not-a-number"}`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestEncodeInjectsType(t *testing.T) {
	data, err := Encode(&UserLeft{UserId: "u1"})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, TypeUserLeft, fields["type"])
	assert.Equal(t, "u1", fields["userId"])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := &RoomJoined{
		RoomId: "room-1",
		Participants: []Participant{
			{Id: "u1", Name: "alice", IsHost: true},
			{Id: "u2", Name: "bob"},
		},
		VideoState: SyncState{IsPlaying: true, CurrentTime: 33.3, PlaybackRate: 1, LastUpdate: 1700000000000},
		IsHost:     false,
	}

	data, err := Encode(original)
	require.NoError(t, err)

	msg, err := Decode(data)
	require.NoError(t, err)

	decoded, ok := msg.(*RoomJoined)
	require.True(t, ok)
	assert.Equal(t, original, decoded)
}

func TestDefaultSyncState(t *testing.T) {
	state := DefaultSyncState()
	assert.False(t, state.IsPlaying)
	assert.Zero(t, state.CurrentTime)
	assert.Equal(t, float64(1), state.PlaybackRate)
}
