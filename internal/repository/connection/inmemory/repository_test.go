package inmemory

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrtravel/server/internal/repository/connection"
)

func TestRepoRegistry(t *testing.T) {
	r := NewRepo(8)

	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	peer1, err := r.Add(conn1, "u1", "room-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", peer1.MemberId())
	assert.Equal(t, "room-1", peer1.RoomId())

	// one registration per member per room, and per connection
	_, err = r.Add(conn2, "u1", "room-1")
	assert.ErrorIs(t, err, connection.ErrAlreadyExists)
	_, err = r.Add(conn1, "u2", "room-1")
	assert.ErrorIs(t, err, connection.ErrAlreadyExists)

	peer2, err := r.Add(conn2, "u2", "room-2")
	require.NoError(t, err)

	got, err := r.GetByConn(conn1)
	require.NoError(t, err)
	assert.Same(t, peer1, got)

	got, err = r.GetByMemberId("room-2", "u2")
	require.NoError(t, err)
	assert.Same(t, peer2, got)

	_, err = r.GetByConn(&websocket.Conn{})
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = r.GetByMemberId("room-1", "ghost")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = r.GetByMemberId("room-2", "u1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

func TestSameMemberIdAcrossRooms(t *testing.T) {
	r := NewRepo(8)

	peer1, err := r.Add(&websocket.Conn{}, "u1", "room-1")
	require.NoError(t, err)

	// rooms are independent, so the id is free in another room
	peer2, err := r.Add(&websocket.Conn{}, "u1", "room-2")
	require.NoError(t, err)

	got, err := r.GetByMemberId("room-1", "u1")
	require.NoError(t, err)
	assert.Same(t, peer1, got)
	got, err = r.GetByMemberId("room-2", "u1")
	require.NoError(t, err)
	assert.Same(t, peer2, got)
}
