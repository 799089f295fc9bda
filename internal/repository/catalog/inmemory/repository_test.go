package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrtravel/server/internal/repository/catalog"
)

func TestSeededVideos(t *testing.T) {
	r := NewRepo()
	ctx := context.Background()

	videos, err := r.GetVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, videos, len(catalog.SeedVideos))

	// listing preserves seed order
	for i, v := range videos {
		assert.Equal(t, catalog.SeedVideos[i].Id, v.Id)
	}

	video, err := r.GetVideo(ctx, "maldives-360")
	require.NoError(t, err)
	assert.Equal(t, "Maldives", video.Location)

	_, err = r.GetVideo(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrVideoNotFound)
}

func TestRoomRecords(t *testing.T) {
	r := NewRepo()
	ctx := context.Background()

	rooms, err := r.GetRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	first := catalog.RoomRecord{Id: "room-1", Name: "first", VideoId: "tokyo-360"}
	second := catalog.RoomRecord{Id: "room-2", Name: "second", VideoId: "paris-360"}
	require.NoError(t, r.SetRoom(ctx, &first))
	require.NoError(t, r.SetRoom(ctx, &second))

	err = r.SetRoom(ctx, &catalog.RoomRecord{Id: "room-1"})
	assert.ErrorIs(t, err, catalog.ErrRoomExists)

	got, err := r.GetRoom(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	_, err = r.GetRoom(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrRoomNotFound)

	rooms, err = r.GetRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "room-1", rooms[0].Id)
	assert.Equal(t, "room-2", rooms[1].Id)
}
