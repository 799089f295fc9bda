package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrtravel/server/internal/repository/catalog"
)

func newTestRepo(t *testing.T) (*repo, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{
		Addr: s.Addr(),
	})
	t.Cleanup(func() { rc.Close() })

	return NewRepo(rc, time.Hour), s
}

func TestRoomRecords(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()

	record := catalog.RoomRecord{
		Id:              "room-1",
		Name:            "Tokyo tour",
		Description:     "watch together",
		VideoId:         "tokyo-360",
		HostName:        "alice",
		MaxParticipants: 8,
		IsPrivate:       true,
		Password:        "hunter2",
		CreatedAt:       1700000000000,
	}
	require.NoError(t, r.SetRoom(ctx, &record))

	// duplicate ids are rejected
	err := r.SetRoom(ctx, &record)
	assert.ErrorIs(t, err, catalog.ErrRoomExists)

	got, err := r.GetRoom(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	_, err = r.GetRoom(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrRoomNotFound)

	rooms, err := r.GetRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, record, rooms[0])

	// record expiry drops the listing entry too
	s.FastForward(2 * time.Hour)
	rooms, err = r.GetRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	_, err = r.GetRoom(ctx, "room-1")
	assert.ErrorIs(t, err, catalog.ErrRoomNotFound)
}

func TestVideoRecords(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	for _, v := range catalog.SeedVideos {
		require.NoError(t, r.SetVideo(ctx, &v))
	}

	got, err := r.GetVideo(ctx, "tokyo-360")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo Street View 360°", got.Title)
	assert.Equal(t, "Tokyo, Japan", got.Location)

	_, err = r.GetVideo(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrVideoNotFound)

	videos, err := r.GetVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, videos, len(catalog.SeedVideos))

	// seeding again is idempotent
	seed := catalog.SeedVideos[0]
	require.NoError(t, r.SetVideo(ctx, &seed))
	videos, err = r.GetVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, videos, len(catalog.SeedVideos))
}
