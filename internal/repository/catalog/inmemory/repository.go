// Package inmemory is the default catalog store: process-local maps seeded
// with the stock 360° video library.
package inmemory

import (
	"context"
	"sync"

	"github.com/vrtravel/server/internal/repository/catalog"
)

type repo struct {
	mu     sync.RWMutex
	rooms  map[string]catalog.RoomRecord
	videos map[string]catalog.VideoRecord

	roomOrder  []string
	videoOrder []string
}

func NewRepo() *repo {
	r := &repo{
		rooms:  make(map[string]catalog.RoomRecord),
		videos: make(map[string]catalog.VideoRecord),
	}
	for _, v := range catalog.SeedVideos {
		r.videos[v.Id] = v
		r.videoOrder = append(r.videoOrder, v.Id)
	}

	return r
}

func (r *repo) SetRoom(_ context.Context, record *catalog.RoomRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[record.Id]; ok {
		return catalog.ErrRoomExists
	}

	r.rooms[record.Id] = *record
	r.roomOrder = append(r.roomOrder, record.Id)

	return nil
}

func (r *repo) GetRoom(_ context.Context, roomId string) (catalog.RoomRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.rooms[roomId]
	if !ok {
		return catalog.RoomRecord{}, catalog.ErrRoomNotFound
	}

	return record, nil
}

func (r *repo) GetRooms(_ context.Context) ([]catalog.RoomRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]catalog.RoomRecord, 0, len(r.roomOrder))
	for _, id := range r.roomOrder {
		records = append(records, r.rooms[id])
	}

	return records, nil
}

func (r *repo) GetVideo(_ context.Context, videoId string) (catalog.VideoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.videos[videoId]
	if !ok {
		return catalog.VideoRecord{}, catalog.ErrVideoNotFound
	}

	return record, nil
}

func (r *repo) GetVideos(_ context.Context) ([]catalog.VideoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]catalog.VideoRecord, 0, len(r.videoOrder))
	for _, id := range r.videoOrder {
		records = append(records, r.videos[id])
	}

	return records, nil
}
