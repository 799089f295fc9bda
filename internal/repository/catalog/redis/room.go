package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/vrtravel/server/internal/repository/catalog"
)

func (r repo) SetRoom(ctx context.Context, record *catalog.RoomRecord) error {
	exists, err := r.rc.Exists(ctx, r.getRoomKey(record.Id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check room record: %w", err)
	}
	if exists > 0 {
		return catalog.ErrRoomExists
	}

	pipe := r.rc.TxPipeline()

	roomKey := r.getRoomKey(record.Id)
	pipe.HSet(ctx, roomKey, record)
	pipe.SAdd(ctx, r.getRoomsKey(), record.Id)
	if r.expireDuration > 0 {
		pipe.Expire(ctx, roomKey, r.expireDuration)
	}

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set room record: %w", err)
	}

	return nil
}

func (r repo) GetRoom(ctx context.Context, roomId string) (catalog.RoomRecord, error) {
	cmd := r.rc.HGetAll(ctx, r.getRoomKey(roomId))
	if err := cmd.Err(); err != nil {
		return catalog.RoomRecord{}, fmt.Errorf("failed to get room record: %w", err)
	}
	if len(cmd.Val()) == 0 {
		return catalog.RoomRecord{}, catalog.ErrRoomNotFound
	}

	var record catalog.RoomRecord
	if err := cmd.Scan(&record); err != nil {
		return catalog.RoomRecord{}, fmt.Errorf("failed to scan room record: %w", err)
	}

	return record, nil
}

func (r repo) GetRooms(ctx context.Context) ([]catalog.RoomRecord, error) {
	ids, err := r.rc.SMembers(ctx, r.getRoomsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get room ids: %w", err)
	}

	records := make([]catalog.RoomRecord, 0, len(ids))
	for _, id := range ids {
		record, err := r.GetRoom(ctx, id)
		if err != nil {
			// expired record still referenced by the id set
			if errors.Is(err, catalog.ErrRoomNotFound) {
				r.rc.SRem(ctx, r.getRoomsKey(), id)
				continue
			}

			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}
