package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/vrtravel/server/internal/repository/catalog"
)

func (r repo) SetVideo(ctx context.Context, record *catalog.VideoRecord) error {
	pipe := r.rc.TxPipeline()

	pipe.HSet(ctx, r.getVideoKey(record.Id), record)
	pipe.SAdd(ctx, r.getVideosKey(), record.Id)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set video record: %w", err)
	}

	return nil
}

func (r repo) GetVideo(ctx context.Context, videoId string) (catalog.VideoRecord, error) {
	cmd := r.rc.HGetAll(ctx, r.getVideoKey(videoId))
	if err := cmd.Err(); err != nil {
		return catalog.VideoRecord{}, fmt.Errorf("failed to get video record: %w", err)
	}
	if len(cmd.Val()) == 0 {
		return catalog.VideoRecord{}, catalog.ErrVideoNotFound
	}

	var record catalog.VideoRecord
	if err := cmd.Scan(&record); err != nil {
		return catalog.VideoRecord{}, fmt.Errorf("failed to scan video record: %w", err)
	}

	return record, nil
}

func (r repo) GetVideos(ctx context.Context) ([]catalog.VideoRecord, error) {
	ids, err := r.rc.SMembers(ctx, r.getVideosKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get video ids: %w", err)
	}

	records := make([]catalog.VideoRecord, 0, len(ids))
	for _, id := range ids {
		record, err := r.GetVideo(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrVideoNotFound) {
				r.rc.SRem(ctx, r.getVideosKey(), id)
				continue
			}

			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}
