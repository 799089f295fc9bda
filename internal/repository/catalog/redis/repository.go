// Package redis stores catalog records in redis hashes so several server
// restarts (or a shared dev instance) see the same room/video listing.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getRoomKey(roomId string) string {
	return "catalog:room:" + roomId
}

func (r repo) getRoomsKey() string {
	return "catalog:rooms"
}

func (r repo) getVideoKey(videoId string) string {
	return "catalog:video:" + videoId
}

func (r repo) getVideosKey() string {
	return "catalog:videos"
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
