package cache

import (
	"context"
	"fmt"
	"time"
)

const VideoKeyPrefix = "video:%d"

// VideoTTL bounds how stale a cached like count can get.
const VideoTTL = 10 * time.Minute

func VideoKey(videoID uint) string {
	return fmt.Sprintf(VideoKeyPrefix, videoID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateVideo(ctx context.Context, videoID uint) {
	Invalidate(ctx, VideoKey(videoID))
}
