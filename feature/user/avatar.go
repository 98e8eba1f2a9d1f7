package user

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"team-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// AvatarCache stores fetched profile images in an object bucket so the
// snapshot API can serve them offline.
type AvatarCache struct {
	client storage.Client
	bucket string
}

// NewAvatarCache creates an avatar cache over the given storage client.
func NewAvatarCache(client storage.Client, bucket string) *AvatarCache {
	return &AvatarCache{client: client, bucket: bucket}
}

func avatarKey(userId string) string {
	return "avatars/" + userId
}

// SyncProfileImage fetches a user's avatar from the server and caches
// it, unless the cached copy is already current for lastPictureUpdate.
func (s *Syncer) SyncProfileImage(ctx context.Context, serverURL, userId string, lastPictureUpdate int64, cache *AvatarCache) error {
	if cache == nil {
		return nil
	}

	stamp := strconv.FormatInt(lastPictureUpdate, 10)
	info, err := cache.client.StatObject(ctx, cache.bucket, avatarKey(userId), minio.StatObjectOptions{})
	if err == nil && info.UserMetadata["Picture-Update"] == stamp {
		return nil
	}

	c, err := s.registry.GetClient(serverURL)
	if err != nil {
		return err
	}
	data, err := c.GetProfileImage(ctx, userId)
	if err != nil {
		s.notifyRemoteError(ctx, serverURL, err)
		return err
	}

	_, err = cache.client.PutObject(ctx, cache.bucket, avatarKey(userId), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "image/png",
		UserMetadata: map[string]string{"Picture-Update": stamp},
	})
	if err != nil {
		return fmt.Errorf("failed to cache avatar for %s: %w", userId, err)
	}
	return nil
}
