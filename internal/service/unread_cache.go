package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadCacheTTL = time.Minute

// UnreadCache caches per-user unread notification counts in Redis. It is
// purely advisory: any error or miss falls through to the database count.
type UnreadCache struct {
	client *redis.Client
}

// NewUnreadCache wraps a redis client. A nil client disables caching.
func NewUnreadCache(client *redis.Client) *UnreadCache {
	return &UnreadCache{client: client}
}

func unreadKey(userID string) string {
	return "notif:unread:" + userID
}

// Get returns the cached count and whether it was present.
func (c *UnreadCache) Get(ctx context.Context, userID string) (int, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

// Set stores the count with a short TTL.
func (c *UnreadCache) Set(ctx context.Context, userID string, count int) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, unreadKey(userID), strconv.Itoa(count), unreadCacheTTL).Err()
}

// Invalidate drops the cached count after any mutation of the user's feed.
func (c *UnreadCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, unreadKey(userID)).Err()
}
