package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PostCounts is the cached engagement snapshot for one post.
type PostCounts struct {
	Likes    int64 `json:"l"`
	Comments int64 `json:"c"`
}

// CountCache keeps per-post like/comment counters in Redis. It is a read-side
// optimization layered over the grouped count queries: entries expire after a
// TTL and write paths invalidate the touched post explicitly. A nil *CountCache
// is valid and behaves as a permanent miss.
type CountCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCountCache(rdb *redis.Client, ttl time.Duration) *CountCache {
	return &CountCache{rdb: rdb, ttl: ttl}
}

func countKey(postID string) string { return fmt.Sprintf("post:counts:%s", postID) }

// GetMany returns cached counts for the given posts plus the IDs that missed.
// Cache errors degrade to a full miss; the caller falls back to the store.
func (c *CountCache) GetMany(ctx context.Context, postIDs []string) (map[string]PostCounts, []string) {
	if c == nil || c.rdb == nil || len(postIDs) == 0 {
		return map[string]PostCounts{}, postIDs
	}
	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = countKey(id)
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return map[string]PostCounts{}, postIDs
	}
	hits := make(map[string]PostCounts, len(postIDs))
	var missing []string
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			missing = append(missing, postIDs[i])
			continue
		}
		var pc PostCounts
		if uErr := json.Unmarshal([]byte(str), &pc); uErr != nil {
			missing = append(missing, postIDs[i])
			continue
		}
		hits[postIDs[i]] = pc
	}
	return hits, missing
}

// SetMany back-fills freshly computed counts with the configured TTL.
func (c *CountCache) SetMany(ctx context.Context, counts map[string]PostCounts) {
	if c == nil || c.rdb == nil || len(counts) == 0 {
		return
	}
	pipe := c.rdb.Pipeline()
	for id, pc := range counts {
		if payload, err := json.Marshal(pc); err == nil {
			pipe.Set(ctx, countKey(id), payload, c.ttl)
		}
	}
	_, _ = pipe.Exec(ctx)
}

// Invalidate drops the cached counters for a post after a write touches it.
func (c *CountCache) Invalidate(ctx context.Context, postIDs ...string) {
	if c == nil || c.rdb == nil || len(postIDs) == 0 {
		return
	}
	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = countKey(id)
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
