package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// SummaryCache keeps serialized dashboard summaries per window size. A
// short-lived dirty marker set on every write keeps stale summaries from
// being served or refreshed while writes are landing.
type SummaryCache struct {
	client         *redisv9.Client
	summaryTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewSummaryCache(client *redisv9.Client, summaryTTL, dirtyMarkerTTL time.Duration) *SummaryCache {
	if summaryTTL <= 0 {
		summaryTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &SummaryCache{
		client:         client,
		summaryTTL:     summaryTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *SummaryCache) GetSummary(ctx context.Context, days int) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, c.summaryKey(days)).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get summary failed: %w", err)
	}
	return raw, true, nil
}

func (c *SummaryCache) SetSummary(ctx context.Context, days int, payload []byte) error {
	if err := c.client.Set(ctx, c.summaryKey(days), payload, c.summaryTTL).Err(); err != nil {
		return fmt.Errorf("redis set summary failed: %w", err)
	}
	return nil
}

// DeleteSummaries drops every cached window.
func (c *SummaryCache) DeleteSummaries(ctx context.Context) error {
	keys := []string{c.summaryKey(7), c.summaryKey(30)}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete summaries failed: %w", err)
	}
	return nil
}

func (c *SummaryCache) MarkDirty(ctx context.Context) error {
	if err := c.client.Set(ctx, c.dirtyKey(), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *SummaryCache) IsDirty(ctx context.Context) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey()).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *SummaryCache) summaryKey(days int) string {
	return fmt.Sprintf("practicelog:summary:%dd", days)
}

func (c *SummaryCache) dirtyKey() string {
	return "practicelog:summary:dirty"
}
