package cache

import (
	"context"
	"encoding/json"
	std_errors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthReportCache holds the latest fleet health report per instance.
// Status endpoints read from here so a burst of dashboard refreshes
// does not translate into a burst of SSH sessions.
type HealthReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHealthReportCache creates a new health report cache.
func NewHealthReportCache(client *redis.Client, ttl time.Duration) *HealthReportCache {
	return &HealthReportCache{
		client: client,
		ttl:    ttl,
	}
}

// Set stores a report for the instance.
func (c *HealthReportCache) Set(ctx context.Context, instanceID uint, report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal health report: %w", err)
	}
	if err := c.client.Set(ctx, c.buildKey(instanceID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache health report: %w", err)
	}
	return nil
}

// Get loads the cached report into out. Returns false when no report
// is cached for the instance.
func (c *HealthReportCache) Get(ctx context.Context, instanceID uint, out any) (bool, error) {
	data, err := c.client.Get(ctx, c.buildKey(instanceID)).Result()
	if err != nil {
		if std_errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cached health report: %w", err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached health report: %w", err)
	}
	return true, nil
}

// Invalidate drops the cached report for the instance.
func (c *HealthReportCache) Invalidate(ctx context.Context, instanceID uint) error {
	return c.client.Del(ctx, c.buildKey(instanceID)).Err()
}

func (c *HealthReportCache) buildKey(instanceID uint) string {
	return fmt.Sprintf("fleet:health:instance:%d", instanceID)
}
