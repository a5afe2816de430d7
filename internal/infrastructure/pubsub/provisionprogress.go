package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// ProvisionProgressEvent is one provisioning checkpoint fanned out to
// every observer. Messages never contain credentials.
type ProvisionProgressEvent struct {
	SiteID    uint   `json:"site_id"`
	Percent   int    `json:"percent"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// ProvisionProgressHandler is a callback for handling progress events.
type ProvisionProgressHandler func(ctx context.Context, event ProvisionProgressEvent)

const provisionProgressChannel = "spm:provision:progress"

// RedisProvisionProgressBus distributes provisioning progress events over
// Redis Pub/Sub so any replica or dashboard can observe a run.
type RedisProvisionProgressBus struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisProvisionProgressBus(client *redis.Client, logger logger.Interface) *RedisProvisionProgressBus {
	return &RedisProvisionProgressBus{
		client: client,
		logger: logger,
	}
}

// Publish fans one progress checkpoint out to all subscribers. Publish
// failures are logged and swallowed; progress reporting never blocks or
// fails a provisioning run.
func (b *RedisProvisionProgressBus) Publish(siteID uint, percent int, message string) {
	event := ProvisionProgressEvent{
		SiteID:    siteID,
		Percent:   percent,
		Message:   message,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Errorw("failed to marshal progress event", "site_id", siteID, "error", err)
		return
	}

	if err := b.client.Publish(context.Background(), provisionProgressChannel, data).Err(); err != nil {
		b.logger.Warnw("failed to publish provisioning progress",
			"site_id", siteID,
			"percent", percent,
			"error", err,
		)
		return
	}

	b.logger.Debugw("provisioning progress published",
		"site_id", siteID,
		"percent", percent,
		"message", message,
	)
}

// Subscribe consumes progress events until the context is cancelled.
// It reconnects with backoff when the Redis subscription drops.
func (b *RedisProvisionProgressBus) Subscribe(ctx context.Context, handler ProvisionProgressHandler) error {
	sub := b.client.Subscribe(ctx, provisionProgressChannel)

	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("failed to subscribe to progress channel: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event ProvisionProgressEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warnw("failed to unmarshal progress event", "payload", msg.Payload, "error", err)
					continue
				}
				handler(ctx, event)
			}
		}
	}()

	return nil
}
