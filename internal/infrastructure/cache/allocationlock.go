package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// AllocationLock serializes capacity allocation per package. Approvals
// for the same package read then claim an instance, so two concurrent
// approvals without the lock could both pick the same host. The lock is
// a plain SET NX with a TTL; the token guards against releasing a lock
// that has already expired and been re-acquired by someone else.
type AllocationLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAllocationLock creates a new allocation lock store.
func NewAllocationLock(client *redis.Client, ttl time.Duration) *AllocationLock {
	return &AllocationLock{
		client: client,
		ttl:    ttl,
	}
}

// Acquire takes the per-package lock and returns a release token.
// Returns a conflict error when another allocation is in flight.
func (l *AllocationLock) Acquire(ctx context.Context, packageID uint) (string, error) {
	token := uuid.NewString()
	key := l.buildKey(packageID)

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire allocation lock: %w", err)
	}
	if !ok {
		return "", errors.NewConflictError(
			fmt.Sprintf("another allocation for package %d is in progress", packageID))
	}
	return token, nil
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Release drops the lock if it is still held by the given token.
func (l *AllocationLock) Release(ctx context.Context, packageID uint, token string) error {
	key := l.buildKey(packageID)
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release allocation lock: %w", err)
	}
	return nil
}

func (l *AllocationLock) buildKey(packageID uint) string {
	return fmt.Sprintf("alloc:lock:package:%d", packageID)
}
