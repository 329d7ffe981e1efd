package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
	"corpstats/pkg/platform/sentinel"
)

const leaseKeyPrefix = "corpstats:lock:"

// releaseScript deletes the lease only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLease is a cross-process Locker backed by a Redis key with a TTL.
// It never waits: a lease held elsewhere yields sentinel.ErrLocked.
type RedisLease struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.Locker = (*RedisLease)(nil)

// NewRedisLease constructs a Redis lease locker. ttl bounds how long a crashed
// holder can block other instances.
func NewRedisLease(client *redis.Client, ttl time.Duration) *RedisLease {
	return &RedisLease{client: client, ttl: ttl}
}

// Lock takes the lease without waiting. The held context expires a safety
// margin before the key does, so a holder that overruns the lease stops
// writing before another instance can take it over.
func (l *RedisLease) Lock(ctx context.Context, snapshotID id.SnapshotID) (context.Context, func(), error) {
	key := leaseKeyPrefix + snapshotID.String()
	holder := uuid.NewString()

	requested := time.Now()
	ok, err := l.client.SetNX(ctx, key, holder, l.ttl).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("acquire snapshot lease: %w", err)
	}
	if !ok {
		return nil, nil, sentinel.ErrLocked
	}

	held, cancel := context.WithDeadline(ctx, leaseDeadline(requested, l.ttl))
	return held, func() {
		cancel()
		// Release with a fresh context; the caller's may already be done.
		releaseCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, holder).Err()
	}, nil
}

const maxLeaseMargin = 5 * time.Second

// leaseDeadline is measured from before SETNX was sent, so it never outlives
// the key.
func leaseDeadline(requested time.Time, ttl time.Duration) time.Time {
	margin := min(ttl/10, maxLeaseMargin)
	return requested.Add(ttl - margin)
}
