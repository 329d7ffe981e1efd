package esi

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
)

var nameCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "corpstats_name_cache_lookups_total",
	Help: "Name cache lookups by kind and result",
}, []string{"kind", "result"}) // result: "hit", "miss", "error"

const nameKeyPrefix = "corpstats:name:"

// CachedNames is a NameResolver that keeps resolved names in Redis. Names of
// characters, types and locations change rarely, and every reconciliation of
// every corporation asks for most of them again. Redis failures degrade to
// uncached lookups.
type CachedNames struct {
	next   ports.NameResolver
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.NameResolver = (*CachedNames)(nil)

// NewCachedNames wraps next with a Redis cache.
func NewCachedNames(next ports.NameResolver, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedNames {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedNames{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedNames) CharacterNames(ctx context.Context, ids []id.CharacterID) (map[id.CharacterID]string, error) {
	return cachedBatch(ctx, c, "character", ids, func(misses []id.CharacterID) (map[id.CharacterID]string, error) {
		return c.next.CharacterNames(ctx, misses)
	})
}

func (c *CachedNames) LocationNames(ctx context.Context, token models.Token, ids []id.LocationID) (map[id.LocationID]string, error) {
	return cachedBatch(ctx, c, "location", ids, func(misses []id.LocationID) (map[id.LocationID]string, error) {
		return c.next.LocationNames(ctx, token, misses)
	})
}

func (c *CachedNames) TypeName(ctx context.Context, typeID id.TypeID) (string, error) {
	names, err := cachedBatch(ctx, c, "type", []id.TypeID{typeID}, func(misses []id.TypeID) (map[id.TypeID]string, error) {
		name, err := c.next.TypeName(ctx, typeID)
		if err != nil {
			return nil, err
		}
		return map[id.TypeID]string{typeID: name}, nil
	})
	if err != nil {
		return "", err
	}
	return names[typeID], nil
}

func nameKey[K ~int64](kind string, k K) string {
	return nameKeyPrefix + kind + ":" + strconv.FormatInt(int64(k), 10)
}

// cachedBatch serves ids from Redis and fetches the rest from upstream, then
// stores what upstream resolved. Unresolved ids are not cached.
func cachedBatch[K ~int64](ctx context.Context, c *CachedNames, kind string, ids []K, fetch func([]K) (map[K]string, error)) (map[K]string, error) {
	out := make(map[K]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, k := range ids {
		keys[i] = nameKey(kind, k)
	}

	misses := ids
	values, err := c.client.MGet(ctx, keys...).Result()
	switch {
	case err != nil && !errors.Is(err, redis.Nil):
		nameCacheLookups.WithLabelValues(kind, "error").Inc()
		c.logger.WarnContext(ctx, "name cache read failed", "kind", kind, "error", err)
	default:
		misses = make([]K, 0, len(ids))
		for i, v := range values {
			if name, ok := v.(string); ok && name != "" {
				out[ids[i]] = name
				continue
			}
			misses = append(misses, ids[i])
		}
		nameCacheLookups.WithLabelValues(kind, "hit").Add(float64(len(ids) - len(misses)))
		nameCacheLookups.WithLabelValues(kind, "miss").Add(float64(len(misses)))
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := fetch(misses)
	if err != nil {
		return nil, err
	}

	pipe := c.client.Pipeline()
	for k, name := range fetched {
		out[k] = name
		if name != "" {
			pipe.Set(ctx, nameKey(kind, k), name, c.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "name cache write failed", "kind", kind, "error", err)
	}
	return out, nil
}
