package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ib-77/skiprop/pkg/skip"
)

// Redis is a skip.Tracker that keeps stashed values in Redis. Keys are
// namespaced by prefix so several pipelines can share one server.
// It is safe for concurrent use.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	codec  Codec
}

// RedisOption configures NewRedis.
type RedisOption func(*Redis)

// WithTTL expires stashed values that were never popped or released.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// WithCodec replaces the default JSON codec.
func WithCodec(codec Codec) RedisOption {
	return func(r *Redis) {
		r.codec = codec
	}
}

// NewRedis creates a tracker on top of an existing client.
// Returns an error if prefix is empty.
func NewRedis(rdb *redis.Client, prefix string, opts ...RedisOption) (*Redis, error) {
	if prefix == "" {
		return nil, fmt.Errorf("redis tracker prefix cannot be empty")
	}

	r := &Redis{rdb: rdb, prefix: prefix, codec: JSON()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ValueKey returns the key a skip value is stored under.
// Pattern: skip:{prefix}:unit:{unit}:ns:{namespace}:name:{name}
func ValueKey(prefix string, unit skip.Unit, ns skip.Namespace, name string) string {
	return fmt.Sprintf("skip:%s:unit:%s:ns:%s:name:%s", prefix, unit, ns, name)
}

// UnitIndexKey returns the key of the set listing every value key of a unit.
// Pattern: skip:{prefix}:unit:{unit}:keys
func UnitIndexKey(prefix string, unit skip.Unit) string {
	return fmt.Sprintf("skip:%s:unit:%s:keys", prefix, unit)
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Load(ctx context.Context, unit skip.Unit, ns skip.Namespace, name string) (any, error) {
	key := ValueKey(r.prefix, unit, ns, name)
	index := UnitIndexKey(r.prefix, unit)

	var get *redis.StringCmd
	_, txErr := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.GetDel(ctx, key)
		// A failed SREM only leaves a stale index entry for Release.
		pipe.SRem(ctx, index, key)
		return nil
	})

	data, err := get.Bytes()
	if err == nil && len(data) == 0 {
		// framed values are never empty: the transaction did not run
		err = txErr
	}
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read skip value from Redis: %w", err)
	}

	v, err := unframe(r.codec, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode skip value '%s': %w", name, err)
	}
	return v, nil
}

func (r *Redis) Save(ctx context.Context, unit skip.Unit, ns skip.Namespace, name string, value any) error {
	data, err := frame(r.codec, value)
	if err != nil {
		return fmt.Errorf("failed to encode skip value '%s': %w", name, err)
	}

	key := ValueKey(r.prefix, unit, ns, name)
	index := UnitIndexKey(r.prefix, unit)

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, r.ttl)
		pipe.SAdd(ctx, index, key)
		if r.ttl > 0 {
			pipe.Expire(ctx, index, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write skip value to Redis: %w", err)
	}
	return nil
}

func (r *Redis) Release(ctx context.Context, unit skip.Unit) error {
	index := UnitIndexKey(r.prefix, unit)

	keys, err := r.rdb.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("failed to read unit index: %w", err)
	}

	keys = append(keys, index)
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to release unit %s: %w", unit, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
