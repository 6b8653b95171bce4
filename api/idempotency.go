package api

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "dedupe"

// RedisDeduper stores accepted idempotency keys in Redis so every instance
// rejects a replayed move or create request. Keys are scoped per tenant as
// dedupe:<tenant>:<key>; a client retrying a drop with the key returned in
// the first response gets a duplicate answer instead of a second task-moved
// command. When the command never reaches the queue the dispatcher removes
// the key again, so only enqueued commands stay deduplicated.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper using the provided Redis client. ttl
// bounds how long a replay is recognised (DEDUPER_TTL).
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (r *RedisDeduper) key(tenantID, key string) string {
	return dedupeKeyPrefix + ":" + tenantID + ":" + key
}

// Add records the key if it does not already exist. It returns true when the
// key was newly added and the caller should dispatch the commands, false for
// a replay. An empty key is an error: handlers generate one when the client
// sends none.
func (r *RedisDeduper) Add(ctx context.Context, tenantID, key string) (bool, error) {
	if key == "" {
		return false, errors.New("empty idempotency key")
	}
	return r.client.SetNX(ctx, r.key(tenantID, key), 1, r.ttl).Result()
}

// Remove deletes a previously recorded key. The dispatcher calls it when an
// enqueue fails or the dispatcher is already closed.
func (r *RedisDeduper) Remove(ctx context.Context, tenantID, key string) error {
	return r.client.Del(ctx, r.key(tenantID, key)).Err()
}
