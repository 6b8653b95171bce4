package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"kanban-api/domain"
)

type backend interface {
	FetchTasks(ctx context.Context, tenantID, module string) ([]domain.Task, error)
	EnqueueCommands(ctx context.Context, tenantID, module string, cmds []domain.Command) error
}

// noBaseline marks a pending board whose cached list was already gone when
// the command was enqueued.
const noBaseline = "-"

// Cache wraps a backend with Redis-backed caching of board task lists.
//
// The read model lags behind enqueued commands. After a command is sent the
// board is marked pending: lists identical to the one seen before the
// command are served but not cached, so a stale list never outlives the
// write that made it stale.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
func NewCache(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) FetchTasks(ctx context.Context, tenantID, module string) ([]domain.Task, error) {
	if tasks, ok := c.loadTasksFromCache(ctx, tenantID, module); ok {
		return tasks, nil
	}

	tasks, err := c.base.FetchTasks(ctx, tenantID, module)
	if err != nil {
		return nil, err
	}

	c.storeTasks(ctx, tenantID, module, tasks)
	return tasks, nil
}

func (c *Cache) EnqueueCommands(ctx context.Context, tenantID, module string, cmds []domain.Command) error {
	if err := c.base.EnqueueCommands(ctx, tenantID, module, cmds); err != nil {
		return err
	}

	c.markPending(ctx, tenantID, module)
	return nil
}

func (c *Cache) loadTasksFromCache(ctx context.Context, tenantID, module string) ([]domain.Task, bool) {
	if c.redis == nil {
		return nil, false
	}
	key := tasksCacheKey(tenantID, module)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
		return nil, false
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return nil, false
	}
	return tasks, true
}

func (c *Cache) storeTasks(ctx context.Context, tenantID, module string, tasks []domain.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	pendingKey := pendingCacheKey(tenantID, module)
	baseline, err := c.redis.Get(ctx, pendingKey).Result()
	switch {
	case err == redis.Nil:
	case err != nil:
		return
	case baseline == noBaseline:
		_ = c.redis.Set(ctx, pendingKey, fingerprint(data), c.ttl).Err()
		return
	case baseline == fingerprint(data):
		return
	default:
		_ = c.redis.Del(ctx, pendingKey).Err()
	}
	_ = c.redis.Set(ctx, tasksCacheKey(tenantID, module), data, c.ttl).Err()
}

func (c *Cache) markPending(ctx context.Context, tenantID, module string) {
	if c.redis == nil {
		return
	}
	key := tasksCacheKey(tenantID, module)
	if c.ttl == 0 {
		_ = c.redis.Del(ctx, key).Err()
		return
	}
	baseline := noBaseline
	if data, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		baseline = fingerprint(data)
	}
	_, _ = c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.Set(ctx, pendingCacheKey(tenantID, module), baseline, c.ttl)
		return nil
	})
}

func fingerprint(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

func tasksCacheKey(tenantID, module string) string {
	return "tasks:" + tenantID + ":" + module
}

func pendingCacheKey(tenantID, module string) string {
	return "tasks-pending:" + tenantID + ":" + module
}
