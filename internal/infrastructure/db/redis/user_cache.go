package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/user-directory/internal/core/ports"
)

const (
	DefaultCacheTTL = 5 * time.Minute

	keyList   = "user:list"
	keyPrefix = "user:id:"
)

// UserCache stores directory projections as JSON. Password digests are never
// written since ports.UserDetail does not carry them.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &UserCache{rdb: rdb, ttl: ttl}
}

func (c *UserCache) GetUser(ctx context.Context, id int64) (*ports.UserDetail, error) {
	var u ports.UserDetail
	hit, err := c.get(ctx, userKey(id), &u)
	if err != nil || !hit {
		return nil, err
	}
	return &u, nil
}

func (c *UserCache) SetUser(ctx context.Context, user ports.UserDetail) error {
	return c.set(ctx, userKey(user.ID), user)
}

func (c *UserCache) GetList(ctx context.Context) ([]ports.UserDetail, error) {
	var list []ports.UserDetail
	hit, err := c.get(ctx, keyList, &list)
	if err != nil || !hit {
		return nil, err
	}
	if list == nil {
		list = []ports.UserDetail{}
	}
	return list, nil
}

func (c *UserCache) SetList(ctx context.Context, users []ports.UserDetail) error {
	return c.set(ctx, keyList, users)
}

func (c *UserCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.rdb.Del(ctx, userKey(id), keyList).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *UserCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *UserCache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func userKey(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}
