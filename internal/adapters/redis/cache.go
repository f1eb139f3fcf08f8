package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rafaelleal24/shopping/internal/core/port"
)

// Cache stores values of T as JSON under "<prefix>:<key>".
type Cache[T any] struct {
	client *Client
	prefix string
}

func NewCache[T any](client *Client, prefix string) port.CachePort[T] {
	return &Cache[T]{client: client, prefix: prefix}
}

func (c *Cache[T]) key(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

// Get returns (nil, nil) on a miss.
func (c *Cache[T]) Get(ctx context.Context, key string) (*T, error) {
	data, err := c.client.Get(ctx, c.key(key))
	if errors.Is(err, ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return &value, nil
}

func (c *Cache[T]) Set(ctx context.Context, key string, value *T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, ttl)
}

func (c *Cache[T]) SetNX(ctx context.Context, key string, value *T, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return c.client.SetNX(ctx, c.key(key), data, ttl)
}

func (c *Cache[T]) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key))
}
