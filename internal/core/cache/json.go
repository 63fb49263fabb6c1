package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry 一个固定 key 的 JSON 缓存项，值类型为 T
type Entry[T any] struct {
	c   *Cache
	key string
	ttl time.Duration
}

func NewEntry[T any](c *Cache, key string, ttl time.Duration) Entry[T] {
	return Entry[T]{c: c, key: key, ttl: ttl}
}

// Get 命中直接解码；未命中调用 load 并写回。load 的错误不缓存。
func (e Entry[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	var out T
	b, err := e.c.GetOrLoad(ctx, e.key, e.ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}

// Invalidate 让下一次 Get 回源
func (e Entry[T]) Invalidate(ctx context.Context) error {
	return e.c.Del(ctx, e.key)
}
