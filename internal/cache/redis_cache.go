package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/world"
)

// RedisChunkCache кэширует чанки в Redis с TTL
type RedisChunkCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisChunkCache подключается к Redis и проверяет доступность
func NewRedisChunkCache(addr string, ttl time.Duration) (*RedisChunkCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return &RedisChunkCache{
		client: client,
		ttl:    ttl,
		logger: logging.GetStorageLogger(),
	}, nil
}

// Get возвращает чанк из кэша; промах — (nil, nil)
func (c *RedisChunkCache) Get(ctx context.Context, id world.ChunkID) (*world.ChunkSnapshot, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get chunk %d: %w", id, err)
	}

	var cs world.ChunkSnapshot
	if err := json.Unmarshal(data, &cs); err != nil {
		// Битое значение выкидываем из кэша, а не возвращаем ошибку наверх
		c.logger.Warn("⚠️ corrupt cache entry for chunk %d, dropping: %v", id, err)
		c.client.Del(ctx, cacheKey(id))
		return nil, nil
	}
	return &cs, nil
}

// Set кладёт чанк в кэш с TTL
func (c *RedisChunkCache) Set(ctx context.Context, cs *world.ChunkSnapshot) error {
	data, err := json.Marshal(cs)
	if err != nil {
		return fmt.Errorf("marshal chunk %d: %w", cs.ID, err)
	}
	if err := c.client.Set(ctx, cacheKey(cs.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set chunk %d: %w", cs.ID, err)
	}
	return nil
}

// Invalidate удаляет чанк из кэша
func (c *RedisChunkCache) Invalidate(ctx context.Context, id world.ChunkID) error {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del chunk %d: %w", id, err)
	}
	return nil
}

// Close закрывает подключение
func (c *RedisChunkCache) Close() error { return c.client.Close() }

func cacheKey(id world.ChunkID) string {
	return fmt.Sprintf("world:chunk:%d", id)
}
