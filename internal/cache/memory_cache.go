package cache

import (
	"context"
	"sync"

	"github.com/annel0/world-graph/internal/world"
)

// MemoryChunkCache кэш в памяти процесса. Для тестов и single-node запуска.
type MemoryChunkCache struct {
	mu      sync.RWMutex
	entries map[world.ChunkID]*world.ChunkSnapshot
}

// NewMemoryChunkCache создаёт пустой кэш
func NewMemoryChunkCache() *MemoryChunkCache {
	return &MemoryChunkCache{entries: make(map[world.ChunkID]*world.ChunkSnapshot)}
}

// Get возвращает чанк из кэша; промах — (nil, nil)
func (c *MemoryChunkCache) Get(_ context.Context, id world.ChunkID) (*world.ChunkSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.entries[id], nil
}

// Set кладёт чанк в кэш
func (c *MemoryChunkCache) Set(_ context.Context, cs *world.ChunkSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cs.ID] = cs
	return nil
}

// Invalidate удаляет чанк из кэша
func (c *MemoryChunkCache) Invalidate(_ context.Context, id world.ChunkID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
	return nil
}

// Close освобождает ресурсы (для памяти — no-op)
func (c *MemoryChunkCache) Close() error { return nil }
