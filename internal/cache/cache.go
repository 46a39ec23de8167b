package cache

import (
	"context"

	"github.com/annel0/world-graph/internal/world"
)

// ChunkCache кэширует снимки чанков между хранилищем и API.
// Отсутствие значения — не ошибка: Get возвращает (nil, nil).
type ChunkCache interface {
	Get(ctx context.Context, id world.ChunkID) (*world.ChunkSnapshot, error)
	Set(ctx context.Context, cs *world.ChunkSnapshot) error
	Invalidate(ctx context.Context, id world.ChunkID) error
	Close() error
}
