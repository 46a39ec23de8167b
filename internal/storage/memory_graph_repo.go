package storage

import (
	"context"
	"sync"

	"github.com/annel0/world-graph/internal/world"
)

// MemoryGraphRepo хранит топологию в памяти. Для тестов и single-node запуска.
type MemoryGraphRepo struct {
	mu   sync.RWMutex
	snap *world.GraphSnapshot
}

// NewMemoryGraphRepo создаёт пустой репозиторий топологии
func NewMemoryGraphRepo() *MemoryGraphRepo {
	return &MemoryGraphRepo{}
}

// SaveTopology перезаписывает топологию мира
func (r *MemoryGraphRepo) SaveTopology(_ context.Context, snap *world.GraphSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stripped := &world.GraphSnapshot{
		Seed:      snap.Seed,
		ChunkSpan: snap.ChunkSpan,
		NextID:    snap.NextID,
		Passages:  append([]world.PassageSnapshot(nil), snap.Passages...),
	}
	for _, c := range snap.Chunks {
		stripped.Chunks = append(stripped.Chunks, world.ChunkSnapshot{
			ID:   c.ID,
			Pos:  c.Pos,
			Span: c.Span,
		})
	}
	r.snap = stripped
	return nil
}

// LoadTopology читает топологию; (nil, nil), если мир не сохранялся
func (r *MemoryGraphRepo) LoadTopology(_ context.Context) (*world.GraphSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snap, nil
}

// Close освобождает ресурсы (для памяти — no-op)
func (r *MemoryGraphRepo) Close() error { return nil }
