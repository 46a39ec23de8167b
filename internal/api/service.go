package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/annel0/world-graph/internal/cache"
	"github.com/annel0/world-graph/internal/config"
	"github.com/annel0/world-graph/internal/eventbus"
	"github.com/annel0/world-graph/internal/gen"
	"github.com/annel0/world-graph/internal/juice"
	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/storage"
	"github.com/annel0/world-graph/internal/terrain"
	"github.com/annel0/world-graph/internal/world"
)

// WorldService владеет графом мира и его жизненным циклом: генерация,
// персистентность, кэш чанков и трекер интереса. REST-слой работает
// только через него.
type WorldService struct {
	mu      sync.RWMutex
	cfg     *config.Config
	graph   *world.WorldGraph
	tracker *juice.Tracker

	store      *storage.WorldStorage
	topology   storage.GraphRepository
	chunkCache cache.ChunkCache
	logger     *logging.Logger
}

// NewWorldService собирает сервис поверх готового графа.
// topology и chunkCache могут быть nil — тогда соответствующие слои выключены.
func NewWorldService(cfg *config.Config, graph *world.WorldGraph, store *storage.WorldStorage,
	topology storage.GraphRepository, chunkCache cache.ChunkCache) *WorldService {

	ws := &WorldService{
		cfg:        cfg,
		graph:      graph,
		store:      store,
		topology:   topology,
		chunkCache: chunkCache,
		logger:     logging.GetWorldLogger(),
	}
	ws.tracker = juice.NewTracker(graph, cfg.Juice)
	return ws
}

// Start запускает трекер интереса
func (ws *WorldService) Start() {
	ws.tracker.Start()
}

// Stop останавливает фоновые циклы сервиса
func (ws *WorldService) Stop() {
	ws.tracker.Stop()
}

// Graph возвращает текущий граф мира
func (ws *WorldService) Graph() *world.WorldGraph {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	return ws.graph
}

// Tracker возвращает трекер интереса
func (ws *WorldService) Tracker() *juice.Tracker {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	return ws.tracker
}

// Seed возвращает сид текущего мира
func (ws *WorldService) Seed() int64 {
	return ws.cfg.World.Seed
}

// Regenerate перегенерирует мир с указанным сидом и атомарно подменяет
// граф. Старый трекер останавливается, для нового графа запускается новый.
func (ws *WorldService) Regenerate(ctx context.Context, seed int64) error {
	cfg := ws.cfg.World
	cfg.Seed = seed

	generator := gen.NewWorldGenerator(cfg, terrain.ParamsFromConfig(ws.cfg.Terrain))
	graph, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("regenerate world: %w", err)
	}

	ws.mu.Lock()
	oldTracker := ws.tracker
	ws.graph = graph
	ws.cfg.World.Seed = seed
	ws.tracker = juice.NewTracker(graph, ws.cfg.Juice)
	ws.tracker.Start()
	ws.mu.Unlock()

	oldTracker.Stop()

	if err := ws.Save(ctx); err != nil {
		return err
	}

	payload, _ := json.Marshal(world.WorldGeneratedEvent{
		Seed:     seed,
		Chunks:   graph.ChunkCount(),
		Passages: graph.PassageCount(),
	})
	if err := eventbus.Publish(ctx, eventbus.NewEnvelope("world", eventbus.EventWorldGenerated, 7, payload)); err != nil {
		ws.logger.Warn("⚠️ publish world.generated: %v", err)
	}
	return nil
}

// Save сохраняет снимок мира в BadgerDB и топологию во внешний репозиторий
func (ws *WorldService) Save(ctx context.Context) error {
	snap := ws.Graph().Snapshot(ws.Seed())

	if ws.store != nil {
		if err := ws.store.SaveSnapshot(snap); err != nil {
			return err
		}
	}
	if ws.topology != nil {
		if err := ws.topology.SaveTopology(ctx, snap); err != nil {
			ws.logger.Warn("⚠️ save topology: %v", err)
		}
	}
	return nil
}

// ChunkSnapshot возвращает снимок чанка через кэш (read-through)
func (ws *WorldService) ChunkSnapshot(ctx context.Context, id world.ChunkID) (*world.ChunkSnapshot, error) {
	if ws.chunkCache != nil {
		if cached, err := ws.chunkCache.Get(ctx, id); err != nil {
			ws.logger.Warn("⚠️ cache get chunk %d: %v", id, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	chunk, ok := ws.Graph().Chunk(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", world.ErrChunkNotFound, id)
	}

	snap := chunk.Snapshot()
	cs := &snap

	if ws.chunkCache != nil {
		if err := ws.chunkCache.Set(ctx, cs); err != nil {
			ws.logger.Warn("⚠️ cache set chunk %d: %v", id, err)
		}
	}
	return cs, nil
}

// SetChunkMetadata изменяет метаданные чанка и публикует chunk.changed
func (ws *WorldService) SetChunkMetadata(ctx context.Context, id world.ChunkID, values map[string]interface{}) error {
	chunk, ok := ws.Graph().Chunk(id)
	if !ok {
		return fmt.Errorf("%w: %d", world.ErrChunkNotFound, id)
	}

	for key, value := range values {
		chunk.SetMetadata(key, value)
	}

	if ws.store != nil {
		cs, err := ws.ChunkSnapshotDirect(id)
		if err == nil {
			if err := ws.store.SaveChunk(cs); err != nil {
				ws.logger.Warn("⚠️ persist chunk %d: %v", id, err)
			} else {
				chunk.ClearChanges()
			}
		}
	}

	payload, _ := json.Marshal(world.ChunkChangedEvent{ChunkID: id})
	if err := eventbus.Publish(ctx, eventbus.NewEnvelope("world", eventbus.EventChunkChanged, 5, payload)); err != nil {
		ws.logger.Warn("⚠️ publish chunk.changed: %v", err)
	}
	return nil
}

// ChunkSnapshotDirect снимает чанк в обход кэша
func (ws *WorldService) ChunkSnapshotDirect(id world.ChunkID) (*world.ChunkSnapshot, error) {
	chunk, ok := ws.Graph().Chunk(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", world.ErrChunkNotFound, id)
	}
	snap := chunk.Snapshot()
	return &snap, nil
}

// RemoveChunk удаляет чанк из графа, хранилища и кэша
func (ws *WorldService) RemoveChunk(ctx context.Context, id world.ChunkID) error {
	if err := ws.Graph().RemoveChunk(id); err != nil {
		return err
	}
	if ws.store != nil {
		if err := ws.store.DeleteChunk(id); err != nil {
			ws.logger.Warn("⚠️ delete chunk %d from storage: %v", id, err)
		}
	}
	if ws.chunkCache != nil {
		if err := ws.chunkCache.Invalidate(ctx, id); err != nil {
			ws.logger.Warn("⚠️ invalidate chunk %d: %v", id, err)
		}
	}
	return nil
}

