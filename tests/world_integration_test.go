package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/world-graph/internal/config"
	"github.com/annel0/world-graph/internal/eventbus"
	"github.com/annel0/world-graph/internal/gen"
	"github.com/annel0/world-graph/internal/juice"
	"github.com/annel0/world-graph/internal/storage"
	"github.com/annel0/world-graph/internal/terrain"
	"github.com/annel0/world-graph/internal/world"
)

func smallConfig(seed int64) *config.Config {
	cfg := config.Default()
	cfg.World.Seed = seed
	cfg.World.Width = 300
	cfg.World.Height = 300
	cfg.World.Radius = 30
	cfg.World.Cycles = 15
	cfg.World.ChunkSpan = 8
	return cfg
}

// Полный цикл: генерация -> сохранение -> рестарт -> восстановление.
func TestGenerateSaveRestore(t *testing.T) {
	cfg := smallConfig(1234)
	generator := gen.NewWorldGenerator(cfg.World, terrain.ParamsFromConfig(cfg.Terrain))

	graph, err := generator.Generate()
	require.NoError(t, err)
	require.True(t, graph.IsConnected(), "generated world must be connected")

	dataDir := t.TempDir()
	store, err := storage.NewWorldStorage(dataDir)
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(graph.Snapshot(cfg.World.Seed)))
	require.NoError(t, store.Close())

	// Имитация рестарта процесса
	store, err = storage.NewWorldStorage(dataDir)
	require.NoError(t, err)
	defer store.Close()

	snap, err := store.LoadSnapshot()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(1234), snap.Seed)

	restored, err := world.FromSnapshot(snap)
	require.NoError(t, err)

	assert.Equal(t, graph.ChunkCount(), restored.ChunkCount())
	assert.Equal(t, graph.PassageCount(), restored.PassageCount())
	assert.True(t, restored.IsConnected())

	// Террейн пережил round trip
	for _, id := range restored.ChunkIDs() {
		chunk, ok := restored.Chunk(id)
		require.True(t, ok)
		assert.True(t, chunk.HasTerrain(), "chunk %d lost terrain", id)
	}

	// Кратчайшие пути совпадают на обоих графах
	ids := graph.ChunkIDs()
	from, to := ids[0], ids[len(ids)-1]
	originalPath, originalLen, err := graph.ShortestPath(from, to)
	require.NoError(t, err)
	restoredPath, restoredLen, err := restored.ShortestPath(from, to)
	require.NoError(t, err)
	assert.Equal(t, originalPath, restoredPath)
	assert.InDelta(t, originalLen, restoredLen, 1e-9)
}

// Симуляция: игрок путешествует по миру, чанки загружаются и выгружаются,
// события уходят в шину.
func TestJuiceLifecycleOverGeneratedWorld(t *testing.T) {
	cfg := smallConfig(99)
	generator := gen.NewWorldGenerator(cfg.World, terrain.ParamsFromConfig(cfg.Terrain))
	graph, err := generator.Generate()
	require.NoError(t, err)

	bus := eventbus.NewMemoryBus(256)
	eventbus.Init(bus)
	defer eventbus.Init(nil)

	tracker := juice.NewTracker(graph, cfg.Juice)
	ctx := context.Background()

	ids := graph.ChunkIDs()
	start, finish := ids[0], ids[len(ids)-1]

	require.NoError(t, tracker.SetPlayerPosition("traveller", start))
	tracker.Step(ctx)

	assert.True(t, tracker.IsLoaded(start))
	loadedAtStart := len(tracker.LoadedChunks())
	assert.Greater(t, loadedAtStart, 0)

	// Игрок телепортируется на другой конец мира и сидит там
	require.NoError(t, tracker.SetPlayerPosition("traveller", finish))
	for i := 0; i < 80; i++ {
		tracker.Step(ctx)
	}

	assert.True(t, tracker.IsLoaded(finish))
	if start != finish {
		hops := graph.HopDistances(finish, -1)
		if d, reachable := hops[start]; !reachable || d > cfg.Juice.MaxHops {
			assert.False(t, tracker.IsLoaded(start), "far chunk must unload eventually")
		}
	}

	stats := bus.Metrics()
	assert.Greater(t, stats.Published, uint64(0), "load/unload events must reach the bus")
}

// Детерминизм поверх полного пайплайна: один сид — бит-в-бит одинаковые снимки.
func TestFullPipelineDeterminism(t *testing.T) {
	build := func() *world.GraphSnapshot {
		cfg := smallConfig(2026)
		g, err := gen.NewWorldGenerator(cfg.World, terrain.ParamsFromConfig(cfg.Terrain)).Generate()
		require.NoError(t, err)
		return g.Snapshot(cfg.World.Seed)
	}

	first := build()
	second := build()

	require.Equal(t, len(first.Chunks), len(second.Chunks))
	require.Equal(t, len(first.Passages), len(second.Passages))
	assert.Equal(t, first.Passages, second.Passages)
	for i := range first.Chunks {
		assert.Equal(t, first.Chunks[i].Pos, second.Chunks[i].Pos)
		assert.Equal(t, first.Chunks[i].Elevation, second.Chunks[i].Elevation)
	}
}
