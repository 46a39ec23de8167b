package gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/annel0/world-graph/internal/config"
	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/terrain"
	"github.com/annel0/world-graph/internal/vec"
	"github.com/annel0/world-graph/internal/world"
)

// WorldGenerator строит граф мира: позиции чанков сэмплируются диском
// Пуассона, скелет связности — MST по евклидовым расстояниям, поверх
// которого добавляются циклы для альтернативных маршрутов. Затем каждому
// чанку вырезается окно слоёв ландшафта из общего поля шума.
type WorldGenerator struct {
	cfg     config.WorldConfig
	terrain *terrain.Generator
	logger  *logging.Logger
}

// NewWorldGenerator создаёт генератор мира с параметрами из конфигурации
func NewWorldGenerator(cfg config.WorldConfig, terrainParams terrain.Params) *WorldGenerator {
	return &WorldGenerator{
		cfg:     cfg,
		terrain: terrain.NewGenerator(cfg.Seed, terrainParams),
		logger:  logging.GetGenLogger(),
	}
}

// Generate строит полный граф мира. Результат детерминирован по сиду.
func (wg *WorldGenerator) Generate() (*world.WorldGraph, error) {
	started := time.Now()
	rng := rand.New(rand.NewSource(wg.cfg.Seed))

	samples := PoissonDisc(wg.cfg.Width, wg.cfg.Height, wg.cfg.Radius, rng)
	wg.logger.Info("📈 Poisson sampling done: %d points (radius %.1f)", len(samples), wg.cfg.Radius)

	graph := world.NewWorldGraph(wg.cfg.ChunkSpan)

	// Позиции чанков целочисленные; редкие коллизии после округления отбрасываем
	points := make([]vec.Vec2Float, 0, len(samples))
	ids := make([]world.ChunkID, 0, len(samples))
	for _, s := range samples {
		chunk, err := graph.AddChunk(s.ToVec2())
		if err != nil {
			continue
		}
		points = append(points, s)
		ids = append(ids, chunk.ID)
	}

	tree := MinimumSpanningTree(points)
	for _, e := range tree {
		if err := graph.ConnectBoth(ids[e.A], ids[e.B], world.PassageRoad); err != nil {
			return nil, fmt.Errorf("connect MST edge: %w", err)
		}
	}
	wg.logger.Info("📈 MST built: %d edges", len(tree))

	candidates := NearestCandidateEdges(points, wg.cfg.Neighbours)
	cycles := CycleEdges(candidates, tree, wg.cfg.Cycles, rng)
	for _, e := range cycles {
		if err := graph.ConnectBoth(ids[e.A], ids[e.B], world.PassageRoad); err != nil {
			return nil, fmt.Errorf("connect cycle edge: %w", err)
		}
	}
	wg.logger.Info("📈 Cycles added: %d of %d requested", len(cycles), wg.cfg.Cycles)

	for _, chunk := range graph.Chunks() {
		wg.generateChunkTerrain(chunk)
	}

	wg.logger.Info("✅ World generated: %d chunks, %d passages in %v",
		graph.ChunkCount(), graph.PassageCount(), time.Since(started))
	return graph, nil
}

// generateChunkTerrain вырезает окно слоёв ландшафта для чанка.
// Окна соседних чанков режутся из одного непрерывного поля шума,
// поэтому стыкуются без швов.
func (wg *WorldGenerator) generateChunkTerrain(chunk *world.Chunk) {
	span := chunk.Span
	xStart, yStart := chunk.Pos.X, chunk.Pos.Y
	p := wg.terrain.Params()

	elevation := wg.terrain.GenerateElevation(xStart, yStart, span, span)

	temperature := wg.terrain.GenerateTemperature(xStart, yStart, span, span)
	temperature = wg.terrain.AdjustTemperatureForElevation(temperature, elevation)

	moisture := wg.terrain.GenerateMoisture(xStart, yStart, span, span)
	wind := wg.terrain.GenerateWind(yStart, span, span)
	mountainLevel := p.MinElevation + 0.75*(p.MaxElevation-p.MinElevation)
	wind = wg.terrain.AdjustWindForElevation(wind, elevation, mountainLevel)
	orographic := wg.terrain.AdjustMoistureForOrographicEffect(moisture, elevation, wind)
	moisture = combineMoisture(moisture, orographic, p.MaxElevation-p.MinElevation)

	water := wg.terrain.GenerateWater(elevation)
	sources := wg.terrain.FindWaterSources(elevation)
	rivers := wg.terrain.GenerateRivers(elevation, water, sources)
	rivers = wg.terrain.GenerateLakes(elevation, rivers)
	water = mergeWater(water, rivers)

	chunk.SetTerrain(elevation, temperature, moisture, water)
	chunk.ClearChanges()
}

// combineMoisture добавляет к базовой влажности орографическую составляющую,
// нормированную на диапазон высот.
func combineMoisture(base, orographic terrain.Grid, elevationRange float64) terrain.Grid {
	combined := base.Clone()
	for i := range combined {
		for j := range combined[i] {
			combined[i][j] += orographic[i][j] / elevationRange
		}
	}
	return combined
}

// mergeWater накладывает реки и озёра поверх карты океана
func mergeWater(ocean, rivers terrain.Grid) terrain.Grid {
	merged := ocean.Clone()
	for i := range merged {
		for j := range merged[i] {
			if rivers[i][j] > merged[i][j] {
				merged[i][j] = rivers[i][j]
			}
		}
	}
	return merged
}
