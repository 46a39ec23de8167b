package juice

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/annel0/world-graph/internal/config"
	"github.com/annel0/world-graph/internal/eventbus"
	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/world"
)

var (
	loadedChunksGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "juice_loaded_chunks",
		Help: "Количество чанков, удерживаемых в загруженном состоянии",
	})
	trackedPlayersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "juice_tracked_players",
		Help: "Количество отслеживаемых игроков",
	})
)

// Tracker отслеживает интерес к чанкам ("джус") и решает, какие чанки
// держать загруженными. Интерес складывается из близости игроков
// (BFS-расстояние по проходам) и инерции недавнего посещения; чанки с
// интересом ниже порога выгружаются.
type Tracker struct {
	cfg    config.JuiceConfig
	graph  *world.WorldGraph
	logger *logging.Logger

	mu        sync.RWMutex
	players   map[string]world.ChunkID
	lastVisit map[world.ChunkID]int64 // тик, когда в чанке стоял игрок
	juice     map[world.ChunkID]float64
	loaded    map[world.ChunkID]struct{}
	tick      int64

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewTracker создаёт трекер интереса для графа мира
func NewTracker(graph *world.WorldGraph, cfg config.JuiceConfig) *Tracker {
	return &Tracker{
		cfg:       cfg,
		graph:     graph,
		logger:    logging.GetJuiceLogger(),
		players:   make(map[string]world.ChunkID),
		lastVisit: make(map[world.ChunkID]int64),
		juice:     make(map[world.ChunkID]float64),
		loaded:    make(map[world.ChunkID]struct{}),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start запускает цикл пересчёта интереса
func (t *Tracker) Start() {
	interval := time.Duration(t.cfg.TickMillis) * time.Millisecond
	go func() {
		defer close(t.doneCh)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		t.logger.Info("✅ Juice tracker started (tick %v)", interval)
		for {
			select {
			case <-ticker.C:
				t.Step(context.Background())
			case <-t.stopCh:
				t.logger.Info("🛑 Juice tracker stopped")
				return
			}
		}
	}()
}

// Stop останавливает цикл и дожидается его завершения
func (t *Tracker) Stop() {
	close(t.stopCh)
	<-t.doneCh
}

// SetPlayerPosition перемещает игрока в чанк. Чанк должен существовать.
func (t *Tracker) SetPlayerPosition(playerID string, chunkID world.ChunkID) error {
	if _, ok := t.graph.Chunk(chunkID); !ok {
		return fmt.Errorf("%w: %d", world.ErrChunkNotFound, chunkID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.players[playerID] = chunkID
	t.lastVisit[chunkID] = t.tick
	trackedPlayersGauge.Set(float64(len(t.players)))
	return nil
}

// RemovePlayer убирает игрока из отслеживания
func (t *Tracker) RemovePlayer(playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.players, playerID)
	trackedPlayersGauge.Set(float64(len(t.players)))
}

// Step выполняет один тик пересчёта: обновляет интерес всех чанков и
// публикует события загрузки/выгрузки при пересечении порога.
func (t *Tracker) Step(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tick++

	// BFS-расстояние до ближайшего игрока
	nearest := make(map[world.ChunkID]int)
	for _, at := range t.players {
		for id, d := range t.graph.HopDistances(at, t.cfg.MaxHops) {
			if best, seen := nearest[id]; !seen || d < best {
				nearest[id] = d
			}
		}
		t.lastVisit[at] = t.tick
	}

	next := make(map[world.ChunkID]float64)
	for id, d := range nearest {
		next[id] = t.cfg.ProximityWeight * t.cfg.JuiceAtPlayer * math.Exp(-t.cfg.DistanceDecay*float64(d))
	}
	for id, visitedAt := range t.lastVisit {
		since := float64(t.tick - visitedAt)
		next[id] += t.cfg.LingerWeight * t.cfg.MaxJuice * math.Exp(-t.cfg.LingerDecay*since)
	}

	for id, total := range next {
		_, isLoaded := t.loaded[id]
		switch {
		case total >= t.cfg.UnloadThreshold && !isLoaded:
			t.loaded[id] = struct{}{}
			t.publish(ctx, eventbus.EventChunkLoaded, id, total)
		case total < t.cfg.UnloadThreshold && isLoaded:
			delete(t.loaded, id)
			t.publish(ctx, eventbus.EventChunkUnloaded, id, total)
		}
	}
	// Чанки, выпавшие из расчёта целиком, тоже выгружаются
	for id := range t.loaded {
		if _, tracked := next[id]; !tracked {
			delete(t.loaded, id)
			t.publish(ctx, eventbus.EventChunkUnloaded, id, 0)
		}
	}

	t.juice = next
	loadedChunksGauge.Set(float64(len(t.loaded)))
}

// publish отправляет событие загрузки/выгрузки чанка. Вызывается под mu.
func (t *Tracker) publish(ctx context.Context, eventType string, id world.ChunkID, total float64) {
	var payload interface{}
	if eventType == eventbus.EventChunkLoaded {
		payload = world.ChunkLoadedEvent{ChunkID: id, Juice: total}
	} else {
		payload = world.ChunkUnloadedEvent{ChunkID: id, Juice: total}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("❌ marshal %s: %v", eventType, err)
		return
	}
	if err := eventbus.Publish(ctx, eventbus.NewEnvelope("juice", eventType, 3, data)); err != nil {
		t.logger.Warn("⚠️ publish %s for chunk %d: %v", eventType, id, err)
	}
	t.logger.Debug("🪵 %s: chunk %d (juice %.2f)", eventType, id, total)
}

// JuiceAt возвращает текущий интерес к чанку
func (t *Tracker) JuiceAt(id world.ChunkID) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.juice[id]
}

// IsLoaded возвращает true, если чанк удерживается загруженным
func (t *Tracker) IsLoaded(id world.ChunkID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.loaded[id]
	return ok
}

// LoadedChunks возвращает отсортированный список загруженных чанков
func (t *Tracker) LoadedChunks() []world.ChunkID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]world.ChunkID, 0, len(t.loaded))
	for id := range t.loaded {
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Players возвращает текущие позиции игроков
func (t *Tracker) Players() map[string]world.ChunkID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]world.ChunkID, len(t.players))
	for id, at := range t.players {
		result[id] = at
	}
	return result
}
