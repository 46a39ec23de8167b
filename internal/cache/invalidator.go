package cache

import (
	"context"
	"encoding/json"

	"github.com/annel0/world-graph/internal/eventbus"
	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/world"
)

// Invalidator слушает события chunk.changed на шине и выбрасывает
// изменённые чанки из кэша. При работе через NATS это синхронизирует
// кэши всех узлов.
type Invalidator struct {
	cache  ChunkCache
	sub    eventbus.Subscription
	logger *logging.Logger
}

// StartInvalidator подписывает кэш на события изменения чанков
func StartInvalidator(ctx context.Context, bus eventbus.EventBus, cache ChunkCache) (*Invalidator, error) {
	inv := &Invalidator{
		cache:  cache,
		logger: logging.GetStorageLogger(),
	}

	filter := eventbus.Filter{Types: []string{eventbus.EventChunkChanged}}
	sub, err := bus.Subscribe(ctx, filter, inv.handle)
	if err != nil {
		return nil, err
	}
	inv.sub = sub
	return inv, nil
}

func (inv *Invalidator) handle(ctx context.Context, ev *eventbus.Envelope) {
	var payload world.ChunkChangedEvent
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		inv.logger.Warn("⚠️ malformed chunk.changed payload: %v", err)
		return
	}
	if err := inv.cache.Invalidate(ctx, payload.ChunkID); err != nil {
		inv.logger.Warn("⚠️ invalidate chunk %d: %v", payload.ChunkID, err)
		return
	}
	inv.logger.Debug("🪵 cache invalidated for chunk %d", payload.ChunkID)
}

// Stop отписывается от шины
func (inv *Invalidator) Stop() {
	if inv.sub != nil {
		inv.sub.Unsubscribe()
	}
}
