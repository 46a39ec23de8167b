package world

import (
	"fmt"
	"sort"

	"github.com/annel0/world-graph/internal/terrain"
	"github.com/annel0/world-graph/internal/vec"
)

// ChunkSnapshot сериализуемое состояние одного чанка
type ChunkSnapshot struct {
	ID   ChunkID  `json:"id"`
	Pos  vec.Vec2 `json:"pos"`
	Span int      `json:"span"`

	Elevation   terrain.Grid `json:"elevation,omitempty"`
	Temperature terrain.Grid `json:"temperature,omitempty"`
	Moisture    terrain.Grid `json:"moisture,omitempty"`
	Water       terrain.Grid `json:"water,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Snapshot снимает согласованную копию состояния чанка. Метаданные
// копируются, поэтому снимок можно сериализовать, не удерживая Mu,
// параллельно с SetMetadata.
func (c *Chunk) Snapshot() ChunkSnapshot {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	meta := make(map[string]interface{}, len(c.Metadata))
	for k, v := range c.Metadata {
		meta[k] = v
	}
	return ChunkSnapshot{
		ID:          c.ID,
		Pos:         c.Pos,
		Span:        c.Span,
		Elevation:   c.Elevation,
		Temperature: c.Temperature,
		Moisture:    c.Moisture,
		Water:       c.Water,
		Metadata:    meta,
	}
}

// PassageSnapshot сериализуемое состояние одного прохода
type PassageSnapshot struct {
	From   ChunkID     `json:"from"`
	To     ChunkID     `json:"to"`
	Kind   PassageKind `json:"kind"`
	Length float64     `json:"length"`
}

// GraphSnapshot полное сериализуемое состояние графа мира
type GraphSnapshot struct {
	Seed      int64             `json:"seed"`
	ChunkSpan int               `json:"chunk_span"`
	NextID    ChunkID           `json:"next_id"`
	Chunks    []ChunkSnapshot   `json:"chunks"`
	Passages  []PassageSnapshot `json:"passages"`
}

// Snapshot снимает согласованную копию графа для сохранения
func (g *WorldGraph) Snapshot(seed int64) *GraphSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := &GraphSnapshot{
		Seed:      seed,
		ChunkSpan: g.chunkSpan,
		NextID:    g.nextID,
		Chunks:    make([]ChunkSnapshot, 0, len(g.chunks)),
		Passages:  make([]PassageSnapshot, 0, g.passageCount),
	}

	for _, id := range g.sortedIDs() {
		snap.Chunks = append(snap.Chunks, g.chunks[id].Snapshot())

		for _, to := range sortedKeys(g.out[id]) {
			p := g.out[id][to]
			snap.Passages = append(snap.Passages, PassageSnapshot{
				From:   p.From,
				To:     p.To,
				Kind:   p.Kind,
				Length: p.Length,
			})
		}
	}
	return snap
}

// FromSnapshot восстанавливает граф мира из снимка
func FromSnapshot(snap *GraphSnapshot) (*WorldGraph, error) {
	g := NewWorldGraph(snap.ChunkSpan)

	for _, cs := range snap.Chunks {
		if _, taken := g.byPos[cs.Pos]; taken {
			return nil, fmt.Errorf("%w: chunk %d at (%d, %d)", ErrPositionTaken, cs.ID, cs.Pos.X, cs.Pos.Y)
		}
		chunk := NewChunk(cs.ID, cs.Pos, cs.Span)
		chunk.Elevation = cs.Elevation
		chunk.Temperature = cs.Temperature
		chunk.Moisture = cs.Moisture
		chunk.Water = cs.Water
		if cs.Metadata != nil {
			chunk.Metadata = cs.Metadata
		}
		g.insertChunk(chunk)
		if cs.ID >= g.nextID {
			g.nextID = cs.ID + 1
		}
	}
	if snap.NextID > g.nextID {
		g.nextID = snap.NextID
	}

	for _, ps := range snap.Passages {
		if _, err := g.Connect(ps.From, ps.To, ps.Kind); err != nil {
			return nil, fmt.Errorf("restore passage %d -> %d: %w", ps.From, ps.To, err)
		}
	}
	return g, nil
}

// sortedIDs возвращает идентификаторы чанков по возрастанию. Вызывается под mu.
func (g *WorldGraph) sortedIDs() []ChunkID {
	ids := make([]ChunkID, 0, len(g.chunks))
	for id := range g.chunks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedKeys(m map[ChunkID]*Passage) []ChunkID {
	keys := make([]ChunkID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
