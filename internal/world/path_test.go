package world

import (
	"errors"
	"math"
	"testing"

	"github.com/annel0/world-graph/internal/vec"
)

// линейный мир: a -- b -- c с двунаправленными проходами
func buildLine(t *testing.T) (*WorldGraph, []ChunkID) {
	t.Helper()
	g := NewWorldGraph(16)
	positions := []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}
	ids := make([]ChunkID, len(positions))
	for i, pos := range positions {
		c, err := g.AddChunk(pos)
		if err != nil {
			t.Fatalf("AddChunk: %v", err)
		}
		ids[i] = c.ID
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := g.ConnectBoth(ids[i], ids[i+1], PassageRoad); err != nil {
			t.Fatalf("ConnectBoth: %v", err)
		}
	}
	return g, ids
}

func TestShortestPathLine(t *testing.T) {
	g, ids := buildLine(t)

	path, total, err := g.ShortestPath(ids[0], ids[2])
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(path) != 3 || path[0] != ids[0] || path[2] != ids[2] {
		t.Errorf("unexpected path %v", path)
	}
	if math.Abs(total-20) > 1e-9 {
		t.Errorf("expected total length 20, got %f", total)
	}
}

func TestShortestPathPrefersShortcut(t *testing.T) {
	g, ids := buildLine(t)
	// Прямой, но длинный обходной путь через дальний чанк
	far, _ := g.AddChunk(vec.Vec2{X: 10, Y: 100})
	_ = g.ConnectBoth(ids[0], far.ID, PassageRoad)
	_ = g.ConnectBoth(far.ID, ids[2], PassageRoad)

	path, total, err := g.ShortestPath(ids[0], ids[2])
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if math.Abs(total-20) > 1e-9 {
		t.Errorf("Dijkstra took detour: length %f, path %v", total, path)
	}
}

func TestShortestPathSameChunk(t *testing.T) {
	g, ids := buildLine(t)

	path, total, err := g.ShortestPath(ids[1], ids[1])
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(path) != 1 || path[0] != ids[1] || total != 0 {
		t.Errorf("expected trivial path, got %v (%f)", path, total)
	}
}

func TestShortestPathRespectsDirection(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	b, _ := g.AddChunk(vec.Vec2{X: 5, Y: 0})
	_, _ = g.Connect(a.ID, b.ID, PassageRoad) // только a -> b

	if _, _, err := g.ShortestPath(a.ID, b.ID); err != nil {
		t.Errorf("forward path must exist: %v", err)
	}
	if _, _, err := g.ShortestPath(b.ID, a.ID); !errors.Is(err, ErrNoPath) {
		t.Errorf("expected ErrNoPath against edge direction, got %v", err)
	}
}

func TestHopDistances(t *testing.T) {
	g, ids := buildLine(t)

	dist := g.HopDistances(ids[0], -1)
	if dist[ids[0]] != 0 || dist[ids[1]] != 1 || dist[ids[2]] != 2 {
		t.Errorf("unexpected hop distances %v", dist)
	}

	limited := g.HopDistances(ids[0], 1)
	if _, ok := limited[ids[2]]; ok {
		t.Errorf("chunk beyond maxHops included: %v", limited)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 chunks within 1 hop, got %v", limited)
	}
}

func TestReachableAndConnectivity(t *testing.T) {
	g, ids := buildLine(t)
	if !g.IsConnected() {
		t.Error("line world must be connected")
	}
	if g.Reachable(ids[0]) != 3 {
		t.Errorf("expected 3 reachable chunks, got %d", g.Reachable(ids[0]))
	}

	island, _ := g.AddChunk(vec.Vec2{X: 500, Y: 500})
	if g.IsConnected() {
		t.Error("world with an isolated chunk reported as connected")
	}
	if g.Reachable(island.ID) != 1 {
		t.Errorf("isolated chunk reaches %d chunks", g.Reachable(island.ID))
	}
}
