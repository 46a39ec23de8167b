package juice

import (
	"context"
	"testing"

	"github.com/annel0/world-graph/internal/config"
	"github.com/annel0/world-graph/internal/vec"
	"github.com/annel0/world-graph/internal/world"
)

func testJuiceConfig() config.JuiceConfig {
	return config.JuiceConfig{
		MaxJuice:        100,
		JuiceAtPlayer:   100,
		DistanceDecay:   0.5,
		LingerDecay:     0.1,
		ProximityWeight: 0.70,
		LingerWeight:    0.30,
		UnloadThreshold: 25,
		TickMillis:      1000,
		MaxHops:         12,
	}
}

// линейный мир из n чанков с двунаправленными проходами
func lineWorld(t *testing.T, n int) (*world.WorldGraph, []world.ChunkID) {
	t.Helper()
	g := world.NewWorldGraph(16)
	ids := make([]world.ChunkID, n)
	for i := 0; i < n; i++ {
		c, err := g.AddChunk(vec.Vec2{X: i * 10, Y: 0})
		if err != nil {
			t.Fatalf("AddChunk: %v", err)
		}
		ids[i] = c.ID
	}
	for i := 0; i+1 < n; i++ {
		if err := g.ConnectBoth(ids[i], ids[i+1], world.PassageRoad); err != nil {
			t.Fatalf("ConnectBoth: %v", err)
		}
	}
	return g, ids
}

func TestJuiceDecaysWithDistance(t *testing.T) {
	g, ids := lineWorld(t, 6)
	tr := NewTracker(g, testJuiceConfig())

	if err := tr.SetPlayerPosition("p1", ids[0]); err != nil {
		t.Fatalf("SetPlayerPosition: %v", err)
	}
	tr.Step(context.Background())

	prev := tr.JuiceAt(ids[0])
	if prev <= 0 {
		t.Fatalf("player chunk has no juice: %f", prev)
	}
	for i := 1; i < len(ids); i++ {
		current := tr.JuiceAt(ids[i])
		if current >= prev {
			t.Errorf("juice must decay with hops: chunk %d has %.2f, previous %.2f", i, current, prev)
		}
		prev = current
	}
}

func TestChunkLoadsNearPlayerAndUnloadsAfterLeaving(t *testing.T) {
	g, ids := lineWorld(t, 10)
	tr := NewTracker(g, testJuiceConfig())

	_ = tr.SetPlayerPosition("p1", ids[0])
	tr.Step(context.Background())

	if !tr.IsLoaded(ids[0]) {
		t.Fatal("player chunk must load immediately")
	}
	if !tr.IsLoaded(ids[1]) {
		t.Error("adjacent chunk must be above threshold")
	}
	if tr.IsLoaded(ids[9]) {
		t.Error("far chunk must stay unloaded")
	}

	// Игрок уходит на другой конец мира: интерес к старту угасает
	_ = tr.SetPlayerPosition("p1", ids[9])
	for i := 0; i < 60; i++ {
		tr.Step(context.Background())
	}

	if tr.IsLoaded(ids[0]) {
		t.Errorf("abandoned chunk still loaded with juice %.2f", tr.JuiceAt(ids[0]))
	}
	if !tr.IsLoaded(ids[9]) {
		t.Error("new player chunk must be loaded")
	}
}

func TestLingerKeepsRecentChunkLoaded(t *testing.T) {
	g, ids := lineWorld(t, 20)
	tr := NewTracker(g, testJuiceConfig())

	_ = tr.SetPlayerPosition("p1", ids[0])
	tr.Step(context.Background())
	_ = tr.SetPlayerPosition("p1", ids[19])
	tr.Step(context.Background())

	// Сразу после ухода линжер ещё держит чанк выше порога:
	// 0.30 * 100 * exp(-0.1) ~ 27 > 25
	if !tr.IsLoaded(ids[0]) {
		t.Errorf("chunk must linger right after the player leaves, juice %.2f", tr.JuiceAt(ids[0]))
	}
}

func TestNearestPlayerWins(t *testing.T) {
	g, ids := lineWorld(t, 9)
	tr := NewTracker(g, testJuiceConfig())

	_ = tr.SetPlayerPosition("near", ids[3])
	_ = tr.SetPlayerPosition("far", ids[8])
	tr.Step(context.Background())

	// Для ids[4] ближайший игрок на расстоянии 1, а не 4
	cfg := testJuiceConfig()
	minExpected := cfg.ProximityWeight * cfg.JuiceAtPlayer * 0.6 // exp(-0.5) ~ 0.607
	if tr.JuiceAt(ids[4]) < minExpected {
		t.Errorf("juice %.2f ignores the nearest player", tr.JuiceAt(ids[4]))
	}
}

func TestSetPlayerPositionUnknownChunk(t *testing.T) {
	g, _ := lineWorld(t, 3)
	tr := NewTracker(g, testJuiceConfig())

	if err := tr.SetPlayerPosition("p1", 999); err == nil {
		t.Error("expected error for unknown chunk")
	}
}

func TestRemovePlayerReleasesChunks(t *testing.T) {
	g, ids := lineWorld(t, 5)
	tr := NewTracker(g, testJuiceConfig())

	_ = tr.SetPlayerPosition("p1", ids[2])
	tr.Step(context.Background())
	if len(tr.LoadedChunks()) == 0 {
		t.Fatal("no chunks loaded around player")
	}

	tr.RemovePlayer("p1")
	for i := 0; i < 60; i++ {
		tr.Step(context.Background())
	}
	if len(tr.LoadedChunks()) != 0 {
		t.Errorf("chunks still loaded after player removal: %v", tr.LoadedChunks())
	}
}
