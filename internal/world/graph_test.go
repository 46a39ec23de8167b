package world

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/annel0/world-graph/internal/vec"
)

func TestAddChunkAssignsSequentialIDs(t *testing.T) {
	g := NewWorldGraph(16)

	a, err := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("AddChunk: %v", err)
	}
	b, err := g.AddChunk(vec.Vec2{X: 10, Y: 0})
	if err != nil {
		t.Fatalf("AddChunk: %v", err)
	}

	if a.ID != 1 || b.ID != 2 {
		t.Errorf("expected IDs 1 and 2, got %d and %d", a.ID, b.ID)
	}
	if g.ChunkCount() != 2 {
		t.Errorf("expected 2 chunks, got %d", g.ChunkCount())
	}
}

func TestAddChunkRejectsDuplicatePosition(t *testing.T) {
	g := NewWorldGraph(16)
	pos := vec.Vec2{X: 5, Y: 5}

	if _, err := g.AddChunk(pos); err != nil {
		t.Fatalf("AddChunk: %v", err)
	}
	_, err := g.AddChunk(pos)
	if !errors.Is(err, ErrPositionTaken) {
		t.Errorf("expected ErrPositionTaken, got %v", err)
	}
}

func TestChunkAt(t *testing.T) {
	g := NewWorldGraph(16)
	pos := vec.Vec2{X: 3, Y: 7}
	added, _ := g.AddChunk(pos)

	found, ok := g.ChunkAt(pos)
	if !ok || found.ID != added.ID {
		t.Errorf("ChunkAt(%v) = %v, %v; want chunk %d", pos, found, ok, added.ID)
	}

	if _, ok := g.ChunkAt(vec.Vec2{X: 99, Y: 99}); ok {
		t.Error("ChunkAt returned chunk for empty position")
	}
}

func TestConnectCreatesDirectedPassage(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	b, _ := g.AddChunk(vec.Vec2{X: 3, Y: 4})

	p, err := g.Connect(a.ID, b.ID, PassageRoad)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if p.Length != 5 {
		t.Errorf("expected length 5 for (0,0)->(3,4), got %f", p.Length)
	}

	// Проход направленный: обратного ребра нет
	if _, ok := g.Passage(b.ID, a.ID); ok {
		t.Error("reverse passage must not exist after a single Connect")
	}
	if g.PassageCount() != 1 {
		t.Errorf("expected 1 passage, got %d", g.PassageCount())
	}
}

func TestConnectRejectsSelfLoopAndDuplicate(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	b, _ := g.AddChunk(vec.Vec2{X: 1, Y: 0})

	if _, err := g.Connect(a.ID, a.ID, PassageRoad); !errors.Is(err, ErrSelfPassage) {
		t.Errorf("expected ErrSelfPassage, got %v", err)
	}

	if _, err := g.Connect(a.ID, b.ID, PassageRoad); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := g.Connect(a.ID, b.ID, PassageRoad); !errors.Is(err, ErrPassageExists) {
		t.Errorf("expected ErrPassageExists, got %v", err)
	}

	if _, err := g.Connect(a.ID, 42, PassageRoad); !errors.Is(err, ErrChunkNotFound) {
		t.Errorf("expected ErrChunkNotFound, got %v", err)
	}
}

func TestConnectBothCreatesSymmetricPair(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	b, _ := g.AddChunk(vec.Vec2{X: 4, Y: 0})

	if err := g.ConnectBoth(a.ID, b.ID, PassageRoad); err != nil {
		t.Fatalf("ConnectBoth: %v", err)
	}
	if g.PassageCount() != 2 {
		t.Errorf("expected 2 passages, got %d", g.PassageCount())
	}

	forward, _ := g.Passage(a.ID, b.ID)
	backward, _ := g.Passage(b.ID, a.ID)
	if forward.Length != backward.Length {
		t.Errorf("symmetric passages differ in length: %f vs %f", forward.Length, backward.Length)
	}
}

func TestRemoveChunkCascadesPassages(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	b, _ := g.AddChunk(vec.Vec2{X: 1, Y: 0})
	c, _ := g.AddChunk(vec.Vec2{X: 2, Y: 0})

	_ = g.ConnectBoth(a.ID, b.ID, PassageRoad)
	_ = g.ConnectBoth(b.ID, c.ID, PassageRoad)

	if err := g.RemoveChunk(b.ID); err != nil {
		t.Fatalf("RemoveChunk: %v", err)
	}

	if g.ChunkCount() != 2 {
		t.Errorf("expected 2 chunks after removal, got %d", g.ChunkCount())
	}
	if g.PassageCount() != 0 {
		t.Errorf("expected 0 passages after cascade, got %d", g.PassageCount())
	}
	if len(g.PassagesFrom(a.ID)) != 0 || len(g.PassagesTo(c.ID)) != 0 {
		t.Error("dangling passages remain after chunk removal")
	}

	// Позиция удалённого чанка снова свободна
	if _, err := g.AddChunk(vec.Vec2{X: 1, Y: 0}); err != nil {
		t.Errorf("position not freed after removal: %v", err)
	}
}

func TestDisconnect(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	b, _ := g.AddChunk(vec.Vec2{X: 1, Y: 0})
	_ = g.ConnectBoth(a.ID, b.ID, PassageRoad)

	if err := g.Disconnect(a.ID, b.ID); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if _, ok := g.Passage(a.ID, b.ID); ok {
		t.Error("passage still present after Disconnect")
	}
	// Встречное ребро не затронуто
	if _, ok := g.Passage(b.ID, a.ID); !ok {
		t.Error("reverse passage removed by Disconnect of the forward one")
	}

	if err := g.Disconnect(a.ID, b.ID); !errors.Is(err, ErrPassageNotFound) {
		t.Errorf("expected ErrPassageNotFound, got %v", err)
	}
}

func TestNeighboursSorted(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	b, _ := g.AddChunk(vec.Vec2{X: 1, Y: 0})
	c, _ := g.AddChunk(vec.Vec2{X: 0, Y: 1})

	_, _ = g.Connect(a.ID, c.ID, PassageRoad)
	_, _ = g.Connect(a.ID, b.ID, PassageRoad)

	got := g.Neighbours(a.ID)
	if len(got) != 2 || got[0] != b.ID || got[1] != c.ID {
		t.Errorf("Neighbours = %v, want [%d %d]", got, b.ID, c.ID)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	b, _ := g.AddChunk(vec.Vec2{X: 7, Y: 2})
	_ = g.ConnectBoth(a.ID, b.ID, PassageRiver)
	a.SetMetadata("biome", "tundra")

	restored, err := FromSnapshot(g.Snapshot(1234))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	if restored.ChunkCount() != g.ChunkCount() {
		t.Errorf("chunk count mismatch: %d vs %d", restored.ChunkCount(), g.ChunkCount())
	}
	if restored.PassageCount() != g.PassageCount() {
		t.Errorf("passage count mismatch: %d vs %d", restored.PassageCount(), g.PassageCount())
	}

	rc, ok := restored.Chunk(a.ID)
	if !ok {
		t.Fatalf("chunk %d missing after restore", a.ID)
	}
	if biome, _ := rc.GetMetadata("biome"); biome != "tundra" {
		t.Errorf("metadata lost in round trip: %v", biome)
	}
	p, ok := restored.Passage(a.ID, b.ID)
	if !ok || p.Kind != PassageRiver {
		t.Errorf("passage kind lost in round trip: %v, %v", p, ok)
	}

	// Новые чанки не конфликтуют по идентификаторам со старыми
	c, err := restored.AddChunk(vec.Vec2{X: 100, Y: 100})
	if err != nil {
		t.Fatalf("AddChunk after restore: %v", err)
	}
	if c.ID <= b.ID {
		t.Errorf("restored graph reused ID %d", c.ID)
	}
}

func TestSnapshotDetachedFromLiveMetadata(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})
	a.SetMetadata("biome", "tundra")

	snap := g.Snapshot(1)
	a.SetMetadata("biome", "desert")
	a.SetMetadata("owner", "guild-7")

	if got := snap.Chunks[0].Metadata["biome"]; got != "tundra" {
		t.Errorf("snapshot metadata mutated after write: %v", got)
	}
	if _, leaked := snap.Chunks[0].Metadata["owner"]; leaked {
		t.Error("write after Snapshot leaked into the snapshot map")
	}
}

func TestSnapshotMarshalDuringMetadataWrites(t *testing.T) {
	g := NewWorldGraph(16)
	a, _ := g.AddChunk(vec.Vec2{X: 0, Y: 0})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			a.SetMetadata("tick", i)
		}
	}()

	// Сериализация снимка идёт без мьютекса чанка и не должна гоняться
	// с параллельными записями метаданных
	for i := 0; i < 100; i++ {
		if _, err := json.Marshal(g.Snapshot(1)); err != nil {
			t.Fatalf("marshal snapshot: %v", err)
		}
	}
	<-done
}
