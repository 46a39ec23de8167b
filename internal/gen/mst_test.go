package gen

import (
	"math/rand"
	"testing"

	"github.com/annel0/world-graph/internal/vec"
)

func TestMinimumSpanningTreeEdgeCount(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	points := PoissonDisc(150, 150, 15, rng)

	tree := MinimumSpanningTree(points)
	if len(tree) != len(points)-1 {
		t.Errorf("MST of %d points must have %d edges, got %d", len(points), len(points)-1, len(tree))
	}
}

func TestMinimumSpanningTreeSpansAllPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	points := PoissonDisc(150, 150, 15, rng)
	tree := MinimumSpanningTree(points)

	// Объединение рёбер должно покрывать все точки одной компонентой
	adj := make(map[int][]int)
	for _, e := range tree {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}

	visited := map[int]struct{}{0: {}}
	queue := []int{0}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adj[current] {
			if _, seen := visited[next]; !seen {
				visited[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}

	if len(visited) != len(points) {
		t.Errorf("MST connects %d of %d points", len(visited), len(points))
	}
}

func TestMinimumSpanningTreeKnownCase(t *testing.T) {
	// Три точки на прямой: оптимум — два коротких ребра, без длинного
	points := []vec.Vec2Float{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}
	tree := MinimumSpanningTree(points)

	if len(tree) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(tree))
	}
	total := tree[0].Weight + tree[1].Weight
	if total != 20 {
		t.Errorf("expected total weight 20, got %f", total)
	}
}

func TestMinimumSpanningTreeDegenerate(t *testing.T) {
	if tree := MinimumSpanningTree(nil); tree != nil {
		t.Errorf("MST of no points must be empty, got %v", tree)
	}
	if tree := MinimumSpanningTree([]vec.Vec2Float{{X: 1, Y: 1}}); tree != nil {
		t.Errorf("MST of one point must be empty, got %v", tree)
	}
}
