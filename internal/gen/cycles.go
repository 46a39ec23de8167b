package gen

import (
	"math/rand"
	"sort"

	"github.com/annel0/world-graph/internal/vec"
)

// edgeKey нормализованный ключ неориентированного ребра (A < B)
type edgeKey struct {
	a, b int
}

func keyOf(e Edge) edgeKey {
	if e.A < e.B {
		return edgeKey{a: e.A, b: e.B}
	}
	return edgeKey{a: e.B, b: e.A}
}

// NearestCandidateEdges строит множество рёбер-кандидатов: для каждой точки —
// рёбра к её k ближайшим соседям. Дубликаты (встречные пары) схлопываются.
func NearestCandidateEdges(points []vec.Vec2Float, k int) []Edge {
	n := len(points)
	seen := make(map[edgeKey]struct{})
	var result []Edge

	for i := 0; i < n; i++ {
		neighbours := make([]Edge, 0, n-1)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			neighbours = append(neighbours, Edge{
				A:      i,
				B:      j,
				Weight: points[i].DistanceTo(points[j]),
			})
		}
		sort.Slice(neighbours, func(a, b int) bool {
			return neighbours[a].Weight < neighbours[b].Weight
		})

		limit := k
		if limit > len(neighbours) {
			limit = len(neighbours)
		}
		for _, e := range neighbours[:limit] {
			key := keyOf(e)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, e)
		}
	}
	return result
}

// CycleEdges выбирает до numCycles случайных рёбер-кандидатов, не входящих
// в дерево: каждое такое ребро замыкает цикл и даёт альтернативный маршрут.
func CycleEdges(candidates, tree []Edge, numCycles int, rng *rand.Rand) []Edge {
	inTree := make(map[edgeKey]struct{}, len(tree))
	for _, e := range tree {
		inTree[keyOf(e)] = struct{}{}
	}

	pool := make([]Edge, 0, len(candidates))
	for _, e := range candidates {
		if _, dup := inTree[keyOf(e)]; !dup {
			pool = append(pool, e)
		}
	}

	if numCycles >= len(pool) {
		return pool
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:numCycles]
}
