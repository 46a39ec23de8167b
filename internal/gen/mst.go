package gen

import (
	"container/heap"

	"github.com/annel0/world-graph/internal/vec"
)

// Edge неориентированное ребро-кандидат между двумя точками (индексы в samples)
type Edge struct {
	A, B   int
	Weight float64
}

// edgeHeap минимальная куча рёбер по весу
type edgeHeap []Edge

func (h edgeHeap) Len() int            { return len(h) }
func (h edgeHeap) Less(i, j int) bool  { return h[i].Weight < h[j].Weight }
func (h edgeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *edgeHeap) Push(x interface{}) { *h = append(*h, x.(Edge)) }
func (h *edgeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	edge := old[n-1]
	*h = old[:n-1]
	return edge
}

// MinimumSpanningTree строит MST над точками по евклидовым расстояниям
// (ленивый алгоритм Прима с кучей рёбер-кандидатов). Возвращает n-1 рёбер.
func MinimumSpanningTree(points []vec.Vec2Float) []Edge {
	n := len(points)
	if n < 2 {
		return nil
	}

	inTree := make([]bool, n)
	candidates := &edgeHeap{}
	heap.Init(candidates)

	grow := func(from int) {
		inTree[from] = true
		for to := 0; to < n; to++ {
			if !inTree[to] {
				heap.Push(candidates, Edge{
					A:      from,
					B:      to,
					Weight: points[from].DistanceTo(points[to]),
				})
			}
		}
	}

	grow(0)
	tree := make([]Edge, 0, n-1)

	for len(tree) < n-1 && candidates.Len() > 0 {
		edge := heap.Pop(candidates).(Edge)
		if inTree[edge.B] {
			continue
		}
		tree = append(tree, edge)
		grow(edge.B)
	}
	return tree
}
