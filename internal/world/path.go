package world

import (
	"container/heap"
	"errors"
	"fmt"
)

var ErrNoPath = errors.New("no path between chunks")

// pathItem элемент очереди с приоритетом для Дейкстры
type pathItem struct {
	id   ChunkID
	dist float64
}

type pathQueue []pathItem

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x interface{}) { *q = append(*q, x.(pathItem)) }
func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ShortestPath ищет кратчайший по суммарной длине проходов путь from -> to
// (алгоритм Дейкстры). Возвращает последовательность чанков, включая оба
// конца, и суммарную длину пути.
func (g *WorldGraph) ShortestPath(from, to ChunkID) ([]ChunkID, float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.chunks[from]; !ok {
		return nil, 0, fmt.Errorf("%w: %d", ErrChunkNotFound, from)
	}
	if _, ok := g.chunks[to]; !ok {
		return nil, 0, fmt.Errorf("%w: %d", ErrChunkNotFound, to)
	}

	dist := map[ChunkID]float64{from: 0}
	prev := make(map[ChunkID]ChunkID)
	done := make(map[ChunkID]struct{})

	queue := &pathQueue{{id: from, dist: 0}}
	heap.Init(queue)

	for queue.Len() > 0 {
		current := heap.Pop(queue).(pathItem)
		if _, settled := done[current.id]; settled {
			continue
		}
		done[current.id] = struct{}{}
		if current.id == to {
			break
		}

		for next, passage := range g.out[current.id] {
			candidate := current.dist + passage.Length
			if best, seen := dist[next]; !seen || candidate < best {
				dist[next] = candidate
				prev[next] = current.id
				heap.Push(queue, pathItem{id: next, dist: candidate})
			}
		}
	}

	total, reached := dist[to]
	if !reached {
		return nil, 0, fmt.Errorf("%w: %d -> %d", ErrNoPath, from, to)
	}

	path := []ChunkID{to}
	for at := to; at != from; {
		at = prev[at]
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, total, nil
}

// HopDistances возвращает BFS-расстояния в проходах от стартового чанка до
// всех чанков, достижимых не более чем за maxHops шагов. maxHops < 0 снимает
// ограничение. Стартовый чанк включён с расстоянием 0.
func (g *WorldGraph) HopDistances(from ChunkID, maxHops int) map[ChunkID]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.chunks[from]; !ok {
		return nil
	}

	dist := map[ChunkID]int{from: 0}
	queue := []ChunkID{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if maxHops >= 0 && dist[current] >= maxHops {
			continue
		}
		for next := range g.out[current] {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[current] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// Reachable возвращает число чанков, достижимых из стартового, включая его самого
func (g *WorldGraph) Reachable(from ChunkID) int {
	return len(g.HopDistances(from, -1))
}

// IsConnected проверяет, достижимы ли все чанки из любого чанка графа.
// Пустой граф считается связным.
func (g *WorldGraph) IsConnected() bool {
	ids := g.ChunkIDs()
	if len(ids) == 0 {
		return true
	}
	return g.Reachable(ids[0]) == len(ids)
}
