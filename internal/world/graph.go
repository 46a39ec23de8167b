package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/annel0/world-graph/internal/vec"
)

var (
	ErrChunkNotFound   = errors.New("chunk not found")
	ErrPositionTaken   = errors.New("position already occupied by another chunk")
	ErrPassageExists   = errors.New("passage already exists")
	ErrPassageNotFound = errors.New("passage not found")
	ErrSelfPassage     = errors.New("passage endpoints must differ")
)

// WorldGraph направленный граф мира G = (V, E): вершины — чанки,
// рёбра — проходы между ними. Все операции потокобезопасны.
type WorldGraph struct {
	mu sync.RWMutex

	chunks map[ChunkID]*Chunk
	byPos  map[vec.Vec2]ChunkID

	// Смежность в обе стороны: out[from][to] и in[to][from] указывают
	// на один и тот же Passage.
	out map[ChunkID]map[ChunkID]*Passage
	in  map[ChunkID]map[ChunkID]*Passage

	nextID       ChunkID
	passageCount int
	chunkSpan    int
}

// NewWorldGraph создаёт пустой граф мира; span — сторона террейн-окна чанков
func NewWorldGraph(span int) *WorldGraph {
	return &WorldGraph{
		chunks:    make(map[ChunkID]*Chunk),
		byPos:     make(map[vec.Vec2]ChunkID),
		out:       make(map[ChunkID]map[ChunkID]*Passage),
		in:        make(map[ChunkID]map[ChunkID]*Passage),
		nextID:    1,
		chunkSpan: span,
	}
}

// ChunkSpan возвращает сторону террейн-окна чанков
func (g *WorldGraph) ChunkSpan() int {
	return g.chunkSpan
}

// AddChunk добавляет чанк в указанной позиции. Позиция должна быть
// уникальна: два чанка не могут занимать одну точку мира.
func (g *WorldGraph) AddChunk(pos vec.Vec2) (*Chunk, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, taken := g.byPos[pos]; taken {
		return nil, fmt.Errorf("%w: chunk %d at (%d, %d)", ErrPositionTaken, existing, pos.X, pos.Y)
	}

	chunk := NewChunk(g.nextID, pos, g.chunkSpan)
	g.nextID++
	g.insertChunk(chunk)
	return chunk, nil
}

// insertChunk добавляет чанк во внутренние индексы. Вызывается под mu.
func (g *WorldGraph) insertChunk(chunk *Chunk) {
	g.chunks[chunk.ID] = chunk
	g.byPos[chunk.Pos] = chunk.ID
	g.out[chunk.ID] = make(map[ChunkID]*Passage)
	g.in[chunk.ID] = make(map[ChunkID]*Passage)
}

// Chunk возвращает чанк по идентификатору
func (g *WorldGraph) Chunk(id ChunkID) (*Chunk, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	chunk, ok := g.chunks[id]
	return chunk, ok
}

// ChunkAt возвращает чанк в указанной позиции мира
func (g *WorldGraph) ChunkAt(pos vec.Vec2) (*Chunk, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, ok := g.byPos[pos]
	if !ok {
		return nil, false
	}
	return g.chunks[id], true
}

// RemoveChunk удаляет чанк вместе со всеми инцидентными проходами.
// Висячих рёбер после удаления не остаётся.
func (g *WorldGraph) RemoveChunk(id ChunkID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	chunk, ok := g.chunks[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrChunkNotFound, id)
	}

	for to := range g.out[id] {
		delete(g.in[to], id)
		g.passageCount--
	}
	for from := range g.in[id] {
		delete(g.out[from], id)
		g.passageCount--
	}

	delete(g.out, id)
	delete(g.in, id)
	delete(g.byPos, chunk.Pos)
	delete(g.chunks, id)
	return nil
}

// Connect создаёт направленный проход from -> to. Длина прохода —
// евклидово расстояние между позициями чанков. Петли и дубликаты запрещены.
func (g *WorldGraph) Connect(from, to ChunkID, kind PassageKind) (*Passage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if from == to {
		return nil, fmt.Errorf("%w: %d", ErrSelfPassage, from)
	}
	src, ok := g.chunks[from]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrChunkNotFound, from)
	}
	dst, ok := g.chunks[to]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrChunkNotFound, to)
	}
	if _, exists := g.out[from][to]; exists {
		return nil, fmt.Errorf("%w: %d -> %d", ErrPassageExists, from, to)
	}

	passage := &Passage{
		From:   from,
		To:     to,
		Kind:   kind,
		Length: src.Pos.DistanceTo(dst.Pos),
	}
	g.out[from][to] = passage
	g.in[to][from] = passage
	g.passageCount++
	return passage, nil
}

// ConnectBoth создаёт пару встречных проходов from <-> to
func (g *WorldGraph) ConnectBoth(a, b ChunkID, kind PassageKind) error {
	if _, err := g.Connect(a, b, kind); err != nil {
		return err
	}
	if _, err := g.Connect(b, a, kind); err != nil {
		return err
	}
	return nil
}

// Disconnect удаляет направленный проход from -> to
func (g *WorldGraph) Disconnect(from, to ChunkID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.out[from][to]; !ok {
		return fmt.Errorf("%w: %d -> %d", ErrPassageNotFound, from, to)
	}
	delete(g.out[from], to)
	delete(g.in[to], from)
	g.passageCount--
	return nil
}

// Passage возвращает проход from -> to, если он существует
func (g *WorldGraph) Passage(from, to ChunkID) (*Passage, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p, ok := g.out[from][to]
	return p, ok
}

// PassagesFrom возвращает все исходящие проходы чанка
func (g *WorldGraph) PassagesFrom(id ChunkID) []*Passage {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Passage, 0, len(g.out[id]))
	for _, p := range g.out[id] {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].To < result[j].To })
	return result
}

// PassagesTo возвращает все входящие проходы чанка
func (g *WorldGraph) PassagesTo(id ChunkID) []*Passage {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Passage, 0, len(g.in[id]))
	for _, p := range g.in[id] {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].From < result[j].From })
	return result
}

// Neighbours возвращает идентификаторы чанков, достижимых за один проход
func (g *WorldGraph) Neighbours(id ChunkID) []ChunkID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]ChunkID, 0, len(g.out[id]))
	for to := range g.out[id] {
		result = append(result, to)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// ChunkIDs возвращает идентификаторы всех чанков по возрастанию
func (g *WorldGraph) ChunkIDs() []ChunkID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]ChunkID, 0, len(g.chunks))
	for id := range g.chunks {
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Chunks возвращает все чанки в порядке возрастания идентификаторов
func (g *WorldGraph) Chunks() []*Chunk {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Chunk, 0, len(g.chunks))
	for _, c := range g.chunks {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Passages возвращает все проходы графа в детерминированном порядке
func (g *WorldGraph) Passages() []*Passage {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Passage, 0, g.passageCount)
	for _, edges := range g.out {
		for _, p := range edges {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].From != result[j].From {
			return result[i].From < result[j].From
		}
		return result[i].To < result[j].To
	})
	return result
}

// ChunkCount возвращает число чанков |V|
func (g *WorldGraph) ChunkCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.chunks)
}

// PassageCount возвращает число проходов |E|
func (g *WorldGraph) PassageCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.passageCount
}
