package world

import (
	"sync"

	"github.com/annel0/world-graph/internal/terrain"
	"github.com/annel0/world-graph/internal/vec"
)

// ChunkID уникальный идентификатор чанка внутри мира
type ChunkID uint64

// Chunk представляет вершину графа мира: дискретный участок игрового
// пространства с окном слоёв ландшафта размером Span x Span блоков.
type Chunk struct {
	ID   ChunkID  // Стабильный идентификатор (порядок добавления)
	Pos  vec.Vec2 // Мировая позиция начала окна чанка
	Span int      // Сторона террейн-окна в блоках

	// Слои ландшафта, вырезанные из общего поля шума по окну чанка.
	// Могут быть nil, пока ландшафт не сгенерирован или не загружен.
	Elevation   terrain.Grid
	Temperature terrain.Grid
	Moisture    terrain.Grid
	Water       terrain.Grid

	Metadata      map[string]interface{} // Произвольные метаданные чанка
	ChangeCounter int                    // Счетчик изменений с последнего сохранения
	Mu            sync.RWMutex           // Мьютекс для безопасного доступа
}

// NewChunk создаёт чанк с указанными идентификатором и позицией
func NewChunk(id ChunkID, pos vec.Vec2, span int) *Chunk {
	return &Chunk{
		ID:       id,
		Pos:      pos,
		Span:     span,
		Metadata: make(map[string]interface{}),
	}
}

// SetMetadata устанавливает значение метаданных чанка
func (c *Chunk) SetMetadata(key string, value interface{}) {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.Metadata[key] = value
	c.ChangeCounter++
}

// GetMetadata возвращает значение метаданных чанка
func (c *Chunk) GetMetadata(key string) (interface{}, bool) {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	value, ok := c.Metadata[key]
	return value, ok
}

// MetadataCopy возвращает копию всех метаданных
func (c *Chunk) MetadataCopy() map[string]interface{} {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	result := make(map[string]interface{}, len(c.Metadata))
	for k, v := range c.Metadata {
		result[k] = v
	}
	return result
}

// SetTerrain устанавливает слои ландшафта чанка
func (c *Chunk) SetTerrain(elevation, temperature, moisture, water terrain.Grid) {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.Elevation = elevation
	c.Temperature = temperature
	c.Moisture = moisture
	c.Water = water
	c.ChangeCounter++
}

// HasTerrain возвращает true, если слои ландшафта сгенерированы
func (c *Chunk) HasTerrain() bool {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.Elevation != nil
}

// HasChanges возвращает true, если чанк менялся с последнего сохранения
func (c *Chunk) HasChanges() bool {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.ChangeCounter > 0
}

// ClearChanges сбрасывает счётчик изменений
func (c *Chunk) ClearChanges() {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.ChangeCounter = 0
}
