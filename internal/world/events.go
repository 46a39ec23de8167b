package world

// WorldGeneratedEvent публикуется после полной генерации мира
type WorldGeneratedEvent struct {
	Seed     int64 `json:"seed"`
	Chunks   int   `json:"chunks"`
	Passages int   `json:"passages"`
}

// ChunkLoadedEvent публикуется, когда интерес к чанку превысил порог
type ChunkLoadedEvent struct {
	ChunkID ChunkID `json:"chunk_id"`
	Juice   float64 `json:"juice"`
}

// ChunkUnloadedEvent публикуется, когда интерес к чанку упал ниже порога
type ChunkUnloadedEvent struct {
	ChunkID ChunkID `json:"chunk_id"`
	Juice   float64 `json:"juice"`
}

// ChunkChangedEvent публикуется при изменении данных чанка
type ChunkChangedEvent struct {
	ChunkID ChunkID `json:"chunk_id"`
}
