package world

// PassageKind тип прохода между чанками
type PassageKind int

const (
	PassageRoad PassageKind = iota
	PassageRiver
)

// String возвращает строковое представление типа прохода
func (k PassageKind) String() string {
	switch k {
	case PassageRoad:
		return "road"
	case PassageRiver:
		return "river"
	default:
		return "unknown"
	}
}

// Passage представляет направленное ребро графа мира: проход из чанка
// From в чанк To. Двунаправленный проход — это два встречных ребра.
type Passage struct {
	From   ChunkID
	To     ChunkID
	Kind   PassageKind
	Length float64 // Евклидово расстояние между позициями чанков
}
