package vec

import "math"

// Vec2 представляет 2D координаты в мировом пространстве
type Vec2 struct {
	X, Y int
}

// Add возвращает сумму двух векторов
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub возвращает разность двух векторов
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// DistanceTo вычисляет евклидово расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ManhattanTo вычисляет манхэттенское расстояние до другой точки
func (v Vec2) ManhattanTo(other Vec2) int {
	dx := v.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := v.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
