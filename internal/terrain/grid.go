package terrain

import "sort"

// Grid представляет прямоугольную карту значений слоя ландшафта.
// Индексация grid[row][col]; ряды идут вдоль оси Y (широты).
type Grid [][]float64

// NewGrid создаёт нулевую карту размером rows x cols
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for i := range g {
		g[i] = make([]float64, cols)
	}
	return g
}

// Rows возвращает количество рядов
func (g Grid) Rows() int { return len(g) }

// Cols возвращает количество столбцов
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// InBounds проверяет попадание координат в карту
func (g Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows() && col >= 0 && col < g.Cols()
}

// Clone возвращает глубокую копию карты
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// Min возвращает минимальное значение карты
func (g Grid) Min() float64 {
	min := g[0][0]
	for _, row := range g {
		for _, v := range row {
			if v < min {
				min = v
			}
		}
	}
	return min
}

// Max возвращает максимальное значение карты
func (g Grid) Max() float64 {
	max := g[0][0]
	for _, row := range g {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// Percentile возвращает значение перцентиля p (0..100) по всем ячейкам
func (g Grid) Percentile(p float64) float64 {
	values := make([]float64, 0, g.Rows()*g.Cols())
	for _, row := range g {
		values = append(values, row...)
	}
	sort.Float64s(values)

	if p <= 0 {
		return values[0]
	}
	if p >= 100 {
		return values[len(values)-1]
	}

	// Линейная интерполяция между соседними порядковыми статистиками
	rank := p / 100 * float64(len(values)-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= len(values) {
		return values[lo]
	}
	return values[lo] + frac*(values[lo+1]-values[lo])
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
