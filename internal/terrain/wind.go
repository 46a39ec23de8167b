package terrain

import (
	"math"

	"github.com/annel0/world-graph/internal/vec"
)

// WindGrid представляет карту направлений ветра (единичные векторы)
type WindGrid [][]vec.Vec2Float

// NewWindGrid создаёт нулевую карту ветра размером rows x cols
func NewWindGrid(rows, cols int) WindGrid {
	w := make(WindGrid, rows)
	for i := range w {
		w[i] = make([]vec.Vec2Float, cols)
	}
	return w
}

// GenerateWind строит карту ветров по широтным поясам:
// пассаты (|широта| <= 30°) и полярные восточные ветры дуют с востока на
// запад, западные ветры умеренных широт (30°..60°) — с запада на восток.
func (g *Generator) GenerateWind(yStart, cols, rows int) WindGrid {
	wind := NewWindGrid(rows, cols)
	for i := 0; i < rows; i++ {
		latitude := float64(yStart+i-g.params.EquatorY) / g.params.MaxLatitude * 90

		direction := vec.Vec2Float{X: -1, Y: 0} // восток -> запад
		if latitude > 30 && latitude <= 60 || latitude < -30 && latitude >= -60 {
			direction = vec.Vec2Float{X: 1, Y: 0} // запад -> восток
		}

		for j := 0; j < cols; j++ {
			wind[i][j] = direction
		}
	}
	return wind
}

// AdjustWindForElevation корректирует направления ветра по рельефу:
// рядом с высокими препятствиями поток отклоняется перпендикулярно
// градиенту высот, в остальных местах получает слабую локальную поправку.
func (g *Generator) AdjustWindForElevation(wind WindGrid, elevation Grid, threshold float64) WindGrid {
	rows := len(wind)
	if rows == 0 {
		return wind
	}
	cols := len(wind[0])

	adjusted := NewWindGrid(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if g.adjacentToHighElevation(i, j, elevation, threshold) {
				adjusted[i][j] = gradientDiversion(i, j, elevation)
			} else {
				local := gradientDiversion(i, j, elevation).Mul(0.25)
				adjusted[i][j] = wind[i][j].Add(local).Normalized()
			}
		}
	}
	return adjusted
}

// adjacentToHighElevation проверяет, граничит ли ячейка с высоким рельефом (N/S/E/W)
func (g *Generator) adjacentToHighElevation(row, col int, elevation Grid, threshold float64) bool {
	offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, off := range offsets {
		r, c := row+off[0], col+off[1]
		if elevation.InBounds(r, c) && elevation[r][c] > threshold {
			return true
		}
	}
	return false
}

// gradientDiversion возвращает единичный вектор, перпендикулярный градиенту
// высот вокруг ячейки: ветер обтекает препятствие, а не перелетает его.
func gradientDiversion(row, col int, elevation Grid) vec.Vec2Float {
	var gradX, gradY float64
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if !elevation.InBounds(r, c) {
				continue
			}
			dist := math.Sqrt(float64(dr*dr + dc*dc))
			weight := 1 / (1 + dist)
			diff := elevation[r][c] - elevation[row][col]
			gradX += weight * diff * float64(dc)
			gradY += weight * diff * float64(dr)
		}
	}

	magnitude := math.Sqrt(gradX*gradX + gradY*gradY)
	if magnitude == 0 {
		return vec.Vec2Float{}
	}
	gradX /= magnitude
	gradY /= magnitude

	// Перпендикуляр к градиенту — направление наименьшего сопротивления
	return vec.Vec2Float{X: -gradY, Y: gradX}
}

// AdjustMoistureForOrographicEffect вычисляет орографическую влажность:
// подъём рельефа в наветренной ячейке выжимает влагу из потока.
func (g *Generator) AdjustMoistureForOrographicEffect(moisture, elevation Grid, wind WindGrid) Grid {
	orographic := moisture.Clone()
	for i := range orographic {
		for j := range orographic[i] {
			dir := wind[i][j]
			r := i + int(dir.Y)
			c := j + int(dir.X)
			if !elevation.InBounds(r, c) {
				continue
			}
			rise := elevation[r][c] - elevation[i][j]
			if rise < 0 {
				rise = 0
			}
			orographic[i][j] = rise
		}
	}
	return orographic
}
