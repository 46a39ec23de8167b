package gen

import (
	"math"
	"math/rand"

	"github.com/annel0/world-graph/internal/vec"
)

// poissonAttempts количество попыток вокруг активной точки (алгоритм Бридсона)
const poissonAttempts = 30

// PoissonDisc генерирует точки в области width x height так, что любые две
// точки находятся не ближе radius друг от друга (алгоритм Бридсона).
// Первая точка ставится в центр области; результат детерминирован для rng.
func PoissonDisc(width, height int, radius float64, rng *rand.Rand) []vec.Vec2Float {
	cellSize := radius / math.Sqrt2
	gridCols := int(math.Ceil(float64(width) / cellSize))
	gridRows := int(math.Ceil(float64(height) / cellSize))

	// grid[row][col] — индекс точки в samples или -1
	grid := make([][]int, gridRows)
	for i := range grid {
		grid[i] = make([]int, gridCols)
		for j := range grid[i] {
			grid[i][j] = -1
		}
	}

	var samples []vec.Vec2Float
	var active []int

	place := func(p vec.Vec2Float) {
		samples = append(samples, p)
		idx := len(samples) - 1
		active = append(active, idx)
		grid[int(p.Y/cellSize)][int(p.X/cellSize)] = idx
	}

	place(vec.Vec2Float{X: math.Round(float64(width) / 2), Y: math.Round(float64(height) / 2)})

	for len(active) > 0 {
		pick := rng.Intn(len(active))
		base := samples[active[pick]]

		placed := false
		for attempt := 0; attempt < poissonAttempts; attempt++ {
			candidate := randomInAnnulus(base, radius, rng)
			if candidate.X < 0 || candidate.X >= float64(width) ||
				candidate.Y < 0 || candidate.Y >= float64(height) {
				continue
			}
			if hasNeighbourWithin(candidate, radius, cellSize, grid, samples) {
				continue
			}
			place(candidate)
			placed = true
			break
		}

		if !placed {
			active[pick] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}
	return samples
}

// randomInAnnulus возвращает случайную точку в кольце [radius, 2*radius)
// вокруг base. Координаты округляются до целых ДО проверки дистанции,
// чтобы минимальная дистанция выдерживалась и на целочисленных позициях
// чанков.
func randomInAnnulus(base vec.Vec2Float, radius float64, rng *rand.Rand) vec.Vec2Float {
	angle := rng.Float64() * 2 * math.Pi
	dist := radius * (1 + rng.Float64())
	return vec.Vec2Float{
		X: math.Round(base.X + dist*math.Cos(angle)),
		Y: math.Round(base.Y + dist*math.Sin(angle)),
	}
}

// hasNeighbourWithin проверяет по сетке ускорения, есть ли точка ближе radius
func hasNeighbourWithin(p vec.Vec2Float, radius, cellSize float64, grid [][]int, samples []vec.Vec2Float) bool {
	row := int(p.Y / cellSize)
	col := int(p.X / cellSize)

	for dr := -2; dr <= 2; dr++ {
		for dc := -2; dc <= 2; dc++ {
			r, c := row+dr, col+dc
			if r < 0 || r >= len(grid) || c < 0 || c >= len(grid[r]) {
				continue
			}
			idx := grid[r][c]
			if idx >= 0 && p.DistanceTo(samples[idx]) < radius {
				return true
			}
		}
	}
	return false
}
