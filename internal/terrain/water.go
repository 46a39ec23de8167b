package terrain

// Классы воды в карте рек/озёр.
const (
	WaterNone  = 0.0
	WaterOcean = 1.0
	WaterLake  = 2.0
)

// Cell координата ячейки карты (row, col)
type Cell struct {
	Row, Col int
}

// GenerateWater строит бинарную карту океана: 1 — вода, 0 — суша
func (g *Generator) GenerateWater(elevation Grid) Grid {
	water := NewGrid(elevation.Rows(), elevation.Cols())
	for i := range elevation {
		for j := range elevation[i] {
			if elevation[i][j] <= g.params.WaterLevel {
				water[i][j] = WaterOcean
			}
		}
	}
	return water
}

// isLocalMaximum проверяет, является ли ячейка локальным максимумом высоты
func isLocalMaximum(row, col int, elevation Grid) bool {
	peak := elevation[row][col]
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if elevation.InBounds(r, c) && elevation[r][c] > peak {
				return false
			}
		}
	}
	return true
}

// isLocalMinimum проверяет, является ли ячейка локальным минимумом высоты
func isLocalMinimum(row, col int, elevation Grid) bool {
	bottom := elevation[row][col]
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if elevation.InBounds(r, c) && elevation[r][c] < bottom {
				return false
			}
		}
	}
	return true
}

// FindWaterSources находит истоки рек: локальные максимумы высот выше
// перцентиля SourcePercentile.
func (g *Generator) FindWaterSources(elevation Grid) []Cell {
	threshold := elevation.Percentile(g.params.SourcePercentile)
	var sources []Cell
	for i := range elevation {
		for j := range elevation[i] {
			if elevation[i][j] > threshold && isLocalMaximum(i, j, elevation) {
				sources = append(sources, Cell{Row: i, Col: j})
			}
		}
	}
	return sources
}

// GenerateWaterSources строит бинарную карту истоков
func (g *Generator) GenerateWaterSources(elevation Grid) Grid {
	sourceMap := NewGrid(elevation.Rows(), elevation.Cols())
	for _, s := range g.FindWaterSources(elevation) {
		sourceMap[s.Row][s.Col] = 1
	}
	return sourceMap
}

// findDownhillPath жадно спускается из точки по наименьшим соседним высотам.
// Останавливается в локальном минимуме (озеро) или при достижении океана.
// Посещённые ячейки не повторяются, поэтому путь конечен.
func findDownhillPath(row, col int, elevation Grid) []Cell {
	path := []Cell{}
	visited := make(map[Cell]struct{})

	for {
		current := Cell{Row: row, Col: col}
		path = append(path, current)
		visited[current] = struct{}{}

		nextRow, nextCol := -1, -1
		lowest := elevation[row][col]
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				r, c := row+dr, col+dc
				if !elevation.InBounds(r, c) {
					continue
				}
				if _, seen := visited[Cell{Row: r, Col: c}]; seen {
					continue
				}
				if elevation[r][c] < lowest {
					lowest = elevation[r][c]
					nextRow, nextCol = r, c
				}
			}
		}

		if nextRow < 0 {
			// Нет более низкой соседней ячейки — локальный минимум
			break
		}
		row, col = nextRow, nextCol
	}
	return path
}

// GenerateRivers строит карту рек: от каждого истока идёт жадный спуск,
// ширина растёт при прохождении через существующую воду; в конце пути
// разливается озеро.
func (g *Generator) GenerateRivers(elevation, water Grid, sources []Cell) Grid {
	rivers := NewGrid(elevation.Rows(), elevation.Cols())
	for _, source := range sources {
		path := findDownhillPath(source.Row, source.Col, elevation)

		width := 1.0
		for _, p := range path {
			if water[p.Row][p.Col] >= WaterOcean {
				width += water[p.Row][p.Col]
			}
			rivers[p.Row][p.Col] = width
		}

		mouth := path[len(path)-1]
		g.expandLake(mouth.Row, mouth.Col, elevation, rivers, 100, 50)
	}
	return rivers
}

// GenerateLakes дополняет карту рек озёрами в локальных минимумах рельефа
func (g *Generator) GenerateLakes(elevation, rivers Grid) Grid {
	lakes := rivers.Clone()
	for i := range elevation {
		for j := range elevation[i] {
			if isLocalMinimum(i, j, elevation) {
				g.expandLake(i, j, elevation, lakes, 50, 50)
			}
		}
	}
	return lakes
}

// expandLake разливает озеро из точки BFS-ом: ячейка затапливается, если её
// высота не выше стартовой более чем на lakeDepth и не ниже более чем на
// maxGradient. Существующие реки не перезаписываются.
func (g *Generator) expandLake(row, col int, elevation, rivers Grid, lakeDepth, maxGradient float64) {
	startElevation := elevation[row][col]
	queue := []Cell{{Row: row, Col: col}}
	visited := make(map[Cell]struct{})

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				r, c := current.Row+dr, current.Col+dc
				if !elevation.InBounds(r, c) {
					continue
				}
				diff := elevation[r][c] - startElevation
				if diff <= lakeDepth && diff >= -maxGradient {
					if rivers[r][c] == WaterNone {
						rivers[r][c] = WaterLake
					}
					if _, seen := visited[Cell{Row: r, Col: c}]; !seen {
						queue = append(queue, Cell{Row: r, Col: c})
					}
				}
			}
		}
	}
}

// MergeElevationAndRivers накладывает карту рек на карту высот.
// Только для визуальной отладки.
func MergeElevationAndRivers(elevation, rivers Grid) Grid {
	merged := elevation.Clone()
	for i := range elevation {
		for j := range elevation[i] {
			if rivers[i][j] > 0 {
				merged[i][j] = rivers[i][j]
			}
		}
	}
	return merged
}
