package terrain

import (
	"github.com/annel0/world-graph/internal/config"
	"github.com/annel0/world-graph/internal/util"
)

// Params задаёт параметры генерации слоёв ландшафта.
type Params struct {
	Scale            float64 // Масштаб шума (делитель координат)
	Octaves          int     // Количество октав
	Persistence      float64 // Затухание амплитуды между октавами
	MinElevation     float64 // Нижняя граница высот
	MaxElevation     float64 // Верхняя граница высот
	EquatorY         int     // Мировая Y-координата экватора
	MaxLatitude      float64 // Расстояние до полюса в блоках
	MinTemperature   float64
	MaxTemperature   float64
	TempNoiseScale   float64 // Доля диапазона температур, отдаваемая шуму
	LapseRate        float64 // Падение температуры на блок высоты
	WaterLevel       float64 // Уровень океана
	SourcePercentile float64 // Перцентиль высот для истоков рек
	DaysInYear       int
	SeasonAmplitude  float64
	SeasonScaling    float64 // Показатель широтного масштабирования сезона
}

// DefaultParams возвращает параметры, откалиброванные под диапазоны
// высот -1000..15000 и температур -20..120.
func DefaultParams() Params {
	return Params{
		Scale:            50,
		Octaves:          4,
		Persistence:      0.5,
		MinElevation:     -1000,
		MaxElevation:     15000,
		EquatorY:         500,
		MaxLatitude:      500,
		MinTemperature:   -20,
		MaxTemperature:   120,
		TempNoiseScale:   0.5,
		LapseRate:        0.00065,
		WaterLevel:       1000,
		SourcePercentile: 95,
		DaysInYear:       365,
		SeasonAmplitude:  20,
		SeasonScaling:    0.5,
	}
}

// ParamsFromConfig переводит секцию конфигурации в параметры генератора
func ParamsFromConfig(tc config.TerrainConfig) Params {
	return Params{
		Scale:            tc.Scale,
		Octaves:          tc.Octaves,
		Persistence:      tc.Persistence,
		MinElevation:     tc.MinElevation,
		MaxElevation:     tc.MaxElevation,
		EquatorY:         tc.EquatorY,
		MaxLatitude:      tc.MaxLatitude,
		MinTemperature:   tc.MinTemperature,
		MaxTemperature:   tc.MaxTemperature,
		TempNoiseScale:   tc.TempNoiseScale,
		LapseRate:        tc.LapseRate,
		WaterLevel:       tc.WaterLevel,
		SourcePercentile: tc.SourcePercentile,
		DaysInYear:       tc.DaysInYear,
		SeasonAmplitude:  tc.SeasonAmplitude,
		SeasonScaling:    tc.SeasonScaling,
	}
}

// Generator генерирует слои ландшафта по окнам мировых координат.
// Каждый слой использует собственное поле шума, поэтому окна разных
// чанков стыкуются между собой без швов.
type Generator struct {
	params Params
	elev   *util.NoiseSampler
	temp   *util.NoiseSampler
	moist  *util.NoiseSampler
}

// NewGenerator создаёт генератор ландшафта с указанным сидом.
// Слои получают независимые сиды (seed, seed+1, seed+2).
func NewGenerator(seed int64, params Params) *Generator {
	return &Generator{
		params: params,
		elev:   util.NewNoiseSampler(seed),
		temp:   util.NewNoiseSampler(seed + 1),
		moist:  util.NewNoiseSampler(seed + 2),
	}
}

// Params возвращает параметры генератора
func (g *Generator) Params() Params { return g.params }

// GenerateElevation строит карту высот для окна (xStart,yStart) размером cols x rows.
// Октавы складываются с затуханием амплитуды и удвоением частоты; сумма
// нормируется и растягивается из ~[-0.5,0.5] в [MinElevation, MaxElevation].
func (g *Generator) GenerateElevation(xStart, yStart, cols, rows int) Grid {
	return g.octaveNoise(g.elev, xStart, yStart, cols, rows, g.params.Octaves, func(v float64) float64 {
		return g.params.MinElevation + (v+0.5)*(g.params.MaxElevation-g.params.MinElevation)
	})
}

// GenerateMoisture строит карту влажности для окна (две октавы, диапазон ~[-0.5,0.5])
func (g *Generator) GenerateMoisture(xStart, yStart, cols, rows int) Grid {
	return g.octaveNoise(g.moist, xStart, yStart, cols, rows, 2, func(v float64) float64 {
		return v
	})
}

// octaveNoise суммирует октавы шума для окна и применяет rescale к каждой ячейке
func (g *Generator) octaveNoise(ns *util.NoiseSampler, xStart, yStart, cols, rows, octaves int, rescale func(float64) float64) Grid {
	grid := NewGrid(rows, cols)

	maxAmplitude := 0.0
	amplitude := 1.0
	scale := g.params.Scale
	for o := 0; o < octaves; o++ {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				x := float64(xStart + j)
				y := float64(yStart + i)
				grid[i][j] += amplitude * ns.Noise2D(y/scale, x/scale)
			}
		}
		maxAmplitude += amplitude
		amplitude *= g.params.Persistence
		scale /= 2
	}

	for i := range grid {
		for j := range grid[i] {
			grid[i][j] = rescale(grid[i][j] / maxAmplitude)
		}
	}
	return grid
}

// GenerateTemperature строит карту температур для окна.
// База определяется широтой (квадратичное падение от экватора), шум
// добавляет локальную вариацию; результат ограничен Min/MaxTemperature.
func (g *Generator) GenerateTemperature(xStart, yStart, cols, rows int) Grid {
	p := g.params
	grid := NewGrid(rows, cols)

	tempRange := p.MaxTemperature - p.MinTemperature
	for i := 0; i < rows; i++ {
		worldY := yStart + i

		distance := float64(worldY - p.EquatorY)
		if distance < 0 {
			distance = -distance
		}
		latFactor := 1 - (distance*distance)/(p.MaxLatitude*p.MaxLatitude)
		baseTemp := p.MinTemperature + latFactor*tempRange

		for j := 0; j < cols; j++ {
			x := float64(xStart + j)
			noise := g.temp.Noise2D(float64(worldY)/p.Scale, x/p.Scale)
			contribution := noise * tempRange * p.TempNoiseScale
			grid[i][j] = clamp(baseTemp+contribution, p.MinTemperature, p.MaxTemperature)
		}
	}
	return grid
}

// AdjustTemperatureForElevation понижает температуру с высотой (lapse rate).
// Высоты ниже нуля (дно океана) температуру не повышают.
func (g *Generator) AdjustTemperatureForElevation(temperature, elevation Grid) Grid {
	adjusted := temperature.Clone()
	for i := range adjusted {
		for j := range adjusted[i] {
			elev := elevation[i][j]
			if elev < 0 {
				elev = 0
			}
			adjusted[i][j] -= g.params.LapseRate * elev
		}
	}
	return adjusted
}
