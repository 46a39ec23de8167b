package terrain

import "math"

// SeasonalModifier возвращает сезонный сдвиг температуры для дня года.
// Синусоида: день 0 — весеннее равноденствие, пик на четверти года.
func (g *Generator) SeasonalModifier(dayOfYear int) float64 {
	radians := (2 * math.Pi / float64(g.params.DaysInYear)) * float64(dayOfYear)
	return g.params.SeasonAmplitude * math.Sin(radians)
}

// ApplySeasonalVariation сдвигает всю карту температур на сезонный модификатор
func (g *Generator) ApplySeasonalVariation(temperature Grid, dayOfYear int) Grid {
	shift := g.SeasonalModifier(dayOfYear)
	modified := temperature.Clone()
	for i := range modified {
		for j := range modified[i] {
			modified[i][j] += shift
		}
	}
	return modified
}

// LatitudeSeasonalScale возвращает широтный коэффициент сезонного сдвига.
// Широта нормирована: 0 — экватор, ±1 — полюс. На экваторе сезонность
// максимальна, к полюсам подавляется; SeasonScaling управляет кривизной спада.
func (g *Generator) LatitudeSeasonalScale(latitude float64) float64 {
	abs := math.Abs(latitude)
	if abs > 1 {
		abs = 1
	}
	return 1 - math.Pow(abs, g.params.SeasonScaling)
}

// ApplySeasonalAndLatitudeVariation применяет сезонный сдвиг, ослабленный
// по широте: ряды дальше от экватора получают меньший сдвиг.
func (g *Generator) ApplySeasonalAndLatitudeVariation(temperature Grid, yStart, dayOfYear int) Grid {
	modified := temperature.Clone()
	base := g.SeasonalModifier(dayOfYear)
	for i := range modified {
		latitude := float64(yStart+i-g.params.EquatorY) / g.params.MaxLatitude
		shift := base * g.LatitudeSeasonalScale(latitude)
		for j := range modified[i] {
			modified[i][j] += shift
		}
	}
	return modified
}
