package terrain

import (
	"math"
	"testing"
)

func TestElevationWithinRange(t *testing.T) {
	g := NewGenerator(1, DefaultParams())
	elev := g.GenerateElevation(0, 0, 64, 64)

	p := g.Params()
	if elev.Min() < p.MinElevation || elev.Max() > p.MaxElevation {
		t.Errorf("elevation [%f, %f] outside [%f, %f]",
			elev.Min(), elev.Max(), p.MinElevation, p.MaxElevation)
	}
}

func TestElevationWindowsAreSeamless(t *testing.T) {
	g := NewGenerator(5, DefaultParams())

	// Два соседних окна по X: последний столбец первого граничит
	// с первым столбцом второго, значения из одного поля шума
	left := g.GenerateElevation(0, 0, 16, 16)
	right := g.GenerateElevation(16, 0, 16, 16)
	wide := g.GenerateElevation(0, 0, 32, 16)

	for i := 0; i < 16; i++ {
		if math.Abs(left[i][15]-wide[i][15]) > 1e-9 {
			t.Fatalf("left window diverges from continuous field at row %d", i)
		}
		if math.Abs(right[i][0]-wide[i][16]) > 1e-9 {
			t.Fatalf("right window diverges from continuous field at row %d", i)
		}
	}
}

func TestElevationDeterministicBySeed(t *testing.T) {
	a := NewGenerator(9, DefaultParams()).GenerateElevation(100, 200, 8, 8)
	b := NewGenerator(9, DefaultParams()).GenerateElevation(100, 200, 8, 8)
	c := NewGenerator(10, DefaultParams()).GenerateElevation(100, 200, 8, 8)

	same, differs := true, false
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				same = false
			}
			if a[i][j] != c[i][j] {
				differs = true
			}
		}
	}
	if !same {
		t.Error("same seed produced different elevation")
	}
	if !differs {
		t.Error("different seeds produced identical elevation")
	}
}

func TestTemperatureColderTowardsPole(t *testing.T) {
	g := NewGenerator(3, DefaultParams())
	p := g.Params()

	equator := g.GenerateTemperature(0, p.EquatorY, 32, 1)
	pole := g.GenerateTemperature(0, p.EquatorY+int(p.MaxLatitude)-1, 32, 1)

	avgEquator := rowAverage(equator, 0)
	avgPole := rowAverage(pole, 0)
	if avgPole >= avgEquator {
		t.Errorf("pole (%f) warmer than equator (%f)", avgPole, avgEquator)
	}
}

func TestTemperatureClamped(t *testing.T) {
	g := NewGenerator(4, DefaultParams())
	p := g.Params()
	temp := g.GenerateTemperature(0, 0, 64, 64)

	if temp.Min() < p.MinTemperature || temp.Max() > p.MaxTemperature {
		t.Errorf("temperature [%f, %f] outside [%f, %f]",
			temp.Min(), temp.Max(), p.MinTemperature, p.MaxTemperature)
	}
}

func TestLapseRateCoolsMountains(t *testing.T) {
	g := NewGenerator(5, DefaultParams())
	temp := Grid{{50, 50}}
	elev := Grid{{0, 10000}}

	adjusted := g.AdjustTemperatureForElevation(temp, elev)
	if adjusted[0][0] != 50 {
		t.Errorf("sea level temperature changed: %f", adjusted[0][0])
	}
	expected := 50 - g.Params().LapseRate*10000
	if math.Abs(adjusted[0][1]-expected) > 1e-9 {
		t.Errorf("mountain temperature %f, want %f", adjusted[0][1], expected)
	}

	// Дно океана не нагревается
	deep := g.AdjustTemperatureForElevation(Grid{{50}}, Grid{{-900}})
	if deep[0][0] != 50 {
		t.Errorf("negative elevation warmed the cell: %f", deep[0][0])
	}
}

func rowAverage(g Grid, row int) float64 {
	sum := 0.0
	for _, v := range g[row] {
		sum += v
	}
	return sum / float64(len(g[row]))
}
