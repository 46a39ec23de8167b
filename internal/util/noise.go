package util

import (
	"github.com/aquilax/go-perlin"
)

// NoiseSampler оборачивает генератор шума Перлина с фиксированным сидом.
// Один сэмплер соответствует одному непрерывному полю шума: окна чанков,
// вырезанные из одного сэмплера, стыкуются без швов.
type NoiseSampler struct {
	p *perlin.Perlin
}

// NewNoiseSampler создаёт сэмплер с указанным сидом
func NewNoiseSampler(seed int64) *NoiseSampler {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав внутри самого генератора
	return &NoiseSampler{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Noise2D возвращает значение шума для координат (от -1 до 1)
func (ns *NoiseSampler) Noise2D(x, y float64) float64 {
	return ns.p.Noise2D(x, y)
}

// Normalized2D возвращает значение шума, приведённое к диапазону от 0 до 1
func (ns *NoiseSampler) Normalized2D(x, y float64) float64 {
	return (ns.p.Noise2D(x, y) + 1.0) / 2.0
}
