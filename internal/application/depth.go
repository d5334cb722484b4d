package app

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"produce-inspector/internal/domain/entity"
)

// CorrelateDepth считает min/mean/max глубины в прямоугольнике объекта.
//
// Возвращает nil, если буфера нет или прямоугольник целиком вне буфера.
// Если прямоугольник выходит за границы частично, статистика считается только
// по видимой части и помечается Clipped. С ignoreZero нулевые отсчёты
// (нет данных от сенсора) пропускаются; область без валидных отсчётов даёт nil.
func CorrelateDepth(depth *entity.DepthBuffer, box entity.Rect, ignoreZero bool) *entity.DepthStats {
	if depth == nil || box.Empty() {
		return nil
	}

	x0, y0 := max(box.X, 0), max(box.Y, 0)
	x1, y1 := min(box.X+box.Width, depth.Width), min(box.Y+box.Height, depth.Height)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	clipped := x0 != box.X || y0 != box.Y || x1 != box.X+box.Width || y1 != box.Y+box.Height

	samples := make([]float64, 0, (x1-x0)*(y1-y0))
	for y := y0; y < y1; y++ {
		row := depth.Samples[y*depth.Width+x0 : y*depth.Width+x1]
		for _, v := range row {
			if ignoreZero && v == 0 {
				continue
			}
			samples = append(samples, v)
		}
	}
	if len(samples) == 0 {
		return nil
	}

	return &entity.DepthStats{
		Mean:    stat.Mean(samples, nil),
		Min:     floats.Min(samples),
		Max:     floats.Max(samples),
		Samples: len(samples),
		Clipped: clipped,
	}
}

// ClassifyDepth сопоставляет средней глубине метку. Пустая строка, если правило
// не задано или статистики нет.
func ClassifyDepth(stats *entity.DepthStats, params entity.DepthParams) string {
	if stats == nil || params.ClassificationThreshold == nil {
		return ""
	}
	if stats.Mean > *params.ClassificationThreshold {
		return params.AboveLabel
	}
	return params.BelowLabel
}
