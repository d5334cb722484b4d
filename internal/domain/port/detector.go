package port

import (
	"produce-inspector/internal/domain/entity"
)

// Vision интерфейс низкоуровневых операций над пикселями
type Vision interface {
	// Segment строит бинарную маску кандидатов. threshold содержит порог, применённый
	// при сегментации по яркости (nil для диапазона HSV).
	Segment(frame entity.Frame, params entity.SegmentParams) (mask entity.Mask, threshold *float64, err error)

	// Clean применяет закрытие, затем открытие квадратным ядром
	Clean(mask entity.Mask, kernelSize int) (entity.Mask, error)

	// FindContours возвращает внешние контуры маски в порядке обнаружения
	FindContours(mask entity.Mask) ([]entity.Contour, error)

	// DetectDefects ищет круговые дефекты на исходном кадре
	DetectDefects(frame entity.Frame, params entity.DefectParams) ([]entity.DefectCandidate, error)
}

// Annotator рисует результат анализа поверх кадра
type Annotator interface {
	// Annotate возвращает JPEG с отмеченными объектами и дефектами
	Annotate(frame entity.Frame, report *entity.AnalysisReport) ([]byte, error)
}
