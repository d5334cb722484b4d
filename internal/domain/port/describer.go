package port

import (
	"context"

	"produce-inspector/internal/domain/entity"
)

// ReportDescriber интерфейс описателя отчёта
type ReportDescriber interface {
	// Describe генерирует текстовое описание результатов анализа
	Describe(ctx context.Context, report *entity.AnalysisReport) (*entity.Description, error)
}
