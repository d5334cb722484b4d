package describe

import (
	"context"
	"fmt"
	"strings"

	"produce-inspector/internal/domain/entity"
	"produce-inspector/internal/domain/port"
)

// TextDescriber собирает текстовую сводку отчёта без внешних сервисов.
type TextDescriber struct{}

func NewTextDescriber() *TextDescriber {
	return &TextDescriber{}
}

// Describe формирует сводку: число объектов, число дефектов и строку на каждый объект.
func (d *TextDescriber) Describe(ctx context.Context, report *entity.AnalysisReport) (*entity.Description, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: nil report", entity.ErrInvalidInput)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total items counted: %d\n", report.ItemCount)
	fmt.Fprintf(&b, "Faulty items detected: %d", report.DefectCount)

	for _, item := range report.Items {
		b.WriteString("\n")
		fmt.Fprintf(&b, "#%d area=%.0f", item.ID, item.Area)
		if item.Centroid != nil {
			fmt.Fprintf(&b, " at (%.0f, %.0f)", item.Centroid.X, item.Centroid.Y)
		}
		if item.Depth != nil {
			fmt.Fprintf(&b, " depth=%.3f", item.Depth.Mean)
		}
		if item.Label != "" {
			fmt.Fprintf(&b, " %s", item.Label)
		}
		if n := len(item.DefectIndexes); n > 0 {
			fmt.Fprintf(&b, " defects=%d", n)
		}
	}

	return &entity.Description{Text: b.String()}, nil
}

var _ port.ReportDescriber = (*TextDescriber)(nil)
