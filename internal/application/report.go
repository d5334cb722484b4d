package app

import (
	"produce-inspector/internal/domain/entity"
)

// AggregateReport собирает отчёт из уже посчитанных частей, ничего не
// фильтруя и не пересчитывая. Счётчики объектов и дефектов независимы.
// depthByItem и labels индексируются так же, как items; nil допустим.
func AggregateReport(
	items []entity.DetectedItem,
	defects []entity.DefectCandidate,
	depthByItem []*entity.DepthStats,
	labels []string,
) *entity.AnalysisReport {
	report := &entity.AnalysisReport{
		ItemCount:   len(items),
		DefectCount: len(defects),
		Items:       make([]entity.ItemReport, len(items)),
		Defects:     make([]entity.DefectCandidate, len(defects)),
	}
	copy(report.Defects, defects)

	for i, item := range items {
		ir := entity.ItemReport{DetectedItem: item}
		if i < len(depthByItem) {
			ir.Depth = depthByItem[i]
		}
		if i < len(labels) {
			ir.Label = labels[i]
		}
		report.Items[i] = ir
	}
	return report
}

// MatchDefects относит каждый дефект к первому объекту, в прямоугольник
// которого попадает его центр. Дефекты вне объектов остаются без пары.
func MatchDefects(report *entity.AnalysisReport) {
	for di, d := range report.Defects {
		for ii := range report.Items {
			if d.Within(report.Items[ii].BoundingBox) {
				report.Items[ii].DefectIndexes = append(report.Items[ii].DefectIndexes, di)
				break
			}
		}
	}
}
