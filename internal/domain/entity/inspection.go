package entity

// ItemReport содержит объект вместе с результатами анализа глубины.
type ItemReport struct {
	DetectedItem
	Depth         *DepthStats `json:"depth,omitempty"`
	Label         string      `json:"label,omitempty"`
	DefectIndexes []int       `json:"defect_indexes,omitempty"`
}

// AnalysisReport хранит итог анализа одного кадра.
type AnalysisReport struct {
	ID          string            `json:"id"`
	ImageWidth  int               `json:"image_width"`
	ImageHeight int               `json:"image_height"`
	Strategy    SegmentStrategy   `json:"strategy"`
	Threshold   *float64          `json:"threshold,omitempty"` // порог, применённый при сегментации по яркости
	ItemCount   int               `json:"item_count"`
	DefectCount int               `json:"defect_count"`
	Items       []ItemReport      `json:"items"`
	Defects     []DefectCandidate `json:"defects"`
	HasDepth    bool              `json:"has_depth"`
}

// HasDefects сообщает, найден ли хотя бы один дефект.
func (r *AnalysisReport) HasDefects() bool {
	return r.DefectCount > 0
}

// Description содержит текстовое описание отчёта для пользователя.
type Description struct {
	Text string `json:"text"`
}
