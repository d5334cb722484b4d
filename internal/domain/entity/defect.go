package entity

// DetectedItem описывает один посчитанный объект (плод, орех) в пределах одного прогона.
type DetectedItem struct {
	ID          int     `json:"id"`                 // порядковый номер в прогоне
	Centroid    *Point  `json:"centroid,omitempty"` // nil для контура нулевой площади
	BoundingBox Rect    `json:"bounding_box"`
	Area        float64 `json:"area"`
}

// DefectCandidate описывает найденный круговой дефект.
type DefectCandidate struct {
	Center     Point    `json:"center"`
	Radius     float64  `json:"radius"`
	Confidence *float64 `json:"confidence,omitempty"` // градиентный Хаф оценку не даёт
}

// Within сообщает, попадает ли центр дефекта в прямоугольник.
func (d DefectCandidate) Within(r Rect) bool {
	return r.Contains(d.Center)
}

// DepthStats содержит статистику глубины в области объекта.
type DepthStats struct {
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`
	Clipped bool    `json:"clipped"` // область частично вне буфера, посчитана только видимая часть
}
