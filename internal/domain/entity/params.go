package entity

// SegmentStrategy выбирает способ построения маски.
type SegmentStrategy string

const (
	StrategyColorRange         SegmentStrategy = "color_range"         // диапазон HSV
	StrategyIntensityThreshold SegmentStrategy = "intensity_threshold" // глобальный порог по яркости
)

// BlurKind задаёт тип сглаживания перед поиском окружностей.
type BlurKind string

const (
	BlurGaussian BlurKind = "gaussian"
	BlurBox      BlurKind = "box"
)

// ColorRangeParams задаёт границы по каналам H, S, V (H в шкале OpenCV 0..180).
type ColorRangeParams struct {
	Lower [3]float64 `validate:"dive,gte=0,lte=255"`
	Upper [3]float64 `validate:"dive,gte=0,lte=255"`
}

// IntensityParams задаёт порог по яркости.
type IntensityParams struct {
	Auto   bool    // порог Оцу вместо фиксированного
	Value  float64 `validate:"gte=0,lte=255"`
	Invert bool    // объектом считаются пиксели не ярче порога
}

type SegmentParams struct {
	Strategy   SegmentStrategy `validate:"oneof=color_range intensity_threshold"`
	ColorRange ColorRangeParams
	Intensity  IntensityParams
}

type MorphologyParams struct {
	KernelSize int `validate:"gte=1,odd"`
}

type CountingParams struct {
	MinArea float64 `validate:"gte=0"`
}

// DefectParams задаёт параметры сглаживания и преобразования Хафа.
type DefectParams struct {
	Blur                  BlurKind `validate:"oneof=gaussian box"`
	BlurKernelSize        int      `validate:"gte=3,odd"`
	AccumulatorResolution float64  `validate:"gt=0"`
	MinCenterDistance     float64  `validate:"gt=0"`
	EdgeThreshold         float64  `validate:"gt=0"`
	AccumulatorThreshold  float64  `validate:"gt=0"`
	MinRadius             int      `validate:"gte=0"`
	MaxRadius             int      `validate:"gte=0,gtefield=MinRadius"`
}

// DepthParams задаёт правило классификации по средней глубине.
type DepthParams struct {
	ClassificationThreshold *float64 `validate:"omitempty,gte=0"` // при nil классификация не выполняется
	AboveLabel              string   `validate:"required_with=ClassificationThreshold"`
	BelowLabel              string   `validate:"required_with=ClassificationThreshold"`
	IgnoreZero              bool     // нулевые отсчёты сенсора считаются невалидными
}

// PipelineParams содержит полный набор параметров одного прогона.
type PipelineParams struct {
	Segment      SegmentParams
	Morphology   MorphologyParams
	Counting     CountingParams
	Defect       DefectParams
	Depth        DepthParams
	MatchDefects bool // сопоставлять дефекты с объектами по ограничивающим прямоугольникам
}

// DefaultParams возвращает параметры, подобранные под орехи и плоды на светлом фоне.
func DefaultParams() PipelineParams {
	return PipelineParams{
		Segment: SegmentParams{
			Strategy: StrategyIntensityThreshold,
			ColorRange: ColorRangeParams{
				Lower: [3]float64{0, 120, 70},
				Upper: [3]float64{10, 255, 255},
			},
			Intensity: IntensityParams{
				Auto:   true,
				Value:  128,
				Invert: true,
			},
		},
		Morphology: MorphologyParams{KernelSize: 3},
		Counting:   CountingParams{MinArea: 0},
		Defect: DefectParams{
			Blur:                  BlurGaussian,
			BlurKernelSize:        15,
			AccumulatorResolution: 1,
			MinCenterDistance:     30,
			EdgeThreshold:         50,
			AccumulatorThreshold:  30,
			MinRadius:             10,
			MaxRadius:             60,
		},
		Depth: DepthParams{
			AboveLabel: "above-threshold",
			BelowLabel: "below-threshold",
		},
	}
}
