//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"produce-inspector/internal/domain/entity"
	"produce-inspector/internal/domain/port"
)

// GoCVVision выполняет операции конвейера на OpenCV.
// Состояния между вызовами нет, все Mat создаются и закрываются внутри вызова.
type GoCVVision struct{}

// NewGoCVVision создаёт бэкенд на OpenCV.
func NewGoCVVision() *GoCVVision {
	return &GoCVVision{}
}

// Segment строит маску по диапазону HSV или по глобальному порогу яркости.
func (v *GoCVVision) Segment(frame entity.Frame, params entity.SegmentParams) (entity.Mask, *float64, error) {
	if err := frame.Validate(); err != nil {
		return entity.Mask{}, nil, err
	}
	src, err := frameToMat(frame)
	if err != nil {
		return entity.Mask{}, nil, fmt.Errorf("frame to mat: %w", err)
	}
	defer src.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	var applied *float64
	switch params.Strategy {
	case entity.StrategyColorRange:
		bgr := toBGR(src, frame.Channels)
		defer bgr.Close()

		hsv := gocv.NewMat()
		defer hsv.Close()
		gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

		lo, hi := params.ColorRange.Lower, params.ColorRange.Upper
		gocv.InRangeWithScalar(hsv,
			gocv.NewScalar(lo[0], lo[1], lo[2], 0),
			gocv.NewScalar(hi[0], hi[1], hi[2], 0),
			&mask)

	case entity.StrategyIntensityThreshold:
		gray := toGray(src, frame.Channels)
		defer gray.Close()

		typ := gocv.ThresholdBinary
		if params.Intensity.Invert {
			typ = gocv.ThresholdBinaryInv
		}
		if params.Intensity.Auto {
			// Оцу сам выбирает порог, переданное значение игнорируется.
			typ |= gocv.ThresholdOtsu
		}
		t := float64(gocv.Threshold(gray, &mask, float32(params.Intensity.Value), 255, typ))
		applied = &t

	default:
		return entity.Mask{}, nil, fmt.Errorf("%w: unknown segmentation strategy %q", entity.ErrInvalidInput, params.Strategy)
	}

	return matToMask(mask), applied, nil
}

// Clean закрывает мелкие разрывы, затем убирает шум и тонкие перемычки.
func (v *GoCVVision) Clean(mask entity.Mask, kernelSize int) (entity.Mask, error) {
	if kernelSize < 1 || kernelSize%2 == 0 {
		return entity.Mask{}, fmt.Errorf("%w: kernel size must be odd and >= 1, got %d", entity.ErrInvalidInput, kernelSize)
	}
	if kernelSize == 1 {
		out := entity.NewMask(mask.Width, mask.Height)
		copy(out.Pix, mask.Pix)
		return out, nil
	}

	src, err := maskToMat(mask)
	if err != nil {
		return entity.Mask{}, fmt.Errorf("mask to mat: %w", err)
	}
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernelSize, kernelSize))
	defer kernel.Close()

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(src, &closed, gocv.MorphClose, kernel)

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(closed, &opened, gocv.MorphOpen, kernel)

	return matToMask(opened), nil
}

// FindContours возвращает только внешние границы, упрощённые до вершин.
func (v *GoCVVision) FindContours(mask entity.Mask) ([]entity.Contour, error) {
	src, err := maskToMat(mask)
	if err != nil {
		return nil, fmt.Errorf("mask to mat: %w", err)
	}
	defer src.Close()

	contours := gocv.FindContours(src, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	result := make([]entity.Contour, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		pts := contours.At(i).ToPoints()
		c := entity.Contour{Points: make([]entity.Point, len(pts))}
		for j, p := range pts {
			c.Points[j] = entity.Point{X: float64(p.X), Y: float64(p.Y)}
		}
		result = append(result, c)
	}
	return result, nil
}

// DetectDefects сглаживает серый кадр и ищет окружности преобразованием Хафа.
func (v *GoCVVision) DetectDefects(frame entity.Frame, params entity.DefectParams) ([]entity.DefectCandidate, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	if params.BlurKernelSize < 3 || params.BlurKernelSize%2 == 0 {
		return nil, fmt.Errorf("%w: blur kernel size must be odd and >= 3, got %d", entity.ErrInvalidInput, params.BlurKernelSize)
	}

	src, err := frameToMat(frame)
	if err != nil {
		return nil, fmt.Errorf("frame to mat: %w", err)
	}
	defer src.Close()

	gray := toGray(src, frame.Channels)
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	ksize := image.Pt(params.BlurKernelSize, params.BlurKernelSize)
	switch params.Blur {
	case entity.BlurBox:
		gocv.Blur(gray, &blurred, ksize)
	default:
		gocv.GaussianBlur(gray, &blurred, ksize, 0, 0, gocv.BorderDefault)
	}

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient,
		params.AccumulatorResolution, params.MinCenterDistance,
		params.EdgeThreshold, params.AccumulatorThreshold,
		params.MinRadius, params.MaxRadius)

	defects := make([]entity.DefectCandidate, 0, circles.Cols())
	if circles.Empty() || circles.Cols() == 0 {
		return defects, nil
	}
	for i := 0; i < circles.Cols(); i++ {
		r := float64(circles.GetFloatAt(0, i*3+2))
		if r < float64(params.MinRadius) || (params.MaxRadius > 0 && r > float64(params.MaxRadius)) {
			continue
		}
		defects = append(defects, entity.DefectCandidate{
			Center: entity.Point{
				X: float64(circles.GetFloatAt(0, i*3)),
				Y: float64(circles.GetFloatAt(0, i*3+1)),
			},
			Radius: r,
		})
	}
	return defects, nil
}

// Проверка реализации интерфейсов
var (
	_ port.Vision    = (*GoCVVision)(nil)
	_ port.Annotator = (*GoCVVision)(nil)
)
