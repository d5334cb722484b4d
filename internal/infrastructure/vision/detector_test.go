//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"image/jpeg"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "produce-inspector/internal/application"
	"produce-inspector/internal/domain/entity"
)

type disc struct {
	x, y, r int
}

func fillDisc(set func(x, y int), d disc) {
	for y := d.y - d.r; y <= d.y+d.r; y++ {
		for x := d.x - d.r; x <= d.x+d.r; x++ {
			dx, dy := x-d.x, y-d.y
			if dx*dx+dy*dy <= d.r*d.r {
				set(x, y)
			}
		}
	}
}

func discMask(w, h int, discs ...disc) entity.Mask {
	m := entity.NewMask(w, h)
	for _, d := range discs {
		fillDisc(func(x, y int) { m.Set(x, y, true) }, d)
	}
	return m
}

// paintFrame создаёт BGR-кадр цвета bg и закрашивает диски цветом fg.
func paintFrame(w, h int, bg, fg [3]byte, discs ...disc) entity.Frame {
	f := entity.NewFrame(w, h, 3)
	for i := 0; i < w*h; i++ {
		copy(f.Pix[i*3:i*3+3], bg[:])
	}
	for _, d := range discs {
		fillDisc(func(x, y int) {
			if x < 0 || y < 0 || x >= w || y >= h {
				return
			}
			copy(f.Pix[(y*w+x)*3:(y*w+x)*3+3], fg[:])
		}, d)
	}
	return f
}

func countMask(t *testing.T, v *GoCVVision, mask entity.Mask, kernel int) int {
	t.Helper()
	cleaned, err := v.Clean(mask, kernel)
	require.NoError(t, err)
	contours, err := v.FindContours(cleaned)
	require.NoError(t, err)
	count, _ := app.CountItems(contours, 0)
	return count
}

func TestPipeline_ThreeSeparateCircles(t *testing.T) {
	centers := []disc{{40, 40, 20}, {100, 100, 20}, {160, 160, 20}}
	frame := paintFrame(200, 200, [3]byte{0, 0, 0}, [3]byte{255, 255, 255}, centers...)

	params := entity.DefaultParams()
	params.Segment.Intensity.Invert = false
	svc := app.NewInspectionService(NewGoCVVision(), nil, nil, params, nil)

	report, err := svc.Analyze(context.Background(), frame, nil, params)
	require.NoError(t, err)
	require.Equal(t, 3, report.ItemCount)

	for _, c := range centers {
		found := false
		for _, item := range report.Items {
			require.NotNil(t, item.Centroid)
			if math.Hypot(item.Centroid.X-float64(c.x), item.Centroid.Y-float64(c.y)) <= 2 {
				found = true
			}
		}
		assert.True(t, found, "no centroid near (%d,%d)", c.x, c.y)
	}
}

func TestPipeline_DisjointBlobsCentroidInsideBox(t *testing.T) {
	v := NewGoCVVision()
	mask := discMask(300, 120, disc{30, 30, 12}, disc{90, 60, 20}, disc{170, 50, 15}, disc{250, 80, 25})

	contours, err := v.FindContours(mask)
	require.NoError(t, err)
	count, items := app.CountItems(contours, 50)
	require.Equal(t, 4, count)
	for _, item := range items {
		require.NotNil(t, item.Centroid)
		require.True(t, item.BoundingBox.Contains(*item.Centroid))
	}
}

func TestClean_OpeningCutsThinNeck(t *testing.T) {
	v := NewGoCVVision()
	mask := discMask(200, 200, disc{60, 100, 15}, disc{140, 100, 15})
	for x := 70; x <= 130; x++ {
		mask.Set(x, 100, true)
	}

	require.Equal(t, 2, countMask(t, v, mask, 3))
	require.Equal(t, 1, countMask(t, v, mask, 1))
}

func TestClean_RemovesSpeckleNoise(t *testing.T) {
	v := NewGoCVVision()
	mask := discMask(100, 100, disc{50, 50, 20})
	mask.Set(5, 5, true)
	mask.Set(90, 10, true)
	mask.Set(10, 90, true)

	require.Equal(t, 4, countMask(t, v, mask, 1))
	require.Equal(t, 1, countMask(t, v, mask, 3))
}

func TestClean_Idempotent(t *testing.T) {
	v := NewGoCVVision()
	mask := discMask(100, 100, disc{50, 50, 25})

	for _, k := range []int{3, 5, 7} {
		once, err := v.Clean(mask, k)
		require.NoError(t, err)
		twice, err := v.Clean(once, k)
		require.NoError(t, err)
		require.True(t, once.Equal(twice), "kernel %d", k)
	}
}

func TestClean_RejectsEvenKernel(t *testing.T) {
	_, err := NewGoCVVision().Clean(entity.NewMask(10, 10), 4)
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestSegment_ColorRange(t *testing.T) {
	frame := paintFrame(100, 100, [3]byte{0, 0, 0}, [3]byte{0, 0, 255}, disc{30, 30, 10})
	// Зелёный диск не должен попасть в красный диапазон.
	fillDisc(func(x, y int) {
		copy(frame.Pix[(y*100+x)*3:], []byte{0, 255, 0})
	}, disc{70, 70, 10})

	params := entity.DefaultParams().Segment
	params.Strategy = entity.StrategyColorRange

	mask, threshold, err := NewGoCVVision().Segment(frame, params)
	require.NoError(t, err)
	require.Nil(t, threshold)
	require.Equal(t, discMask(100, 100, disc{30, 30, 10}).CountNonZero(), mask.CountNonZero())
	require.True(t, mask.At(30, 30))
	require.False(t, mask.At(70, 70))
}

func TestSegment_OtsuInverted(t *testing.T) {
	frame := entity.NewFrame(100, 100, 1)
	for i := range frame.Pix {
		frame.Pix[i] = 220
	}
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			frame.Pix[y*100+x] = 40
		}
	}

	params := entity.DefaultParams().Segment
	mask, threshold, err := NewGoCVVision().Segment(frame, params)
	require.NoError(t, err)
	require.NotNil(t, threshold)
	require.GreaterOrEqual(t, *threshold, 40.0)
	require.Less(t, *threshold, 220.0)
	require.Equal(t, 400, mask.CountNonZero())

	params.Intensity.Auto = false
	params.Intensity.Invert = false
	params.Intensity.Value = 128
	mask, threshold, err = NewGoCVVision().Segment(frame, params)
	require.NoError(t, err)
	require.Equal(t, 128.0, *threshold)
	require.Equal(t, 100*100-400, mask.CountNonZero())
}

func TestSegment_RejectsInvalidInput(t *testing.T) {
	v := NewGoCVVision()
	_, _, err := v.Segment(entity.NewFrame(0, 0, 3), entity.DefaultParams().Segment)
	require.ErrorIs(t, err, entity.ErrInvalidInput)

	params := entity.DefaultParams().Segment
	params.Strategy = "kmeans"
	_, _, err = v.Segment(entity.NewFrame(4, 4, 3), params)
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestDetectDefects_BlankFrame(t *testing.T) {
	v := NewGoCVVision()
	for _, blur := range []entity.BlurKind{entity.BlurGaussian, entity.BlurBox} {
		params := entity.DefaultParams().Defect
		params.Blur = blur

		defects, err := v.DetectDefects(entity.NewFrame(120, 120, 3), params)
		require.NoError(t, err)
		require.NotNil(t, defects)
		require.Empty(t, defects)
	}
}

func TestDetectDefects_FindsDarkSpot(t *testing.T) {
	frame := paintFrame(200, 200, [3]byte{255, 255, 255}, [3]byte{0, 0, 0}, disc{100, 100, 30})
	params := entity.DefaultParams().Defect
	params.BlurKernelSize = 5

	defects, err := NewGoCVVision().DetectDefects(frame, params)
	require.NoError(t, err)
	require.NotEmpty(t, defects)

	best := defects[0]
	require.InDelta(t, 100, best.Center.X, 4)
	require.InDelta(t, 100, best.Center.Y, 4)
	for _, d := range defects {
		require.GreaterOrEqual(t, d.Radius, float64(params.MinRadius))
		require.LessOrEqual(t, d.Radius, float64(params.MaxRadius))
		require.Nil(t, d.Confidence)
	}
}

func TestPipeline_BlankFrameDepthBelowThreshold(t *testing.T) {
	frame := entity.NewFrame(64, 48, 1)
	depth := entity.NewDepthBuffer(64, 48, 0.45)

	params := entity.DefaultParams()
	threshold := 0.5
	params.Depth.ClassificationThreshold = &threshold
	svc := app.NewInspectionService(NewGoCVVision(), nil, nil, params, nil)

	report, err := svc.Analyze(context.Background(), frame, depth, params)
	require.NoError(t, err)
	require.Zero(t, report.DefectCount)
	for _, item := range report.Items {
		require.NotNil(t, item.Depth)
		require.InDelta(t, 0.45, item.Depth.Mean, 1e-12)
		require.Equal(t, "below-threshold", item.Label)
	}
}

func TestAnnotate_ProducesJPEG(t *testing.T) {
	frame := paintFrame(80, 60, [3]byte{200, 200, 200}, [3]byte{20, 20, 20}, disc{40, 30, 10})
	report := &entity.AnalysisReport{
		Items: []entity.ItemReport{{
			DetectedItem: entity.DetectedItem{ID: 1, BoundingBox: entity.Rect{X: 30, Y: 20, Width: 21, Height: 21}, Centroid: &entity.Point{X: 40, Y: 30}},
			Depth:        &entity.DepthStats{Mean: 0.4},
			Label:        "small",
		}},
		Defects: []entity.DefectCandidate{{Center: entity.Point{X: 40, Y: 30}, Radius: 10}},
	}

	data, err := NewGoCVVision().Annotate(frame, report)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 80, img.Bounds().Dx())
	require.Equal(t, 60, img.Bounds().Dy())
}

func TestFrameFromMat_RoundTrip(t *testing.T) {
	frame := paintFrame(16, 8, [3]byte{1, 2, 3}, [3]byte{9, 8, 7}, disc{8, 4, 2})
	mat, err := frameToMat(frame)
	require.NoError(t, err)
	defer mat.Close()

	require.Equal(t, frame, FrameFromMat(mat))
}
