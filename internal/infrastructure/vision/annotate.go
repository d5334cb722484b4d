//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strconv"

	"gocv.io/x/gocv"

	"produce-inspector/internal/domain/entity"
)

var (
	itemColor   = color.RGBA{B: 255, A: 255}
	circleColor = color.RGBA{G: 255, A: 255}
	centerColor = color.RGBA{R: 255, A: 255}
	textColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Annotate рисует рамки и номера объектов, окружности дефектов с отмеченным
// центром и метки глубины. Возвращает JPEG.
func (v *GoCVVision) Annotate(frame entity.Frame, report *entity.AnalysisReport) ([]byte, error) {
	if report == nil {
		return nil, errors.New("nil report")
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	src, err := frameToMat(frame)
	if err != nil {
		return nil, fmt.Errorf("frame to mat: %w", err)
	}
	defer src.Close()

	mat := toBGR(src, frame.Channels)
	defer mat.Close()

	for _, item := range report.Items {
		box := item.BoundingBox
		rect := image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height)
		gocv.Rectangle(&mat, rect, itemColor, 2)

		if item.Centroid != nil {
			at := image.Pt(int(item.Centroid.X)-10, int(item.Centroid.Y)-10)
			gocv.PutText(&mat, strconv.Itoa(item.ID), at, gocv.FontHersheySimplex, 0.5, textColor, 2)
		}
		if item.Label != "" && item.Depth != nil {
			text := fmt.Sprintf("%s %.2f", item.Label, item.Depth.Mean)
			gocv.PutText(&mat, text, image.Pt(box.X, box.Y-10), gocv.FontHersheySimplex, 0.5, textColor, 1)
		}
	}

	for _, d := range report.Defects {
		c := image.Pt(int(d.Center.X+0.5), int(d.Center.Y+0.5))
		gocv.Circle(&mat, c, int(d.Radius+0.5), circleColor, 2)
		gocv.Rectangle(&mat, image.Rect(c.X-5, c.Y-5, c.X+5, c.Y+5), centerColor, 3)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
