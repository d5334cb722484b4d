//go:build !gocv
// +build !gocv

package vision

import (
	"produce-inspector/internal/domain/entity"
	"produce-inspector/internal/domain/port"
)

type GoCVVision struct{}

// NewGoCVVision создаёт бэкенд-заглушку (без OpenCV).
func NewGoCVVision() *GoCVVision {
	return &GoCVVision{}
}

// Segment возвращает ошибку, если сборка без тега gocv.
func (v *GoCVVision) Segment(frame entity.Frame, params entity.SegmentParams) (entity.Mask, *float64, error) {
	return entity.Mask{}, nil, ErrUnavailable
}

// Clean возвращает ошибку, если сборка без тега gocv.
func (v *GoCVVision) Clean(mask entity.Mask, kernelSize int) (entity.Mask, error) {
	return entity.Mask{}, ErrUnavailable
}

// FindContours возвращает ошибку, если сборка без тега gocv.
func (v *GoCVVision) FindContours(mask entity.Mask) ([]entity.Contour, error) {
	return nil, ErrUnavailable
}

// DetectDefects возвращает ошибку, если сборка без тега gocv.
func (v *GoCVVision) DetectDefects(frame entity.Frame, params entity.DefectParams) ([]entity.DefectCandidate, error) {
	return nil, ErrUnavailable
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (v *GoCVVision) Annotate(frame entity.Frame, report *entity.AnalysisReport) ([]byte, error) {
	return nil, ErrUnavailable
}

var (
	_ port.Vision    = (*GoCVVision)(nil)
	_ port.Annotator = (*GoCVVision)(nil)
)
