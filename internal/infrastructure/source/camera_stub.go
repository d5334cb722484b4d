//go:build !gocv
// +build !gocv

package source

import (
	"context"

	"produce-inspector/internal/domain/port"
	"produce-inspector/internal/infrastructure/vision"
)

type CameraSource struct{}

// NewCameraSource возвращает ошибку, если сборка без тега gocv.
func NewCameraSource(device string, limit int) (*CameraSource, error) {
	return nil, vision.ErrUnavailable
}

// Next возвращает ошибку, если сборка без тега gocv.
func (s *CameraSource) Next(ctx context.Context) (*port.Capture, error) {
	return nil, vision.ErrUnavailable
}

// Close ничего не делает.
func (s *CameraSource) Close() error {
	return nil
}

var _ port.FrameSource = (*CameraSource)(nil)
