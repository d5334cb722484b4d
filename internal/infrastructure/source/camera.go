//go:build gocv
// +build gocv

package source

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"produce-inspector/internal/domain/port"
	"produce-inspector/internal/infrastructure/vision"
)

// CameraSource снимает цветные кадры с устройства через OpenCV. Глубины нет.
type CameraSource struct {
	capture *gocv.VideoCapture
	limit   int
	taken   int
}

// NewCameraSource открывает устройство (номер или URL потока).
// limit > 0 ограничивает число кадров, после него Next вернёт ErrEndOfStream.
func NewCameraSource(device string, limit int) (*CameraSource, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %s: %w", device, err)
	}
	return &CameraSource{capture: capture, limit: limit}, nil
}

// Next блокируется до получения кадра.
func (s *CameraSource) Next(ctx context.Context) (*port.Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.limit > 0 && s.taken >= s.limit {
		return nil, port.ErrEndOfStream
	}

	mat := gocv.NewMat()
	defer mat.Close()
	if ok := s.capture.Read(&mat); !ok {
		return nil, port.ErrEndOfStream
	}
	if mat.Empty() {
		return nil, fmt.Errorf("camera returned empty frame")
	}
	s.taken++

	return &port.Capture{
		Name:  fmt.Sprintf("frame-%d", s.taken),
		Frame: vision.FrameFromMat(mat),
	}, nil
}

// Close освобождает устройство.
func (s *CameraSource) Close() error {
	return s.capture.Close()
}

var _ port.FrameSource = (*CameraSource)(nil)
