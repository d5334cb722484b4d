package port

import (
	"context"
	"errors"

	"produce-inspector/internal/domain/entity"
)

// ErrEndOfStream возвращается источником, когда кадры закончились
var ErrEndOfStream = errors.New("end of stream")

// Capture содержит кадр и, если есть, выровненную с ним карту глубины
type Capture struct {
	Name  string
	Frame entity.Frame
	Depth *entity.DepthBuffer
}

// FrameSource интерфейс источника кадров
type FrameSource interface {
	// Next блокируется до появления следующего кадра или возвращает ErrEndOfStream
	Next(ctx context.Context) (*Capture, error)

	// Close освобождает устройство или файлы
	Close() error
}
