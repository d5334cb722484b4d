package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"produce-inspector/internal/domain/port"
)

// FileSource отдаёт кадры из файлов по одному, затем ErrEndOfStream.
type FileSource struct {
	mu         sync.Mutex
	images     []string
	depth      map[string]string
	depthScale float64
	next       int
}

// NewFileSource создаёт источник по списку путей к изображениям.
// depth сопоставляет пути изображений с 16-битными картами глубины.
func NewFileSource(images []string, depth map[string]string, depthScale float64) *FileSource {
	if depth == nil {
		depth = map[string]string{}
	}
	return &FileSource{
		images:     images,
		depth:      depth,
		depthScale: depthScale,
	}
}

// Next читает и декодирует следующий файл.
func (s *FileSource) Next(ctx context.Context) (*port.Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.next >= len(s.images) {
		s.mu.Unlock()
		return nil, port.ErrEndOfStream
	}
	path := s.images[s.next]
	s.next++
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	frame, err := DecodeFrame(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	capture := &port.Capture{Name: filepath.Base(path), Frame: frame}

	if depthPath, ok := s.depth[path]; ok {
		raw, err := os.ReadFile(depthPath)
		if err != nil {
			return nil, fmt.Errorf("read depth %s: %w", depthPath, err)
		}
		capture.Depth, err = DecodeDepth(raw, s.depthScale)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", depthPath, err)
		}
	}

	return capture, nil
}

// Close ничего не держит открытым.
func (s *FileSource) Close() error {
	return nil
}

var _ port.FrameSource = (*FileSource)(nil)
