package entity

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput возвращается, когда кадр, буфер глубины или параметры
// не проходят проверку до запуска обработки.
var ErrInvalidInput = errors.New("invalid input")

// Frame хранит кадр в памяти построчно. Цветной кадр хранится в порядке BGR.
type Frame struct {
	Width    int
	Height   int
	Channels int    // 1 (серый) или 3 (BGR)
	Pix      []byte // Width*Height*Channels байт
}

// NewFrame создаёт пустой (чёрный) кадр заданного размера.
func NewFrame(width, height, channels int) Frame {
	size := 0
	if width > 0 && height > 0 && channels > 0 {
		size = width * height * channels
	}
	return Frame{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, size),
	}
}

// Validate проверяет размеры кадра и длину буфера.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: frame has zero area (%dx%d)", ErrInvalidInput, f.Width, f.Height)
	}
	if f.Channels != 1 && f.Channels != 3 {
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidInput, f.Channels)
	}
	if want := f.Width * f.Height * f.Channels; len(f.Pix) != want {
		return fmt.Errorf("%w: frame buffer has %d bytes, want %d", ErrInvalidInput, len(f.Pix), want)
	}
	return nil
}

// DepthBuffer хранит карту глубины, выровненную с кадром.
type DepthBuffer struct {
	Width   int
	Height  int
	Samples []float64 // Width*Height отсчётов, построчно
}

// NewDepthBuffer создаёт буфер глубины, заполненный значением v.
func NewDepthBuffer(width, height int, v float64) *DepthBuffer {
	samples := make([]float64, width*height)
	for i := range samples {
		samples[i] = v
	}
	return &DepthBuffer{Width: width, Height: height, Samples: samples}
}

// At возвращает отсчёт глубины в точке (x, y).
func (d *DepthBuffer) At(x, y int) float64 {
	return d.Samples[y*d.Width+x]
}

// Validate проверяет, что буфер совпадает по размеру с кадром и не содержит
// отрицательных или нечисловых значений.
func (d *DepthBuffer) Validate(frame Frame) error {
	if d.Width != frame.Width || d.Height != frame.Height {
		return fmt.Errorf("%w: depth buffer is %dx%d, frame is %dx%d",
			ErrInvalidInput, d.Width, d.Height, frame.Width, frame.Height)
	}
	if len(d.Samples) != d.Width*d.Height {
		return fmt.Errorf("%w: depth buffer has %d samples, want %d", ErrInvalidInput, len(d.Samples), d.Width*d.Height)
	}
	for i, v := range d.Samples {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: depth sample %d is %v", ErrInvalidInput, i, v)
		}
	}
	return nil
}

// Mask хранит бинарную маску кандидатов, ненулевой байт означает пиксель объекта.
type Mask struct {
	Width  int
	Height int
	Pix    []byte
}

// NewMask создаёт пустую маску.
func NewMask(width, height int) Mask {
	return Mask{Width: width, Height: height, Pix: make([]byte, width*height)}
}

// At сообщает, принадлежит ли пиксель (x, y) объекту.
func (m Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

// Set помечает пиксель (x, y).
func (m Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if on {
		m.Pix[y*m.Width+x] = 1
	} else {
		m.Pix[y*m.Width+x] = 0
	}
}

// CountNonZero возвращает число пикселей объекта.
func (m Mask) CountNonZero() int {
	n := 0
	for _, p := range m.Pix {
		if p != 0 {
			n++
		}
	}
	return n
}

// Equal сравнивает маски попиксельно (любой ненулевой байт считается единицей).
func (m Mask) Equal(other Mask) bool {
	if m.Width != other.Width || m.Height != other.Height || len(m.Pix) != len(other.Pix) {
		return false
	}
	for i := range m.Pix {
		if (m.Pix[i] != 0) != (other.Pix[i] != 0) {
			return false
		}
	}
	return true
}
