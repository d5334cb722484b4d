package source

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"produce-inspector/internal/domain/entity"
)

// DecodeFrame декодирует JPEG, PNG, BMP, TIFF или WebP в BGR-кадр.
func DecodeFrame(data []byte) (entity.Frame, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return entity.Frame{}, fmt.Errorf("%w: decode image: %v", entity.ErrInvalidInput, err)
	}
	return FrameFromImage(img), nil
}

// FrameFromImage переводит image.Image в BGR-кадр. Серые изображения
// остаются одноканальными.
func FrameFromImage(img image.Image) entity.Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if gray, ok := img.(*image.Gray); ok {
		frame := entity.NewFrame(w, h, 1)
		for y := 0; y < h; y++ {
			copy(frame.Pix[y*w:(y+1)*w], gray.Pix[y*gray.Stride:y*gray.Stride+w])
		}
		return frame
	}

	frame := entity.NewFrame(w, h, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			frame.Pix[i+0] = uint8(bl >> 8)
			frame.Pix[i+1] = uint8(g >> 8)
			frame.Pix[i+2] = uint8(r >> 8)
		}
	}
	return frame
}

// DecodeDepth декодирует 16-битную карту глубины (PNG/TIFF, как z16 у
// RealSense) и умножает каждый отсчёт на scale.
func DecodeDepth(data []byte, scale float64) (*entity.DepthBuffer, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode depth: %v", entity.ErrInvalidInput, err)
	}
	return DepthFromImage(img, scale), nil
}

// DepthFromImage переводит яркость изображения в отсчёты глубины.
func DepthFromImage(img image.Image, scale float64) *entity.DepthBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	depth := &entity.DepthBuffer{Width: w, Height: h, Samples: make([]float64, w*h)}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16).Y
			depth.Samples[y*w+x] = float64(v) * scale
		}
	}
	return depth
}
