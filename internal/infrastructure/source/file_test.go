package source

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-inspector/internal/domain/entity"
	"produce-inspector/internal/domain/port"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestDecodeFrame_BGROrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 200, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	frame, err := DecodeFrame(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Width)
	assert.Equal(t, 1, frame.Height)
	assert.Equal(t, 3, frame.Channels)
	assert.Equal(t, []byte{0, 0, 255, 200, 0, 0}, frame.Pix)
}

func TestDecodeFrame_GrayStaysSingleChannel(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(2, 1, color.Gray{Y: 77})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	frame, err := DecodeFrame(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Channels)
	assert.Equal(t, byte(77), frame.Pix[5])
}

func TestDecodeFrame_Garbage(t *testing.T) {
	_, err := DecodeFrame([]byte("definitely not an image"))
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestDecodeDepth_AppliesScale(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 2, 2))
	img.SetGray16(1, 1, color.Gray16{Y: 450})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	depth, err := DecodeDepth(buf.Bytes(), 0.001)
	require.NoError(t, err)
	assert.Equal(t, 2, depth.Width)
	assert.Equal(t, 2, depth.Height)
	assert.InDelta(t, 0.45, depth.At(1, 1), 1e-9)
	assert.Zero(t, depth.At(0, 0))
}

func TestFileSource_IteratesAndEnds(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.png")
	second := filepath.Join(dir, "b.png")
	depthPath := filepath.Join(dir, "b_depth.png")

	writePNG(t, first, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	writePNG(t, second, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	writePNG(t, depthPath, image.NewGray16(image.Rect(0, 0, 4, 4)))

	src := NewFileSource([]string{first, second}, map[string]string{second: depthPath}, 0.001)
	defer src.Close()
	ctx := context.Background()

	capture, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a.png", capture.Name)
	assert.Nil(t, capture.Depth)

	capture, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b.png", capture.Name)
	require.NotNil(t, capture.Depth)
	assert.NoError(t, capture.Depth.Validate(capture.Frame))

	_, err = src.Next(ctx)
	require.ErrorIs(t, err, port.ErrEndOfStream)
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource([]string{filepath.Join(t.TempDir(), "nope.png")}, nil, 1)
	_, err := src.Next(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, port.ErrEndOfStream)
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileSource([]string{"x.png"}, nil, 1).Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
