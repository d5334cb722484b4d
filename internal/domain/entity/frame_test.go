package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrame_Validate(t *testing.T) {
	require.NoError(t, NewFrame(4, 3, 3).Validate())
	require.NoError(t, NewFrame(4, 3, 1).Validate())

	cases := map[string]Frame{
		"zero width":     NewFrame(0, 3, 3),
		"zero height":    NewFrame(4, 0, 3),
		"bad channels":   NewFrame(4, 3, 2),
		"short buffer":   {Width: 4, Height: 3, Channels: 3, Pix: make([]byte, 10)},
		"missing buffer": {Width: 4, Height: 3, Channels: 1},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, f.Validate(), ErrInvalidInput)
		})
	}
}

func TestDepthBuffer_Validate(t *testing.T) {
	frame := NewFrame(4, 3, 3)
	require.NoError(t, NewDepthBuffer(4, 3, 0.5).Validate(frame))

	require.ErrorIs(t, NewDepthBuffer(3, 3, 0.5).Validate(frame), ErrInvalidInput)

	negative := NewDepthBuffer(4, 3, 0.5)
	negative.Samples[5] = -1
	require.ErrorIs(t, negative.Validate(frame), ErrInvalidInput)

	nan := NewDepthBuffer(4, 3, 0.5)
	nan.Samples[0] = math.NaN()
	require.ErrorIs(t, nan.Validate(frame), ErrInvalidInput)

	truncated := NewDepthBuffer(4, 3, 0.5)
	truncated.Samples = truncated.Samples[:4]
	require.ErrorIs(t, truncated.Validate(frame), ErrInvalidInput)
}

func TestMask_SetAtEqual(t *testing.T) {
	a := NewMask(5, 5)
	a.Set(2, 3, true)
	a.Set(-1, 0, true)
	a.Set(5, 5, true)

	require.True(t, a.At(2, 3))
	require.False(t, a.At(3, 2))
	require.False(t, a.At(-1, 0))
	require.Equal(t, 1, a.CountNonZero())

	b := NewMask(5, 5)
	b.Pix[3*5+2] = 255
	require.True(t, a.Equal(b))

	b.Set(0, 0, true)
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(NewMask(4, 5)))
}
