//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"produce-inspector/internal/domain/entity"
)

func TestStub_ReportsUnavailable(t *testing.T) {
	v := NewGoCVVision()
	frame := entity.NewFrame(4, 4, 3)

	_, _, err := v.Segment(frame, entity.DefaultParams().Segment)
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = v.Clean(entity.NewMask(4, 4), 3)
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = v.FindContours(entity.NewMask(4, 4))
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = v.DetectDefects(frame, entity.DefaultParams().Defect)
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = v.Annotate(frame, &entity.AnalysisReport{})
	require.ErrorIs(t, err, ErrUnavailable)
}
