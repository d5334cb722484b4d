package describe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-inspector/internal/domain/entity"
)

func TestTextDescriber_Summary(t *testing.T) {
	report := &entity.AnalysisReport{
		ItemCount:   2,
		DefectCount: 1,
		Items: []entity.ItemReport{
			{
				DetectedItem:  entity.DetectedItem{ID: 1, Area: 1256.4, Centroid: &entity.Point{X: 40, Y: 40}},
				Depth:         &entity.DepthStats{Mean: 0.4512},
				Label:         "below-threshold",
				DefectIndexes: []int{0},
			},
			{DetectedItem: entity.DetectedItem{ID: 2}},
		},
	}

	desc, err := NewTextDescriber().Describe(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t,
		"Total items counted: 2\n"+
			"Faulty items detected: 1\n"+
			"#1 area=1256 at (40, 40) depth=0.451 below-threshold defects=1\n"+
			"#2 area=0",
		desc.Text)
}

func TestTextDescriber_Empty(t *testing.T) {
	desc, err := NewTextDescriber().Describe(context.Background(), &entity.AnalysisReport{})
	require.NoError(t, err)
	assert.Equal(t, "Total items counted: 0\nFaulty items detected: 0", desc.Text)
}

func TestTextDescriber_Errors(t *testing.T) {
	_, err := NewTextDescriber().Describe(context.Background(), nil)
	require.ErrorIs(t, err, entity.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewTextDescriber().Describe(ctx, &entity.AnalysisReport{})
	require.ErrorIs(t, err, context.Canceled)
}
