package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"produce-inspector/internal/domain/entity"
)

func squareContour(x, y, side float64) entity.Contour {
	return entity.Contour{Points: []entity.Point{
		{X: x, Y: y},
		{X: x, Y: y + side},
		{X: x + side, Y: y + side},
		{X: x + side, Y: y},
	}}
}

func TestCountItems_DisjointBlobs(t *testing.T) {
	contours := []entity.Contour{
		squareContour(10, 10, 20),
		squareContour(100, 40, 30),
		squareContour(50, 150, 25),
	}

	count, items := CountItems(contours, 100)
	require.Equal(t, 3, count)
	require.Len(t, items, 3)

	for i, item := range items {
		require.Equal(t, i+1, item.ID)
		require.NotNil(t, item.Centroid)
		require.True(t, item.BoundingBox.Contains(*item.Centroid), "item %d centroid %+v outside %+v", item.ID, *item.Centroid, item.BoundingBox)
	}
}

func TestCountItems_KeepsDiscoveryOrder(t *testing.T) {
	contours := []entity.Contour{
		squareContour(150, 150, 10),
		squareContour(0, 0, 40),
		squareContour(80, 10, 5),
	}

	_, items := CountItems(contours, 0)
	require.Len(t, items, 3)
	require.Equal(t, 150, items[0].BoundingBox.X)
	require.Equal(t, 0, items[1].BoundingBox.X)
	require.Equal(t, 80, items[2].BoundingBox.X)
}

func TestCountItems_MinAreaIsMonotonic(t *testing.T) {
	contours := []entity.Contour{
		squareContour(0, 0, 4),
		squareContour(10, 0, 10),
		squareContour(30, 0, 20),
		squareContour(60, 0, 7),
		{Points: []entity.Point{{X: 90, Y: 90}}},
	}

	prev := len(contours) + 1
	for _, minArea := range []float64{0, 1, 16, 17, 49, 50, 100, 400, 401} {
		count, items := CountItems(contours, minArea)
		require.Len(t, items, count)
		require.LessOrEqual(t, count, prev, "minArea %v", minArea)
		for _, item := range items {
			require.GreaterOrEqual(t, item.Area, minArea)
		}
		prev = count
	}
	count, _ := CountItems(contours, 401)
	require.Zero(t, count)
}

func TestCountItems_ZeroAreaContourHasNoCentroid(t *testing.T) {
	contours := []entity.Contour{
		{Points: []entity.Point{{X: 5, Y: 5}}},
		squareContour(20, 20, 10),
	}

	count, items := CountItems(contours, 0)
	require.Equal(t, 2, count)
	require.Nil(t, items[0].Centroid)
	require.Zero(t, items[0].Area)
	require.Equal(t, entity.Rect{X: 5, Y: 5, Width: 1, Height: 1}, items[0].BoundingBox)
	require.NotNil(t, items[1].Centroid)

	// С ненулевым порогом вырожденный контур отбрасывается.
	count, _ = CountItems(contours, 1)
	require.Equal(t, 1, count)
}

func TestCountItems_Empty(t *testing.T) {
	count, items := CountItems(nil, 10)
	require.Zero(t, count)
	require.Empty(t, items)
	require.NotNil(t, items)
}
