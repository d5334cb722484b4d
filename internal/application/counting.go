package app

import (
	"produce-inspector/internal/domain/entity"
)

// CountItems оставляет контуры с площадью не меньше minArea и превращает их
// в объекты. Порядок сохраняется таким, каким контуры были найдены.
func CountItems(contours []entity.Contour, minArea float64) (int, []entity.DetectedItem) {
	items := make([]entity.DetectedItem, 0, len(contours))
	for _, c := range contours {
		area := c.Area()
		if area < minArea {
			continue
		}

		item := entity.DetectedItem{
			ID:          len(items) + 1,
			BoundingBox: c.BoundingBox(),
			Area:        area,
		}
		// У вырожденного контура центра нет, объект всё равно считается.
		if p, ok := c.Centroid(); ok {
			item.Centroid = &p
		}
		items = append(items, item)
	}
	return len(items), items
}
