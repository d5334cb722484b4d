package entity

import "math"

// Point задаёт точку в координатах изображения.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect задаёт ограничивающий прямоугольник в пикселях.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center возвращает координаты центра прямоугольника
func (r Rect) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains сообщает, лежит ли точка внутри прямоугольника.
func (r Rect) Contains(p Point) bool {
	return p.X >= float64(r.X) && p.X < float64(r.X+r.Width) &&
		p.Y >= float64(r.Y) && p.Y < float64(r.Y+r.Height)
}

// Empty сообщает, что прямоугольник не содержит ни одного пикселя.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contour описывает замкнутую границу объекта.
type Contour struct {
	Points []Point
}

// moments считает моменты m00, m10, m01 многоугольника по формуле Грина.
// Знак m00 зависит от направления обхода.
func (c Contour) moments() (m00, m10, m01 float64) {
	n := len(c.Points)
	if n < 3 {
		return 0, 0, 0
	}
	for i := 0; i < n; i++ {
		p := c.Points[i]
		q := c.Points[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		m00 += cross
		m10 += cross * (p.X + q.X)
		m01 += cross * (p.Y + q.Y)
	}
	return m00 / 2, m10 / 6, m01 / 6
}

// Area возвращает площадь контура (формула шнурка), всегда неотрицательную.
func (c Contour) Area() float64 {
	m00, _, _ := c.moments()
	return math.Abs(m00)
}

// Centroid возвращает центр масс контура. ok == false, если площадь нулевая.
func (c Contour) Centroid() (p Point, ok bool) {
	m00, m10, m01 := c.moments()
	if m00 == 0 {
		return Point{}, false
	}
	return Point{X: m10 / m00, Y: m01 / m00}, true
}

// BoundingBox возвращает ограничивающий прямоугольник по точкам контура,
// включая крайние пиксели.
func (c Contour) BoundingBox() Rect {
	if len(c.Points) == 0 {
		return Rect{}
	}
	minX, minY := c.Points[0].X, c.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range c.Points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	x0, y0 := int(math.Floor(minX)), int(math.Floor(minY))
	x1, y1 := int(math.Floor(maxX)), int(math.Floor(maxY))
	return Rect{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}
}
