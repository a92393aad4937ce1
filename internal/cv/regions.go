package cv

import "image"

// Image region types
type Region struct {
	X1, Y1, X2, Y2 int
}

type Point struct {
	X, Y int
}

// CellAround returns the size×size region whose center is c.
// For an even size the center is the pixel at (size/2, size/2) of the cell.
func CellAround(c Point, size int) Region {
	half := size / 2
	return Region{X1: c.X - half, Y1: c.Y - half, X2: c.X - half + size, Y2: c.Y - half + size}
}

// Width returns the width of the region
func (r Region) Width() int {
	return r.X2 - r.X1
}

// Height returns the height of the region
func (r Region) Height() int {
	return r.Y2 - r.Y1
}

// ToImageRectangle converts Region to image.Rectangle for capture backends
func (r Region) ToImageRectangle() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Clamp limits both coordinates to [min, max] on their respective axis.
func (p Point) Clamp(min, max Point) Point {
	return Point{X: ClampInt(p.X, min.X, max.X), Y: ClampInt(p.Y, min.Y, max.Y)}
}

// Add returns p shifted by (dx, dy)
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// ClampInt limits v to [lo, hi]. When lo > hi the range is empty and lo wins.
func ClampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
