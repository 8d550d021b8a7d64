package geom

import "fmt"

// Bound is an axis-aligned rectangle in screen pixels.
type Bound struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// B is shorthand for constructing a Bound.
func B(x, y, width, height int) Bound {
	return Bound{X: x, Y: y, Width: width, Height: height}
}

// Right returns the first column past the bound.
func (b Bound) Right() int { return b.X + b.Width }

// Bottom returns the first row past the bound.
func (b Bound) Bottom() int { return b.Y + b.Height }

// Empty reports whether the bound covers no pixels.
func (b Bound) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Area returns the pixel count, or 0 for an empty bound.
func (b Bound) Area() int {
	if b.Empty() {
		return 0
	}
	return b.Width * b.Height
}

// Contains reports whether (x, y) lies inside the bound (half-open on both axes).
func (b Bound) Contains(x, y int) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

func (b Bound) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.Width, b.Height)
}

// Intersects reports whether a and b overlap. Touching edges do not count.
func Intersects(a, b Bound) bool {
	if a.X >= b.Right() || b.X >= a.Right() {
		return false
	}
	if a.Y >= b.Bottom() || b.Y >= a.Bottom() {
		return false
	}
	return true
}

// ContainsWithin reports whether inner lies entirely inside outer.
func ContainsWithin(inner, outer Bound) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.Right() <= outer.Right() && inner.Bottom() <= outer.Bottom()
}

// Intersection returns the overlap of a and b.
//
// Callers must check Intersects first. For disjoint bounds the result has a
// non-positive width or height and carries no meaning.
func Intersection(a, b Bound) Bound {
	x := max(a.X, b.X)
	y := max(a.Y, b.Y)
	return Bound{
		X:      x,
		Y:      y,
		Width:  min(a.Right(), b.Right()) - x,
		Height: min(a.Bottom(), b.Bottom()) - y,
	}
}
