package window

import (
	"math"

	"github.com/1broseidon/quadwm/internal/colors"
)

// SetPixel writes c at canvas-local (x, y). Out of range writes are ignored.
func (w *Window) SetPixel(x, y int, c colors.Index) {
	if !w.inCanvas(x, y) {
		return
	}
	w.pixels[y*w.Canvas.Width+x] = c
}

// DrawLine rasterizes the segment (x0, y0)-(x1, y1) into the canvas with
// Bresenham's algorithm. Both endpoints are drawn. A segment leaving the
// canvas is first clipped to it, so the cost never exceeds the canvas
// diagonal.
func (w *Window) DrawLine(x0, y0, x1, y1 int, c colors.Index) {
	if !w.inCanvas(x0, y0) || !w.inCanvas(x1, y1) {
		var ok bool
		x0, y0, x1, y1, ok = clipLine(x0, y0, x1, y1, w.Canvas.Width, w.Canvas.Height)
		if !ok {
			return
		}
	}
	w.bresenham(x0, y0, x1, y1, c)
}

func (w *Window) bresenham(x0, y0, x1, y1 int, c colors.Index) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)

	x, y := x0, y0
	if dx >= dy {
		// x drives, y follows the accumulated error.
		e := 2*dy - dx
		for i := 0; i <= dx; i++ {
			w.SetPixel(x, y, c)
			if e > 0 {
				y += sy
				e -= 2 * dx
			}
			e += 2 * dy
			x += sx
		}
		return
	}

	e := 2*dx - dy
	for i := 0; i <= dy; i++ {
		w.SetPixel(x, y, c)
		if e > 0 {
			x += sx
			e -= 2 * dy
		}
		e += 2 * dx
		y += sy
	}
}

// clipLine cuts the segment to the pixel centers of a width x height grid
// with Cohen-Sutherland in float64, which cannot overflow for any int input.
// A clipped endpoint lands exactly on the crossed edge. ok is false when the
// segment misses the grid.
func clipLine(x0, y0, x1, y1, width, height int) (cx0, cy0, cx1, cy1 int, ok bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, 0, 0, false
	}
	r := clipRect{minX: -0.5, maxX: float64(width) - 0.5, minY: -0.5, maxY: float64(height) - 0.5}
	ax, ay := float64(x0), float64(y0)
	bx, by := float64(x1), float64(y1)

	ca, cb := r.outcode(ax, ay), r.outcode(bx, by)
	// Each pass moves one endpoint onto an edge, so four passes per
	// endpoint settle it.
	for range 8 {
		if ca|cb == 0 {
			break
		}
		if ca&cb != 0 {
			return 0, 0, 0, 0, false
		}
		if ca != 0 {
			ax, ay = r.cut(ca, ax, ay, bx, by)
			ca = r.outcode(ax, ay)
		} else {
			bx, by = r.cut(cb, bx, by, ax, ay)
			cb = r.outcode(bx, by)
		}
	}
	if ca|cb != 0 {
		return 0, 0, 0, 0, false
	}
	return clampRound(ax, width), clampRound(ay, height), clampRound(bx, width), clampRound(by, height), true
}

type clipRect struct {
	minX, maxX, minY, maxY float64
}

const (
	outLeft = 1 << iota
	outRight
	outTop
	outBottom
)

func (r clipRect) outcode(x, y float64) int {
	code := 0
	switch {
	case x < r.minX:
		code |= outLeft
	case x > r.maxX:
		code |= outRight
	}
	switch {
	case y < r.minY:
		code |= outTop
	case y > r.maxY:
		code |= outBottom
	}
	return code
}

// cut moves (px, py) along the line towards (qx, qy) onto the first edge
// named in code.
func (r clipRect) cut(code int, px, py, qx, qy float64) (float64, float64) {
	switch {
	case code&outLeft != 0:
		return r.minX, py + (qy-py)*(r.minX-px)/(qx-px)
	case code&outRight != 0:
		return r.maxX, py + (qy-py)*(r.maxX-px)/(qx-px)
	case code&outTop != 0:
		return px + (qx-px)*(r.minY-py)/(qy-py), r.minY
	default:
		return px + (qx-px)*(r.maxY-py)/(qy-py), r.maxY
	}
}

func clampRound(v float64, n int) int {
	return min(max(int(math.Round(v)), 0), n-1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
