package window

import (
	"errors"
	"fmt"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/geom"
	"github.com/1broseidon/quadwm/internal/occlusion"
)

// Frame decoration, in pixels.
const (
	BorderWidth = 1
	// TitleHeight is the strip above the canvas, top border included.
	TitleHeight = 10
)

var (
	// ErrResourceExhausted is returned when a window, canvas buffer or
	// occlusion tree would exceed the configured limits.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrInvalidSize is returned for negative canvas dimensions.
	ErrInvalidSize = errors.New("invalid canvas size")
	// ErrInvalidPosition is returned for a canvas origin beyond MaxCoordinate.
	ErrInvalidPosition = errors.New("invalid canvas position")
)

// Geometry bounds applied regardless of the configured limits.
const (
	MaxDimension  = 1 << 15
	MaxCoordinate = 1 << 20
)

// ID identifies a window. IDs are assigned in creation order and never reused.
type ID uint32

// Window is one client surface: a decorated frame around a private canvas.
type Window struct {
	ID     ID
	Title  string
	Frame  geom.Bound
	Canvas geom.Bound
	Color  colors.Index

	pixels []colors.Index
	tree   *occlusion.Tree
}

// FrameFor returns the decorated frame around a canvas.
func FrameFor(canvas geom.Bound) geom.Bound {
	return geom.Bound{
		X:      canvas.X - BorderWidth,
		Y:      canvas.Y - TitleHeight,
		Width:  canvas.Width + 2*BorderWidth,
		Height: canvas.Height + TitleHeight + BorderWidth,
	}
}

// TitleStrip returns the part of the frame above the canvas.
func (w *Window) TitleStrip() geom.Bound {
	return geom.Bound{X: w.Frame.X, Y: w.Frame.Y, Width: w.Frame.Width, Height: TitleHeight}
}

// Borders returns the left, right and bottom edges of the frame. Together
// with the title strip they tile the frame minus the canvas exactly once.
func (w *Window) Borders() [3]geom.Bound {
	f := w.Frame
	sideHeight := f.Height - TitleHeight - BorderWidth
	return [3]geom.Bound{
		{X: f.X, Y: f.Y + TitleHeight, Width: BorderWidth, Height: sideHeight},
		{X: f.Right() - BorderWidth, Y: f.Y + TitleHeight, Width: BorderWidth, Height: sideHeight},
		{X: f.X, Y: f.Bottom() - BorderWidth, Width: f.Width, Height: BorderWidth},
	}
}

// Tree returns the window's occlusion tree.
func (w *Window) Tree() *occlusion.Tree { return w.tree }

// Pixel returns the canvas-local pixel at (x, y). Out of range reads return
// the background color.
func (w *Window) Pixel(x, y int) colors.Index {
	if !w.inCanvas(x, y) {
		return colors.Background
	}
	return w.pixels[y*w.Canvas.Width+x]
}

func (w *Window) inCanvas(x, y int) bool {
	return x >= 0 && x < w.Canvas.Width && y >= 0 && y < w.Canvas.Height
}

func (w *Window) String() string {
	return fmt.Sprintf("window %d %q frame=%v", w.ID, w.Title, w.Frame)
}

// Limits bounds the memory a stack may allocate. Zero fields are unlimited.
type Limits struct {
	MaxWindows      int
	MaxCanvasPixels int
	MaxTreeNodes    int
}
