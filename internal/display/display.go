// Package display contains the pixel sinks the compositor renders into.
//
// A sink only knows how to store one palette index at one screen
// coordinate. Backends: an in-memory surface (tests, snapshots), the Linux
// framebuffer device, and an X11 preview window.
package display

import (
	"fmt"
	"image"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/geom"
)

// Mode is the video mode programmed once at startup.
type Mode struct {
	Width  int
	Height int
	Colors int
}

// DefaultMode is 320x200 with the 64 entry palette.
var DefaultMode = Mode{Width: 320, Height: 200, Colors: colors.Usable}

// Bounds returns the visible area of the mode.
func (m Mode) Bounds() geom.Bound { return geom.B(0, 0, m.Width, m.Height) }

// Surface receives pixel writes. Poke is only called with coordinates inside
// Bounds.
type Surface interface {
	Bounds() geom.Bound
	Poke(x, y int, c colors.Index)
}

// Flusher is implemented by surfaces that need an explicit present step
// after a render pass.
type Flusher interface {
	Flush() error
}

// ModeSetter is implemented by devices that must be programmed before use.
type ModeSetter interface {
	SetMode(m Mode) error
}

// Device is an opened backend.
type Device interface {
	Surface
	Close() error
}

// Clear fills the whole surface with c.
func Clear(s Surface, c colors.Index) {
	b := s.Bounds()
	for y := b.Y; y < b.Bottom(); y++ {
		for x := b.X; x < b.Right(); x++ {
			s.Poke(x, y, c)
		}
	}
}

// Memory is a plain row-major surface.
type Memory struct {
	mode Mode
	pix  []colors.Index
}

// NewMemory allocates a cleared surface for m.
func NewMemory(m Mode) *Memory {
	return &Memory{mode: m, pix: make([]colors.Index, m.Width*m.Height)}
}

func (m *Memory) Bounds() geom.Bound { return m.mode.Bounds() }

func (m *Memory) Poke(x, y int, c colors.Index) {
	m.pix[y*m.mode.Width+x] = c
}

// SetMode reallocates the surface for a new mode.
func (m *Memory) SetMode(mode Mode) error {
	if mode.Width <= 0 || mode.Height <= 0 {
		return fmt.Errorf("invalid mode %dx%d", mode.Width, mode.Height)
	}
	m.mode = mode
	m.pix = make([]colors.Index, mode.Width*mode.Height)
	return nil
}

// At returns the color at (x, y), or Background outside the surface.
func (m *Memory) At(x, y int) colors.Index {
	if !m.Bounds().Contains(x, y) {
		return colors.Background
	}
	return m.pix[y*m.mode.Width+x]
}

// Pixels returns a copy of the surface contents.
func (m *Memory) Pixels() []byte {
	out := make([]byte, len(m.pix))
	for i, c := range m.pix {
		out[i] = byte(c)
	}
	return out
}

// Image returns a paletted copy of the surface.
func (m *Memory) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, m.mode.Width, m.mode.Height), colors.Palette())
	copy(img.Pix, m.Pixels())
	return img
}

func (m *Memory) Close() error { return nil }

// Tee forwards every write to all of its surfaces. Bounds is taken from the
// first one.
type Tee []Surface

func (t Tee) Bounds() geom.Bound { return t[0].Bounds() }

func (t Tee) Poke(x, y int, c colors.Index) {
	for _, s := range t {
		s.Poke(x, y, c)
	}
}

func (t Tee) Flush() error {
	for _, s := range t {
		if f, ok := s.(Flusher); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Counter wraps a surface and counts pokes per pixel.
type Counter struct {
	Surface
	Writes map[[2]int]int
	Total  int
}

// NewCounter wraps s.
func NewCounter(s Surface) *Counter {
	return &Counter{Surface: s, Writes: map[[2]int]int{}}
}

func (c *Counter) Poke(x, y int, col colors.Index) {
	c.Writes[[2]int{x, y}]++
	c.Total++
	c.Surface.Poke(x, y, col)
}

// Reset clears the counts.
func (c *Counter) Reset() {
	c.Writes = map[[2]int]int{}
	c.Total = 0
}
