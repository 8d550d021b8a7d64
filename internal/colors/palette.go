// Package colors defines the fixed color palette shared by every window and
// display backend.
package colors

import (
	"errors"
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Index is a palette entry.
type Index uint8

// Usable is the number of palette entries clients may address.
const Usable = 64

const (
	// Background is what the display is cleared to before every render.
	Background Index = 0
	// FirstAccent is the accent color handed to the first window.
	FirstAccent Index = 1
)

// ErrInvalidColor is returned for indices outside the usable palette.
var ErrInvalidColor = errors.New("color index out of range")

// Validate checks that a client supplied value addresses the usable palette.
func Validate(v int) (Index, error) {
	if v < 0 || v >= Usable {
		return 0, fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidColor, v, Usable-1)
	}
	return Index(v), nil
}

// Accent maps the n-th window (0-based) to its accent color. The sequence
// starts at FirstAccent, increases by one per window and skips Background
// when it wraps.
func Accent(n int) Index {
	span := Usable - int(FirstAccent)
	return FirstAccent + Index(n%span)
}

var cga = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff}, {0x00, 0x00, 0xaa, 0xff},
	{0x00, 0xaa, 0x00, 0xff}, {0x00, 0xaa, 0xaa, 0xff},
	{0xaa, 0x00, 0x00, 0xff}, {0xaa, 0x00, 0xaa, 0xff},
	{0xaa, 0x55, 0x00, 0xff}, {0xaa, 0xaa, 0xaa, 0xff},
	{0x55, 0x55, 0x55, 0xff}, {0x55, 0x55, 0xff, 0xff},
	{0x55, 0xff, 0x55, 0xff}, {0x55, 0xff, 0xff, 0xff},
	{0xff, 0x55, 0x55, 0xff}, {0xff, 0x55, 0xff, 0xff},
	{0xff, 0xff, 0x55, 0xff}, {0xff, 0xff, 0xff, 0xff},
}

var table = build()

// build lays out 16 CGA colors, a 16 step gray ramp and two 16 step hue
// wheels (saturated, then pastel).
func build() [Usable]color.RGBA {
	var t [Usable]color.RGBA
	copy(t[:16], cga[:])
	for i := 0; i < 16; i++ {
		v := uint8(i * 17)
		t[16+i] = color.RGBA{v, v, v, 0xff}
	}
	for i := 0; i < 16; i++ {
		hue := float64(i) * 360 / 16
		r, g, b := colorful.Hsv(hue, 1, 1).RGB255()
		t[32+i] = color.RGBA{r, g, b, 0xff}
		r, g, b = colorful.Hsv(hue, 0.45, 0.9).RGB255()
		t[48+i] = color.RGBA{r, g, b, 0xff}
	}
	return t
}

// RGBA returns the color for i. Indices past the usable range wrap.
func RGBA(i Index) color.RGBA {
	return table[int(i)%Usable]
}

// Hex returns i as a "#rrggbb" string.
func Hex(i Index) string {
	c := RGBA(i)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette returns the usable palette as an image/color palette.
func Palette() color.Palette {
	p := make(color.Palette, Usable)
	for i := range table {
		p[i] = table[i]
	}
	return p
}
