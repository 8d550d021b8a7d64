package window

import (
	"image"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/1broseidon/quadwm/internal/colors"
)

// Font is the fixed bitmap face used by DrawText.
var Font = basicfont.Face7x13

// GlyphWidth and GlyphHeight describe one text cell.
var (
	GlyphWidth  = Font.Advance
	GlyphHeight = Font.Height
)

// DrawText renders s with its top-left corner at canvas-local (x, y). Each
// rune fills a GlyphWidth x GlyphHeight cell: pixels set in the glyph bitmap
// get fg, the rest get bg. Cells falling outside the canvas are clipped.
func (w *Window) DrawText(x, y int, bg, fg colors.Index, s string) {
	if y >= w.Canvas.Height || y <= -GlyphHeight {
		return
	}
	cursor := x
	for _, r := range s {
		if cursor >= w.Canvas.Width {
			return
		}
		if cursor > -GlyphWidth {
			w.drawGlyph(cursor, y, bg, fg, r)
		}
		cursor += GlyphWidth
	}
}

func (w *Window) drawGlyph(x, y int, bg, fg colors.Index, r rune) {
	dot := fixed.P(x, y+Font.Ascent)
	dr, mask, maskp, _, ok := Font.Glyph(dot, r)

	for row := 0; row < GlyphHeight; row++ {
		for col := 0; col < GlyphWidth; col++ {
			px, py := x+col, y+row
			c := bg
			if ok && image.Pt(px, py).In(dr) {
				mx := maskp.X + px - dr.Min.X
				my := maskp.Y + py - dr.Min.Y
				if _, _, _, a := mask.At(mx, my).RGBA(); a > 0 {
					c = fg
				}
			}
			w.SetPixel(px, py, c)
		}
	}
}
