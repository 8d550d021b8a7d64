package window

import (
	"math"
	"testing"

	"github.com/1broseidon/quadwm/internal/colors"
)

func newCanvas(t *testing.T, w, h int) *Window {
	t.Helper()
	win, err := NewStack(Limits{}).Create(0, 0, w, h, "canvas")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return win
}

func painted(w *Window, c colors.Index) map[[2]int]bool {
	out := map[[2]int]bool{}
	for y := 0; y < w.Canvas.Height; y++ {
		for x := 0; x < w.Canvas.Width; x++ {
			if w.Pixel(x, y) == c {
				out[[2]int{x, y}] = true
			}
		}
	}
	return out
}

func TestSetPixel_Bounds(t *testing.T) {
	w := newCanvas(t, 8, 6)
	w.SetPixel(7, 5, 9)
	if w.Pixel(7, 5) != 9 {
		t.Fatalf("expected last pixel to be set")
	}

	before := append([]colors.Index(nil), w.pixels...)
	w.SetPixel(w.Canvas.Width, 0, 4)
	w.SetPixel(0, w.Canvas.Height, 4)
	w.SetPixel(-1, 2, 4)
	w.SetPixel(3, -1, 4)
	for i := range before {
		if before[i] != w.pixels[i] {
			t.Fatalf("out-of-range write changed buffer at %d", i)
		}
	}
}

func TestDrawLine_Horizontal(t *testing.T) {
	w := newCanvas(t, 10, 10)
	w.DrawLine(0, 0, 4, 0, 7)

	got := painted(w, 7)
	if len(got) != 5 {
		t.Fatalf("expected 5 pixels, got %d: %v", len(got), got)
	}
	for x := 0; x <= 4; x++ {
		if !got[[2]int{x, 0}] {
			t.Fatalf("pixel (%d,0) not set", x)
		}
	}
}

func TestDrawLine_Diagonal(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"down-right", 0, 0, 6, 6},
		{"up-left", 6, 6, 0, 0},
		{"down-left", 6, 0, 0, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newCanvas(t, 8, 8)
			w.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1, 3)
			got := painted(w, 3)
			if len(got) != 7 {
				t.Fatalf("expected 7 pixels, got %d", len(got))
			}
			sx, sy := sign(tt.x1-tt.x0), sign(tt.y1-tt.y0)
			for i := 0; i <= 6; i++ {
				p := [2]int{tt.x0 + i*sx, tt.y0 + i*sy}
				if !got[p] {
					t.Fatalf("diagonal missing %v", p)
				}
			}
		})
	}
}

func TestDrawLine_SteepIsConnected(t *testing.T) {
	w := newCanvas(t, 10, 20)
	w.DrawLine(1, 0, 4, 17, 5)
	got := painted(w, 5)
	if len(got) != 18 {
		t.Fatalf("steep line should have one pixel per row, got %d", len(got))
	}
	prevX := -1
	for y := 0; y <= 17; y++ {
		row := -1
		for x := 0; x < 10; x++ {
			if got[[2]int{x, y}] {
				row = x
			}
		}
		if row < 0 {
			t.Fatalf("row %d has no pixel", y)
		}
		if prevX >= 0 && abs(row-prevX) > 1 {
			t.Fatalf("gap between rows %d and %d", y-1, y)
		}
		prevX = row
	}
	if !got[[2]int{1, 0}] || !got[[2]int{4, 17}] {
		t.Fatal("endpoints not drawn")
	}
}

func TestDrawLine_ClipsOutside(t *testing.T) {
	w := newCanvas(t, 4, 4)
	w.DrawLine(-3, 1, 6, 1, 2)
	if got := painted(w, 2); len(got) != 4 {
		t.Fatalf("expected the 4 visible pixels, got %d", len(got))
	}
}

func TestDrawLine_FarEndpoints(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [][2]int
	}{
		{"far right", 0, 0, 1 << 40, 0, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"int extremes", math.MinInt, 2, math.MaxInt, 2, [][2]int{{0, 2}, {1, 2}, {2, 2}, {3, 2}}},
		{"far diagonal", -1 << 40, -1 << 40, 1 << 40, 1 << 40, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"miss", 10, 10, 1 << 40, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newCanvas(t, 4, 4)
			w.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1, 6)
			got := painted(w, 6)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d pixels, got %v", len(tt.want), got)
			}
			for _, p := range tt.want {
				if !got[p] {
					t.Fatalf("pixel %v not set, got %v", p, got)
				}
			}
		})
	}
}

func TestDrawText_FarOrigin(t *testing.T) {
	w := newCanvas(t, 4, 4)
	w.DrawText(math.MinInt, 0, 1, 2, "far left")
	w.DrawText(math.MaxInt-3, 0, 1, 2, "far right")
	w.DrawText(0, math.MaxInt, 1, 2, "far below")
	if got := len(painted(w, colors.Background)); got != 16 {
		t.Fatalf("off-canvas text touched the canvas: %d background pixels left", got)
	}
}

func TestDrawText_CellsAndColors(t *testing.T) {
	w := newCanvas(t, 3*GlyphWidth, GlyphHeight)
	const bg, fg = colors.Index(1), colors.Index(15)
	w.DrawText(0, 0, bg, fg, "AB")

	fgCount, bgCount := 0, 0
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < 2*GlyphWidth; x++ {
			switch w.Pixel(x, y) {
			case fg:
				fgCount++
			case bg:
				bgCount++
			default:
				t.Fatalf("pixel (%d,%d) inside text cells is %d", x, y, w.Pixel(x, y))
			}
		}
	}
	if fgCount == 0 || bgCount == 0 {
		t.Fatalf("expected both colors, fg=%d bg=%d", fgCount, bgCount)
	}
	// The third cell was never written.
	for y := 0; y < GlyphHeight; y++ {
		if c := w.Pixel(2*GlyphWidth+1, y); c != colors.Background {
			t.Fatalf("cursor overran into third cell at row %d: %d", y, c)
		}
	}
}

func TestDrawText_SpaceIsBackgroundOnly(t *testing.T) {
	w := newCanvas(t, GlyphWidth, GlyphHeight)
	w.DrawText(0, 0, 6, 12, " ")
	if got := painted(w, 12); len(got) != 0 {
		t.Fatalf("space glyph produced %d foreground pixels", len(got))
	}
	if got := painted(w, 6); len(got) != GlyphWidth*GlyphHeight {
		t.Fatalf("space cell should be all background, got %d", len(got))
	}
}
