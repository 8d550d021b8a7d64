package display

import (
	"testing"

	"github.com/1broseidon/quadwm/internal/colors"
)

func TestMemory_PokeAndAt(t *testing.T) {
	m := NewMemory(Mode{Width: 4, Height: 3, Colors: colors.Usable})
	m.Poke(3, 2, 9)
	if got := m.At(3, 2); got != 9 {
		t.Fatalf("At(3,2) = %d, want 9", got)
	}
	if got := m.At(4, 0); got != colors.Background {
		t.Fatalf("At outside = %d, want background", got)
	}
	px := m.Pixels()
	if len(px) != 12 || px[11] != 9 {
		t.Fatalf("Pixels() = %v", px)
	}
	px[11] = 1
	if m.At(3, 2) != 9 {
		t.Fatal("Pixels() must return a copy")
	}
}

func TestClear(t *testing.T) {
	m := NewMemory(Mode{Width: 5, Height: 5})
	m.Poke(1, 1, 4)
	Clear(m, 2)
	for _, p := range m.Pixels() {
		if p != 2 {
			t.Fatalf("pixel %d after clear, want 2", p)
		}
	}
}

type flushCounter struct {
	*Memory
	flushed int
}

func (f *flushCounter) Flush() error {
	f.flushed++
	return nil
}

func TestTee_ForwardsAndFlushes(t *testing.T) {
	a := NewMemory(Mode{Width: 2, Height: 2})
	b := &flushCounter{Memory: NewMemory(Mode{Width: 2, Height: 2})}
	tee := Tee{a, b}

	tee.Poke(1, 0, 7)
	if a.At(1, 0) != 7 || b.At(1, 0) != 7 {
		t.Fatal("tee did not forward poke to both surfaces")
	}
	if err := tee.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if b.flushed != 1 {
		t.Fatalf("flushed %d times, want 1", b.flushed)
	}
	if tee.Bounds() != a.Bounds() {
		t.Fatal("tee bounds should come from the first surface")
	}
}

func TestMemory_Image(t *testing.T) {
	m := NewMemory(Mode{Width: 3, Height: 2})
	m.Poke(2, 1, 15)
	img := m.Image()
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("image bounds = %v", img.Bounds())
	}
	if img.ColorIndexAt(2, 1) != 15 {
		t.Fatalf("image index = %d, want 15", img.ColorIndexAt(2, 1))
	}
	if len(img.Palette) != colors.Usable {
		t.Fatalf("palette size = %d", len(img.Palette))
	}
}

func TestOpen_MemoryAndUnknown(t *testing.T) {
	dev, err := Open(Options{Backend: BackendMemory, Mode: DefaultMode})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	defer dev.Close()
	if b := dev.Bounds(); b.Width != 320 || b.Height != 200 {
		t.Fatalf("bounds = %v", b)
	}

	if _, err := Open(Options{Backend: "vga-planar", Mode: DefaultMode}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestCounter(t *testing.T) {
	c := NewCounter(NewMemory(Mode{Width: 2, Height: 2}))
	c.Poke(0, 0, 1)
	c.Poke(0, 0, 2)
	if c.Writes[[2]int{0, 0}] != 2 || c.Total != 2 {
		t.Fatalf("counts = %v total %d", c.Writes, c.Total)
	}
	c.Reset()
	if c.Total != 0 || len(c.Writes) != 0 {
		t.Fatal("reset did not clear counts")
	}
}

func TestFitScale(t *testing.T) {
	mode := Mode{Width: 320, Height: 200, Colors: 64}
	cases := []struct {
		name string
		mons []Monitor
		want int
	}{
		{"no monitors", nil, 1},
		{"1080p", []Monitor{{Width: 1920, Height: 1080}}, 5},
		{"smallest monitor wins", []Monitor{{Width: 3840, Height: 2160}, {Width: 1280, Height: 1024}}, 4},
		{"capped", []Monitor{{Width: 7680, Height: 4320}}, MaxAutoScale},
		{"too small", []Monitor{{Width: 200, Height: 100}}, 1},
	}
	for _, tc := range cases {
		if got := fitScale(tc.mons, mode); got != tc.want {
			t.Fatalf("%s: fitScale = %d, want %d", tc.name, got, tc.want)
		}
	}
}
