package geom

import "testing"

func TestContains_HalfOpen(t *testing.T) {
	b := B(2, 3, 4, 5)
	tests := []struct {
		x, y int
		want bool
	}{
		{2, 3, true},
		{5, 7, true},
		{6, 3, false},
		{2, 8, false},
		{1, 3, false},
		{2, 2, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func sampleBounds() []Bound {
	var out []Bound
	for _, x := range []int{-4, 0, 3, 7} {
		for _, y := range []int{-2, 0, 5} {
			for _, w := range []int{0, 1, 4, 10} {
				for _, h := range []int{1, 3, 8} {
					out = append(out, B(x, y, w, h))
				}
			}
		}
	}
	return out
}

func TestIntersects_Symmetric(t *testing.T) {
	bounds := sampleBounds()
	for _, a := range bounds {
		for _, b := range bounds {
			if Intersects(a, b) != Intersects(b, a) {
				t.Fatalf("Intersects not symmetric for %v and %v", a, b)
			}
		}
	}
}

func TestIntersection_ContainedInBoth(t *testing.T) {
	bounds := sampleBounds()
	checked := 0
	for _, a := range bounds {
		for _, b := range bounds {
			if !Intersects(a, b) {
				continue
			}
			in := Intersection(a, b)
			if !ContainsWithin(in, a) || !ContainsWithin(in, b) {
				t.Fatalf("Intersection(%v, %v) = %v not within both", a, b, in)
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatal("no intersecting pairs exercised")
	}
}

func TestIntersects_TouchingEdges(t *testing.T) {
	a := B(0, 0, 10, 10)
	if Intersects(a, B(10, 0, 5, 5)) {
		t.Fatal("bounds sharing a vertical edge should not intersect")
	}
	if Intersects(a, B(0, 10, 5, 5)) {
		t.Fatal("bounds sharing a horizontal edge should not intersect")
	}
	if !Intersects(a, B(9, 9, 5, 5)) {
		t.Fatal("expected one-pixel overlap to intersect")
	}
}

func TestContainsWithin(t *testing.T) {
	outer := B(0, 0, 8, 8)
	if !ContainsWithin(outer, outer) {
		t.Fatal("bound should contain itself")
	}
	if !ContainsWithin(B(2, 2, 6, 6), outer) {
		t.Fatal("expected inner flush with bottom-right edge to be within")
	}
	if ContainsWithin(B(2, 2, 7, 6), outer) {
		t.Fatal("expected overhang to fail")
	}
	if ContainsWithin(B(-1, 0, 2, 2), outer) {
		t.Fatal("expected negative overhang to fail")
	}
}

func TestIntersection_Values(t *testing.T) {
	got := Intersection(B(-1, -10, 12, 21), B(4, -5, 12, 21))
	want := B(4, -5, 7, 16)
	if got != want {
		t.Fatalf("Intersection = %v, want %v", got, want)
	}
}
