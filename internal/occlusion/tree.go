// Package occlusion implements the per-window region quadtree that records
// which parts of a window are covered by windows stacked above it.
//
// The tree is rebuilt from scratch whenever the window topology changes and
// then answers point queries during rendering. A query descends at most
// log2(side) levels regardless of how many occluders were merged in.
package occlusion

import (
	"errors"

	"github.com/1broseidon/quadwm/internal/geom"
)

// ErrNodeLimit is returned when subdividing would exceed the tree's node limit.
var ErrNodeLimit = errors.New("occlusion tree node limit reached")

// Quadrant indexes a node's children.
type Quadrant int

const (
	NW Quadrant = iota
	NE
	SW
	SE
)

type node struct {
	bound  geom.Bound
	hidden bool
	quads  [4]*node
}

func (n *node) children() int {
	c := 0
	for _, q := range n.quads {
		if q != nil {
			c++
		}
	}
	return c
}

// size counts n and every node below it.
func (n *node) size() int {
	total := 1
	for _, q := range n.quads {
		if q != nil {
			total += q.size()
		}
	}
	return total
}

// Tree is a region quadtree over a square, power-of-two sized bound.
type Tree struct {
	root  *node
	nodes int
	limit int
}

// New creates a tree covering bound. limit caps the total node count
// (root included); zero or negative means unlimited.
func New(bound geom.Bound, limit int) *Tree {
	return &Tree{
		root:  &node{bound: bound},
		nodes: 1,
		limit: limit,
	}
}

// Bound returns the area covered by the root.
func (t *Tree) Bound() geom.Bound { return t.root.bound }

// Nodes returns the number of allocated nodes, root included.
func (t *Tree) Nodes() int { return t.nodes }

// SetLimit changes the node limit for subsequent MarkOccluded calls.
func (t *Tree) SetLimit(limit int) { t.limit = limit }

// Reset discards every child and clears the root's hidden flag.
func (t *Tree) Reset() {
	t.root.quads = [4]*node{}
	t.root.hidden = false
	t.nodes = 1
}

// MarkOccluded merges one occluding rectangle into the tree.
//
// Repeated calls accumulate a conservative union: nodes only ever become
// hidden until the next Reset. On ErrNodeLimit the tree keeps whatever was
// merged so far, which never reports a visible pixel as hidden.
func (t *Tree) MarkOccluded(occluder geom.Bound) error {
	if occluder.Empty() {
		return nil
	}
	return t.check(t.root, occluder)
}

func (t *Tree) check(n *node, occ geom.Bound) error {
	if n.hidden {
		return nil
	}
	if geom.ContainsWithin(n.bound, occ) {
		t.hide(n)
		return nil
	}
	if !geom.Intersects(n.bound, occ) {
		return nil
	}
	// Minimum granularity: a partially covered single pixel cannot exist, so
	// anything this small that reaches here stays visible.
	if n.bound.Width <= 1 || n.bound.Height <= 1 {
		return nil
	}

	quads := quadrants(n.bound)
	for i, qb := range quads {
		if !geom.Intersects(qb, occ) {
			continue
		}
		if n.quads[i] == nil {
			if t.limit > 0 && t.nodes >= t.limit {
				return ErrNodeLimit
			}
			n.quads[i] = &node{bound: qb}
			t.nodes++
		}
		if err := t.check(n.quads[i], occ); err != nil {
			return err
		}
	}

	if n.children() == 4 &&
		n.quads[NW].hidden && n.quads[NE].hidden &&
		n.quads[SW].hidden && n.quads[SE].hidden {
		t.hide(n)
	}
	return nil
}

// hide marks n fully occluded and prunes its subtree.
func (t *Tree) hide(n *node) {
	t.nodes -= n.size() - 1
	n.quads = [4]*node{}
	n.hidden = true
}

func quadrants(b geom.Bound) [4]geom.Bound {
	hw, hh := b.Width/2, b.Height/2
	return [4]geom.Bound{
		NW: {X: b.X, Y: b.Y, Width: hw, Height: hh},
		NE: {X: b.X + hw, Y: b.Y, Width: hw, Height: hh},
		SW: {X: b.X, Y: b.Y + hh, Width: hw, Height: hh},
		SE: {X: b.X + hw, Y: b.Y + hh, Width: hw, Height: hh},
	}
}

// Occluded reports whether pixel (x, y) is covered according to the tree.
// Points outside the root bound are never occluded.
func (t *Tree) Occluded(x, y int) bool {
	n := t.root
	if !n.bound.Contains(x, y) {
		return false
	}
	for {
		if n.hidden {
			return true
		}
		var next *node
		for _, q := range n.quads {
			if q != nil && q.bound.Contains(x, y) {
				next = q
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes        int `json:"nodes"`
	HiddenLeaves int `json:"hidden_leaves"`
	Depth        int `json:"depth"`
}

// Stats walks the tree and reports its node count, hidden leaves and depth.
func (t *Tree) Stats() Stats {
	var s Stats
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		s.Nodes++
		if depth > s.Depth {
			s.Depth = depth
		}
		if n.hidden {
			s.HiddenLeaves++
			return
		}
		for _, q := range n.quads {
			if q != nil {
				walk(q, depth+1)
			}
		}
	}
	walk(t.root, 0)
	return s
}

// MaxSide is the largest side SquareSide returns.
const MaxSide = 1 << 30

// SquareSide returns the smallest power of two that is >= both width and
// height, capped at MaxSide.
func SquareSide(width, height int) int {
	side := 1
	for side < MaxSide && (side < width || side < height) {
		side *= 2
	}
	return side
}
