package window

import (
	"fmt"
	"iter"
	"slices"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/geom"
	"github.com/1broseidon/quadwm/internal/occlusion"
)

// Stack owns every window in front-to-back order. Index 0 is the front.
type Stack struct {
	order   []*Window
	nextID  ID
	created int
	limits  Limits
}

// NewStack returns an empty stack enforcing limits.
func NewStack(limits Limits) *Stack {
	return &Stack{limits: limits}
}

// SetLimits replaces the limits. Existing windows are kept even if they
// exceed the new values; only later allocations are checked.
func (s *Stack) SetLimits(limits Limits) {
	s.limits = limits
	for _, w := range s.order {
		w.tree.SetLimit(limits.MaxTreeNodes)
	}
}

// Limits returns the active limits.
func (s *Stack) Limits() Limits { return s.limits }

// Len returns the number of windows.
func (s *Stack) Len() int { return len(s.order) }

// Create allocates a window whose canvas sits at (x, y) with the given size
// and puts it in front of every other window.
func (s *Stack) Create(x, y, width, height int, title string) (*Window, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if s.limits.MaxWindows > 0 && len(s.order) >= s.limits.MaxWindows {
		return nil, fmt.Errorf("%w: window limit %d reached", ErrResourceExhausted, s.limits.MaxWindows)
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: canvas %dx%d exceeds %d pixels per side", ErrResourceExhausted, width, height, MaxDimension)
	}
	if x < -MaxCoordinate || x > MaxCoordinate || y < -MaxCoordinate || y > MaxCoordinate {
		return nil, fmt.Errorf("%w: canvas origin (%d,%d)", ErrInvalidPosition, x, y)
	}
	if limit := s.limits.MaxCanvasPixels; limit > 0 && width > 0 && height > limit/width {
		return nil, fmt.Errorf("%w: canvas %dx%d exceeds %d pixels", ErrResourceExhausted, width, height, limit)
	}

	canvas := geom.B(x, y, width, height)
	frame := FrameFor(canvas)
	side := occlusion.SquareSide(frame.Width, frame.Height)

	w := &Window{
		ID:     s.nextID,
		Title:  title,
		Frame:  frame,
		Canvas: canvas,
		Color:  colors.Accent(s.created),
		pixels: make([]colors.Index, width*height),
		tree:   occlusion.New(geom.B(frame.X, frame.Y, side, side), s.limits.MaxTreeNodes),
	}
	s.nextID++
	s.created++

	s.order = slices.Insert(s.order, 0, w)
	return w, nil
}

// Checkpoint records the z-order so a failed operation can be undone.
type Checkpoint struct {
	order []*Window
}

// Checkpoint captures the current z-order.
func (s *Stack) Checkpoint() Checkpoint {
	return Checkpoint{order: slices.Clone(s.order)}
}

// Rollback restores the z-order captured by cp. Windows created since are
// dropped; their ids are not reused.
func (s *Stack) Rollback(cp Checkpoint) {
	s.order = slices.Clone(cp.order)
}

// Lookup finds a window by id.
func (s *Stack) Lookup(id ID) (*Window, bool) {
	i := s.Position(id)
	if i < 0 {
		return nil, false
	}
	return s.order[i], true
}

// Position returns the z-position of id (0 is front), or -1 if unknown.
func (s *Stack) Position(id ID) int {
	for i, w := range s.order {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// Raise moves id to the front. It reports false when id is unknown or
// already in front.
func (s *Stack) Raise(id ID) bool {
	i := s.Position(id)
	if i <= 0 {
		return false
	}
	w := s.order[i]
	s.order = slices.Delete(s.order, i, i+1)
	s.order = slices.Insert(s.order, 0, w)
	return true
}

// FrontToBack iterates from the topmost window down.
func (s *Stack) FrontToBack() iter.Seq[*Window] {
	return func(yield func(*Window) bool) {
		for _, w := range s.order {
			if !yield(w) {
				return
			}
		}
	}
}

// BackToFront iterates from the bottommost window up.
func (s *Stack) BackToFront() iter.Seq[*Window] {
	return func(yield func(*Window) bool) {
		for i := len(s.order) - 1; i >= 0; i-- {
			if !yield(s.order[i]) {
				return
			}
		}
	}
}

// Above iterates the windows strictly in front of the window at position i,
// nearest first.
func (s *Stack) Above(i int) iter.Seq[*Window] {
	return func(yield func(*Window) bool) {
		for j := i - 1; j >= 0; j-- {
			if !yield(s.order[j]) {
				return
			}
		}
	}
}
