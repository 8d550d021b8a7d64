// Package compositor owns the window stack and the display and turns client
// commands into rebuild and render passes.
package compositor

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/display"
	"github.com/1broseidon/quadwm/internal/geom"
	"github.com/1broseidon/quadwm/internal/window"
)

// Policy controls when occlusion trees are rebuilt.
type Policy string

const (
	// RebuildTopology rebuilds only after a window is created or raised.
	// Canvas draws re-render with the existing trees.
	RebuildTopology Policy = "topology"
	// RebuildAlways rebuilds before every render.
	RebuildAlways Policy = "always"
)

// Options configures a Compositor.
type Options struct {
	Limits window.Limits
	Policy Policy
	Logger *slog.Logger
}

// Compositor serializes every operation on the window stack and display.
type Compositor struct {
	mu      sync.Mutex
	stack   *window.Stack
	surface display.Surface
	shadow  *display.Memory
	policy  Policy
	dirty   bool
	logger  *slog.Logger
	stats   Stats
}

// New creates a compositor drawing into surface. A memory shadow of the
// display is kept for snapshots; surface may be nil to render only into the
// shadow.
func New(surface display.Surface, mode display.Mode, opts Options) *Compositor {
	shadow := display.NewMemory(mode)
	target := display.Surface(shadow)
	if surface != nil {
		target = display.Tee{shadow, surface}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	policy := opts.Policy
	if policy == "" {
		policy = RebuildTopology
	}
	return &Compositor{
		stack:   window.NewStack(opts.Limits),
		surface: target,
		shadow:  shadow,
		policy:  policy,
		logger:  logger,
	}
}

// SetPolicy changes the rebuild policy.
func (c *Compositor) SetPolicy(p Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = p
}

// SetLimits changes the allocation limits for later operations.
func (c *Compositor) SetLimits(l window.Limits) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stack.SetLimits(l)
}

// SetLogger replaces the logger.
func (c *Compositor) SetLogger(l *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

// Refresh rebuilds every tree and repaints the display.
func (c *Compositor) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = true
	return c.update()
}

// Rebuild recomputes every occlusion tree without rendering.
func (c *Compositor) Rebuild() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.rebuild(); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Render repaints the display. Trees left stale by a failed rebuild are
// rebuilt first; if that fails the display is not touched.
func (c *Compositor) Render() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty {
		if err := c.rebuild(); err != nil {
			return err
		}
		c.dirty = false
	}
	return c.render()
}

// update runs the rebuild (when needed) and render pair. Must hold mu.
func (c *Compositor) update() error {
	if c.dirty || c.policy == RebuildAlways {
		if err := c.rebuild(); err != nil {
			return err
		}
		c.dirty = false
	}
	return c.render()
}

// rebuild recomputes every window's occlusion tree from the current z-order.
// Each window accumulates the overlap of every frame strictly in front of it.
func (c *Compositor) rebuild() error {
	if c.stack.Len() == 0 {
		return nil
	}
	start := time.Now()

	for w := range c.stack.FrontToBack() {
		w.Tree().Reset()
	}

	pos := c.stack.Len() - 1
	for w := range c.stack.BackToFront() {
		for o := range c.stack.Above(pos) {
			if !geom.Intersects(w.Frame, o.Frame) {
				continue
			}
			if err := w.Tree().MarkOccluded(geom.Intersection(w.Frame, o.Frame)); err != nil {
				// Leave the trees flagged for a retry on the next command.
				c.dirty = true
				return fmt.Errorf("%w: rebuilding window %d: %w", window.ErrResourceExhausted, w.ID, err)
			}
		}
		pos--
	}

	c.stats.Rebuilds++
	c.stats.LastRebuild = time.Since(start)
	c.logger.Debug("occlusion trees rebuilt", "windows", c.stack.Len(), "duration", c.stats.LastRebuild)
	return nil
}

// render clears the display and draws every window through its own tree.
// Draw order is irrelevant: no window writes a pixel its tree reports
// covered.
func (c *Compositor) render() error {
	start := time.Now()
	display.Clear(c.surface, colors.Background)

	var written int
	for w := range c.stack.BackToFront() {
		written += c.drawWindow(w)
	}

	c.stats.Renders++
	c.stats.PixelsWritten += written
	c.stats.LastRender = time.Since(start)
	c.logger.Debug("display rendered", "pixels", written, "duration", c.stats.LastRender)

	if f, ok := c.surface.(display.Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("failed to flush display: %w", err)
		}
	}
	return nil
}

func (c *Compositor) drawWindow(w *window.Window) int {
	n := c.fill(w, w.TitleStrip(), w.Color)
	for _, edge := range w.Borders() {
		n += c.fill(w, edge, w.Color)
	}

	cv := w.Canvas
	vis, ok := visible(cv, c.surface.Bounds())
	if !ok {
		return n
	}
	tree := w.Tree()
	for y := vis.Y; y < vis.Bottom(); y++ {
		for x := vis.X; x < vis.Right(); x++ {
			if tree.Occluded(x, y) {
				continue
			}
			c.surface.Poke(x, y, w.Pixel(x-cv.X, y-cv.Y))
			n++
		}
	}
	return n
}

func (c *Compositor) fill(w *window.Window, b geom.Bound, col colors.Index) int {
	vis, ok := visible(b, c.surface.Bounds())
	if !ok {
		return 0
	}
	tree := w.Tree()
	n := 0
	for y := vis.Y; y < vis.Bottom(); y++ {
		for x := vis.X; x < vis.Right(); x++ {
			if tree.Occluded(x, y) {
				continue
			}
			c.surface.Poke(x, y, col)
			n++
		}
	}
	return n
}

// visible clips b to the screen.
func visible(b, screen geom.Bound) (geom.Bound, bool) {
	if b.Empty() || !geom.Intersects(b, screen) {
		return geom.Bound{}, false
	}
	return geom.Intersection(b, screen), true
}
