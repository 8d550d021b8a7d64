package compositor

import (
	"fmt"
	"time"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/geom"
	"github.com/1broseidon/quadwm/internal/occlusion"
	"github.com/1broseidon/quadwm/internal/window"
)

// Command is one client request.
type Command interface {
	// Name identifies the command in logs.
	Name() string
	// apply mutates the stack. It reports whether a window was affected and
	// whether the z-order or geometry changed.
	apply(s *window.Stack) (res Result, topology bool, err error)
}

// Result is the outcome of Apply.
type Result struct {
	Window window.ID
	// Applied is false when the command named an unknown window (or raised
	// the front window) and nothing changed.
	Applied bool
}

// CreateWindow opens a window whose canvas is at X, Y.
type CreateWindow struct {
	X, Y          int
	Width, Height int
	Title         string
}

func (CreateWindow) Name() string { return "create_window" }

func (c CreateWindow) apply(s *window.Stack) (Result, bool, error) {
	w, err := s.Create(c.X, c.Y, c.Width, c.Height, c.Title)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Window: w.ID, Applied: true}, true, nil
}

// DrawPixel sets one canvas pixel.
type DrawPixel struct {
	Window window.ID
	X, Y   int
	Color  colors.Index
}

func (DrawPixel) Name() string { return "draw_pixel" }

func (c DrawPixel) apply(s *window.Stack) (Result, bool, error) {
	w, ok := s.Lookup(c.Window)
	if !ok {
		return Result{Window: c.Window}, false, nil
	}
	w.SetPixel(c.X, c.Y, c.Color)
	return Result{Window: c.Window, Applied: true}, false, nil
}

// DrawLine rasterizes a segment into a canvas.
type DrawLine struct {
	Window         window.ID
	X0, Y0, X1, Y1 int
	Color          colors.Index
}

func (DrawLine) Name() string { return "draw_line" }

func (c DrawLine) apply(s *window.Stack) (Result, bool, error) {
	w, ok := s.Lookup(c.Window)
	if !ok {
		return Result{Window: c.Window}, false, nil
	}
	w.DrawLine(c.X0, c.Y0, c.X1, c.Y1, c.Color)
	return Result{Window: c.Window, Applied: true}, false, nil
}

// DrawText renders a string into a canvas.
type DrawText struct {
	Window window.ID
	X, Y   int
	BG, FG colors.Index
	Text   string
}

func (DrawText) Name() string { return "draw_text" }

func (c DrawText) apply(s *window.Stack) (Result, bool, error) {
	w, ok := s.Lookup(c.Window)
	if !ok {
		return Result{Window: c.Window}, false, nil
	}
	w.DrawText(c.X, c.Y, c.BG, c.FG, c.Text)
	return Result{Window: c.Window, Applied: true}, false, nil
}

// RaiseWindow brings a window to the front.
type RaiseWindow struct {
	Window window.ID
}

func (RaiseWindow) Name() string { return "raise_window" }

func (c RaiseWindow) apply(s *window.Stack) (Result, bool, error) {
	raised := s.Raise(c.Window)
	return Result{Window: c.Window, Applied: raised}, raised, nil
}

// Apply runs cmd followed by the rebuild and render pass, all under the
// compositor lock. Unknown window ids are not an error: the result has
// Applied set to false and the display is still refreshed.
func (c *Compositor) Apply(cmd Command) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := c.stack.Checkpoint()
	res, topology, err := cmd.apply(c.stack)
	c.stats.Commands++
	if err != nil {
		c.logger.Warn("command failed", "command", cmd.Name(), "error", err)
		return res, fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	if !res.Applied {
		c.stats.NoOps++
		c.logger.Debug("command was a no-op", "command", cmd.Name(), "window", res.Window)
	}
	if topology {
		c.dirty = true
	}
	if err := c.update(); err != nil {
		if topology {
			c.rollback(cp, cmd)
			res.Applied = false
		}
		return res, fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return res, nil
}

// rollback undoes a create or raise whose rebuild failed and repaints the
// previous stack. Must hold mu.
func (c *Compositor) rollback(cp window.Checkpoint, cmd Command) {
	c.stack.Rollback(cp)
	c.dirty = true
	if err := c.update(); err != nil {
		c.logger.Warn("rebuild after rollback failed", "command", cmd.Name(), "error", err)
		return
	}
	c.logger.Debug("command rolled back", "command", cmd.Name())
}

// WindowInfo describes one window for status listings.
type WindowInfo struct {
	ID       window.ID       `json:"id"`
	Title    string          `json:"title"`
	Frame    geom.Bound      `json:"frame"`
	Canvas   geom.Bound      `json:"canvas"`
	Color    colors.Index    `json:"color"`
	Position int             `json:"position"`
	Tree     occlusion.Stats `json:"tree"`
}

// Windows lists every window front to back.
func (c *Compositor) Windows() []WindowInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]WindowInfo, 0, c.stack.Len())
	pos := 0
	for w := range c.stack.FrontToBack() {
		out = append(out, WindowInfo{
			ID:       w.ID,
			Title:    w.Title,
			Frame:    w.Frame,
			Canvas:   w.Canvas,
			Color:    w.Color,
			Position: pos,
			Tree:     w.Tree().Stats(),
		})
		pos++
	}
	return out
}

// Occluded reports whether screen pixel (x, y) of window id is covered by a
// window above it. known is false for unknown ids.
func (c *Compositor) Occluded(id window.ID, x, y int) (occluded, known bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.stack.Lookup(id)
	if !ok {
		return false, false
	}
	return w.Tree().Occluded(x, y), true
}

// Snapshot is a copy of the displayed pixels.
type Snapshot struct {
	Width  int
	Height int
	Pixels []byte
}

// Snapshot copies the current display contents.
func (c *Compositor) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.shadow.Bounds()
	return Snapshot{Width: b.Width, Height: b.Height, Pixels: c.shadow.Pixels()}
}

// Stats counts compositor work since startup.
type Stats struct {
	Commands      int           `json:"commands"`
	NoOps         int           `json:"no_ops"`
	Rebuilds      int           `json:"rebuilds"`
	Renders       int           `json:"renders"`
	PixelsWritten int           `json:"pixels_written"`
	LastRebuild   time.Duration `json:"last_rebuild_ns"`
	LastRender    time.Duration `json:"last_render_ns"`
	Windows       int           `json:"windows"`
	Policy        Policy        `json:"policy"`
}

// Stats returns a copy of the counters.
func (c *Compositor) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Windows = c.stack.Len()
	s.Policy = c.policy
	return s
}
