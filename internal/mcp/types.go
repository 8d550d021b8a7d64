package mcp

import "github.com/1broseidon/quadwm/internal/compositor"

// CreateWindowInput is the input for the create_window tool.
type CreateWindowInput struct {
	X      int    `json:"x" jsonschema:"required,Screen x of the canvas top-left corner"`
	Y      int    `json:"y" jsonschema:"required,Screen y of the canvas top-left corner"`
	Width  int    `json:"width" jsonschema:"required,Canvas width in pixels"`
	Height int    `json:"height" jsonschema:"required,Canvas height in pixels"`
	Title  string `json:"title,omitempty" jsonschema:"Optional window title"`
}

// CreateWindowOutput is the output for the create_window tool.
type CreateWindowOutput struct {
	WindowID uint32 `json:"window_id"`
}

// DrawPixelInput is the input for the draw_pixel tool.
type DrawPixelInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Target window id"`
	X        int    `json:"x" jsonschema:"required,Canvas-local x"`
	Y        int    `json:"y" jsonschema:"required,Canvas-local y"`
	Color    int    `json:"color" jsonschema:"required,Palette index 0-63"`
}

// DrawLineInput is the input for the draw_line tool.
type DrawLineInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Target window id"`
	X0       int    `json:"x0" jsonschema:"required,Start x (canvas-local)"`
	Y0       int    `json:"y0" jsonschema:"required,Start y (canvas-local)"`
	X1       int    `json:"x1" jsonschema:"required,End x (canvas-local)"`
	Y1       int    `json:"y1" jsonschema:"required,End y (canvas-local)"`
	Color    int    `json:"color" jsonschema:"required,Palette index 0-63"`
}

// DrawTextInput is the input for the draw_text tool.
type DrawTextInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Target window id"`
	X        int    `json:"x" jsonschema:"required,Canvas-local x of the first glyph cell"`
	Y        int    `json:"y" jsonschema:"required,Canvas-local y of the first glyph cell"`
	Text     string `json:"text" jsonschema:"required,Text to render"`
	FG       int    `json:"fg" jsonschema:"required,Foreground palette index 0-63"`
	BG       int    `json:"bg,omitempty" jsonschema:"Background palette index 0-63 (default: 0)"`
}

// WindowInput is the input for tools that only name a window.
type WindowInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Target window id"`
}

// AppliedOutput reports whether a command touched a window.
type AppliedOutput struct {
	Applied bool `json:"applied"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []compositor.WindowInfo `json:"windows"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Backend       string           `json:"backend"`
	Width         int              `json:"width"`
	Height        int              `json:"height"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Stats         compositor.Stats `json:"stats"`
}

// QueryOcclusionInput is the input for the query_occlusion tool.
type QueryOcclusionInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"required,Window to query"`
	X        int    `json:"x" jsonschema:"required,Screen x"`
	Y        int    `json:"y" jsonschema:"required,Screen y"`
}

// QueryOcclusionOutput is the output for the query_occlusion tool.
type QueryOcclusionOutput struct {
	Known    bool `json:"known"`
	Occluded bool `json:"occluded"`
}
