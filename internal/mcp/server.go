package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/quadwm/internal/ipc"
)

const (
	ServerName    = "quadwm"
	ServerVersion = "0.1.0"
)

// Display is the daemon API the tools call. *ipc.Client satisfies it.
type Display interface {
	CreateWindow(p ipc.CreateWindowPayload) (uint32, error)
	DrawPixel(p ipc.DrawPixelPayload) (bool, error)
	DrawLine(p ipc.DrawLinePayload) (bool, error)
	DrawText(p ipc.DrawTextPayload) (bool, error)
	RaiseWindow(windowID uint32) (bool, error)
	ListWindows() (*ipc.WindowsData, error)
	GetStatus() (*ipc.StatusData, error)
	QueryOcclusion(p ipc.QueryOcclusionPayload) (*ipc.OcclusionData, error)
}

// Server exposes compositor commands as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	display   Display
}

// NewServer creates an MCP server forwarding to display.
func NewServer(display Display) *Server {
	s := &Server{display: display}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_window",
		Description: "Create a window whose canvas is placed at (x, y) on the display with the given size. The window opens in front of every other window and gets a 10px title strip above and a 1px border around the canvas. Returns the window id.",
	}, s.handleCreateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "draw_pixel",
		Description: "Set one pixel of a window canvas to a palette color (0-63). Coordinates are canvas-local; out-of-range pixels are ignored. applied is false for unknown window ids.",
	}, s.handleDrawPixel)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "draw_line",
		Description: "Draw a straight line between two canvas-local points in a palette color (0-63). Parts outside the canvas are clipped.",
	}, s.handleDrawLine)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "draw_text",
		Description: "Render text into a window canvas with a fixed 7x13 font, starting at the canvas-local (x, y) top-left corner. Each glyph cell is painted fg on bg.",
	}, s.handleDrawText)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "raise_window",
		Description: "Bring a window to the front of the stack. applied is false when the window is unknown or already in front.",
	}, s.handleRaiseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every window from front to back with its frame, canvas, accent color and occlusion tree statistics.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the display backend, resolution, uptime and compositor counters.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "query_occlusion",
		Description: "Report whether the screen pixel (x, y) of a window is covered by a window in front of it.",
	}, s.handleQueryOcclusion)
}
