package mcp

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/compositor"
	"github.com/1broseidon/quadwm/internal/display"
	"github.com/1broseidon/quadwm/internal/ipc"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir, err := os.MkdirTemp("", "qwmm")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	comp := compositor.New(nil, display.Mode{Width: 32, Height: 32, Colors: colors.Usable}, compositor.Options{})
	srv, err := ipc.NewServer(comp, ipc.ServerOptions{SocketPath: filepath.Join(dir, "m.sock"), Backend: "memory"})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewServer(ipc.NewClientWithSocket(srv.SocketPath()))
}

func TestHandlers_CreateDrawRaiseQuery(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, a, err := s.handleCreateWindow(ctx, nil, CreateWindowInput{X: 0, Y: 10, Width: 10, Height: 10, Title: "A"})
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	_, b, err := s.handleCreateWindow(ctx, nil, CreateWindowInput{X: 5, Y: 15, Width: 10, Height: 10, Title: "B"})
	if err != nil {
		t.Fatalf("create B: %v", err)
	}

	_, occ, err := s.handleQueryOcclusion(ctx, nil, QueryOcclusionInput{WindowID: a.WindowID, X: 6, Y: 16})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !occ.Known || !occ.Occluded {
		t.Fatalf("expected A occluded under B, got %+v", occ)
	}

	if _, out, err := s.handleDrawPixel(ctx, nil, DrawPixelInput{WindowID: b.WindowID, X: 1, Y: 1, Color: 4}); err != nil || !out.Applied {
		t.Fatalf("draw_pixel: %+v %v", out, err)
	}
	if _, out, err := s.handleDrawLine(ctx, nil, DrawLineInput{WindowID: b.WindowID, X1: 9, Color: 4}); err != nil || !out.Applied {
		t.Fatalf("draw_line: %+v %v", out, err)
	}
	if _, out, err := s.handleDrawText(ctx, nil, DrawTextInput{WindowID: b.WindowID, Text: "ok", FG: 15}); err != nil || !out.Applied {
		t.Fatalf("draw_text: %+v %v", out, err)
	}
	if _, out, err := s.handleDrawPixel(ctx, nil, DrawPixelInput{WindowID: 77, Color: 4}); err != nil || out.Applied {
		t.Fatalf("unknown window: %+v %v", out, err)
	}
	if _, _, err := s.handleDrawPixel(ctx, nil, DrawPixelInput{WindowID: b.WindowID, Color: 200}); err == nil {
		t.Fatal("expected out-of-palette color to fail")
	}

	if _, out, err := s.handleRaiseWindow(ctx, nil, WindowInput{WindowID: a.WindowID}); err != nil || !out.Applied {
		t.Fatalf("raise: %+v %v", out, err)
	}
	_, list, err := s.handleListWindows(ctx, nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Windows) != 2 || uint32(list.Windows[0].ID) != a.WindowID {
		t.Fatalf("expected A in front, got %+v", list.Windows)
	}

	_, status, err := s.handleGetStatus(ctx, nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Backend != "memory" || status.Stats.Windows != 2 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestHandleCreateWindow_RejectsNegativeSize(t *testing.T) {
	s := newTestServer(t)
	if _, _, err := s.handleCreateWindow(context.Background(), nil, CreateWindowInput{Width: -1, Height: 3}); err == nil {
		t.Fatal("expected negative width to fail")
	}
}

func TestSession_ListAndCallTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{"create_window", "draw_pixel", "draw_line", "draw_text", "raise_window", "list_windows", "get_status", "query_occlusion"} {
		if !slices.Contains(names, want) {
			t.Fatalf("tool %q not registered (have %v)", want, names)
		}
	}

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "create_window",
		Arguments: map[string]any{"x": 1, "y": 11, "width": 4, "height": 4},
	})
	if err != nil {
		t.Fatalf("call create_window: %v", err)
	}
	if res.IsError {
		t.Fatalf("create_window returned a tool error: %+v", res.Content)
	}
	if len(res.Content) == 0 {
		t.Fatal("create_window returned no content")
	}
}
