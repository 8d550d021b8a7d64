package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/quadwm/internal/ipc"
)

func (s *Server) handleCreateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateWindowInput) (*mcpsdk.CallToolResult, CreateWindowOutput, error) {
	if args.Width < 0 || args.Height < 0 {
		return nil, CreateWindowOutput{}, fmt.Errorf("width and height must be >= 0")
	}
	id, err := s.display.CreateWindow(ipc.CreateWindowPayload{
		X:      args.X,
		Y:      args.Y,
		Width:  args.Width,
		Height: args.Height,
		Title:  args.Title,
	})
	if err != nil {
		return nil, CreateWindowOutput{}, fmt.Errorf("create_window: %w", err)
	}
	return nil, CreateWindowOutput{WindowID: id}, nil
}

func (s *Server) handleDrawPixel(_ context.Context, _ *mcpsdk.CallToolRequest, args DrawPixelInput) (*mcpsdk.CallToolResult, AppliedOutput, error) {
	applied, err := s.display.DrawPixel(ipc.DrawPixelPayload{WindowID: args.WindowID, X: args.X, Y: args.Y, Color: args.Color})
	if err != nil {
		return nil, AppliedOutput{}, fmt.Errorf("draw_pixel: %w", err)
	}
	return nil, AppliedOutput{Applied: applied}, nil
}

func (s *Server) handleDrawLine(_ context.Context, _ *mcpsdk.CallToolRequest, args DrawLineInput) (*mcpsdk.CallToolResult, AppliedOutput, error) {
	applied, err := s.display.DrawLine(ipc.DrawLinePayload{
		WindowID: args.WindowID,
		X0:       args.X0,
		Y0:       args.Y0,
		X1:       args.X1,
		Y1:       args.Y1,
		Color:    args.Color,
	})
	if err != nil {
		return nil, AppliedOutput{}, fmt.Errorf("draw_line: %w", err)
	}
	return nil, AppliedOutput{Applied: applied}, nil
}

func (s *Server) handleDrawText(_ context.Context, _ *mcpsdk.CallToolRequest, args DrawTextInput) (*mcpsdk.CallToolResult, AppliedOutput, error) {
	applied, err := s.display.DrawText(ipc.DrawTextPayload{
		WindowID: args.WindowID,
		X:        args.X,
		Y:        args.Y,
		BG:       args.BG,
		FG:       args.FG,
		Text:     args.Text,
	})
	if err != nil {
		return nil, AppliedOutput{}, fmt.Errorf("draw_text: %w", err)
	}
	return nil, AppliedOutput{Applied: applied}, nil
}

func (s *Server) handleRaiseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, AppliedOutput, error) {
	applied, err := s.display.RaiseWindow(args.WindowID)
	if err != nil {
		return nil, AppliedOutput{}, fmt.Errorf("raise_window: %w", err)
	}
	return nil, AppliedOutput{Applied: applied}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.display.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}
	return nil, ListWindowsOutput{Windows: data.Windows}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.display.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, fmt.Errorf("get_status: %w", err)
	}
	return nil, GetStatusOutput{
		Backend:       status.Backend,
		Width:         status.Width,
		Height:        status.Height,
		UptimeSeconds: status.UptimeSeconds,
		Stats:         status.Stats,
	}, nil
}

func (s *Server) handleQueryOcclusion(_ context.Context, _ *mcpsdk.CallToolRequest, args QueryOcclusionInput) (*mcpsdk.CallToolResult, QueryOcclusionOutput, error) {
	occ, err := s.display.QueryOcclusion(ipc.QueryOcclusionPayload{WindowID: args.WindowID, X: args.X, Y: args.Y})
	if err != nil {
		return nil, QueryOcclusionOutput{}, fmt.Errorf("query_occlusion: %w", err)
	}
	return nil, QueryOcclusionOutput{Known: occ.Known, Occluded: occ.Occluded}, nil
}
