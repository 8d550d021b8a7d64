package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/quadwm/internal/compositor"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandCreateWindow   CommandType = "CREATE_WINDOW"
	CommandDrawPixel      CommandType = "DRAW_PIXEL"
	CommandDrawLine       CommandType = "DRAW_LINE"
	CommandDrawText       CommandType = "DRAW_TEXT"
	CommandRaiseWindow    CommandType = "RAISE_WINDOW"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandSnapshot       CommandType = "SNAPSHOT"
	CommandQueryOcclusion CommandType = "QUERY_OCCLUSION"
	CommandReload         CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type CreateWindowPayload struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title,omitempty"`
}

type CreateWindowData struct {
	WindowID uint32 `json:"window_id"`
}

type DrawPixelPayload struct {
	WindowID uint32 `json:"window_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Color    int    `json:"color"`
}

type DrawLinePayload struct {
	WindowID uint32 `json:"window_id"`
	X0       int    `json:"x0"`
	Y0       int    `json:"y0"`
	X1       int    `json:"x1"`
	Y1       int    `json:"y1"`
	Color    int    `json:"color"`
}

type DrawTextPayload struct {
	WindowID uint32 `json:"window_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	BG       int    `json:"bg"`
	FG       int    `json:"fg"`
	Text     string `json:"text"`
}

type RaiseWindowPayload struct {
	WindowID uint32 `json:"window_id"`
}

// AppliedData reports whether a draw or raise touched a window. It is false
// for unknown window ids.
type AppliedData struct {
	Applied bool `json:"applied"`
}

type WindowsData struct {
	Windows []compositor.WindowInfo `json:"windows"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Backend       string           `json:"backend"`
	Width         int              `json:"width"`
	Height        int              `json:"height"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	DaemonRunning bool             `json:"daemon_running"`
	Stats         compositor.Stats `json:"stats"`
}

// SnapshotData carries one palette index per pixel, row-major, plus the
// palette as hex colors.
type SnapshotData struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Pixels  []byte   `json:"pixels"`
	Palette []string `json:"palette"`
}

type QueryOcclusionPayload struct {
	WindowID uint32 `json:"window_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type OcclusionData struct {
	Known    bool `json:"known"`
	Occluded bool `json:"occluded"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
