package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/quadwm/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call marshals payload (if any), sends cmd and decodes the data into out
// (if non-nil).
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// CreateWindow opens a window and returns its id.
func (c *Client) CreateWindow(p CreateWindowPayload) (uint32, error) {
	var data CreateWindowData
	if err := c.call(CommandCreateWindow, p, &data); err != nil {
		return 0, err
	}
	return data.WindowID, nil
}

// DrawPixel sets one canvas pixel. applied is false for unknown windows.
func (c *Client) DrawPixel(p DrawPixelPayload) (bool, error) {
	var data AppliedData
	err := c.call(CommandDrawPixel, p, &data)
	return data.Applied, err
}

// DrawLine draws a segment into a canvas.
func (c *Client) DrawLine(p DrawLinePayload) (bool, error) {
	var data AppliedData
	err := c.call(CommandDrawLine, p, &data)
	return data.Applied, err
}

// DrawText renders text into a canvas.
func (c *Client) DrawText(p DrawTextPayload) (bool, error) {
	var data AppliedData
	err := c.call(CommandDrawText, p, &data)
	return data.Applied, err
}

// RaiseWindow brings a window to the front.
func (c *Client) RaiseWindow(windowID uint32) (bool, error) {
	var data AppliedData
	err := c.call(CommandRaiseWindow, RaiseWindowPayload{WindowID: windowID}, &data)
	return data.Applied, err
}

// ListWindows returns every window front to back.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Snapshot fetches the current display contents.
func (c *Client) Snapshot() (*SnapshotData, error) {
	var data SnapshotData
	if err := c.call(CommandSnapshot, nil, &data); err != nil {
		return nil, err
	}
	if len(data.Pixels) != data.Width*data.Height {
		return nil, fmt.Errorf("snapshot has %d pixels, want %dx%d", len(data.Pixels), data.Width, data.Height)
	}
	return &data, nil
}

// QueryOcclusion asks whether a screen pixel of a window is covered.
func (c *Client) QueryOcclusion(p QueryOcclusionPayload) (*OcclusionData, error) {
	var data OcclusionData
	if err := c.call(CommandQueryOcclusion, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
