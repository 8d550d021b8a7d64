package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/quadwm/internal/actionlog"
	"github.com/1broseidon/quadwm/internal/colors"
	"github.com/1broseidon/quadwm/internal/compositor"
	"github.com/1broseidon/quadwm/internal/runtimepath"
	"github.com/1broseidon/quadwm/internal/window"
)

// ServerOptions wires the server to the rest of the daemon.
type ServerOptions struct {
	// SocketPath overrides the runtime dir socket.
	SocketPath string
	// Backend is reported by GET_STATUS.
	Backend string
	// Journal records every command; nil disables journaling.
	Journal *actionlog.Logger
	// Reload is invoked by RELOAD; nil rejects the command.
	Reload func() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	comp         *compositor.Compositor
	backend      string
	journal      *actionlog.Logger
	journalMu    sync.RWMutex
	reload       func() error
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(comp *compositor.Compositor, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		comp:       comp,
		backend:    opts.Backend,
		journal:    opts.Journal,
		reload:     opts.Reload,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// SetJournal swaps the command journal after a reload.
func (s *Server) SetJournal(j *actionlog.Logger) {
	s.journalMu.Lock()
	defer s.journalMu.Unlock()
	s.journal = j
}

func (s *Server) logAction(action actionlog.ActionType, win int64, details map[string]any) {
	s.journalMu.RLock()
	defer s.journalMu.RUnlock()
	s.journal.Log(action, win, details)
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one request line and closes the connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandCreateWindow:
		return s.handleCreateWindow(req.Payload)
	case CommandDrawPixel:
		return s.handleDrawPixel(req.Payload)
	case CommandDrawLine:
		return s.handleDrawLine(req.Payload)
	case CommandDrawText:
		return s.handleDrawText(req.Payload)
	case CommandRaiseWindow:
		return s.handleRaiseWindow(req.Payload)
	case CommandListWindows:
		return okResponse(WindowsData{Windows: s.comp.Windows()})
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandSnapshot:
		return s.handleSnapshot()
	case CommandQueryOcclusion:
		return s.handleQueryOcclusion(req.Payload)
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleCreateWindow(payload json.RawMessage) *Response {
	var p CreateWindowPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	res, err := s.comp.Apply(compositor.CreateWindow{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height, Title: p.Title})
	if err != nil {
		s.logAction(actionlog.ActionReject, -1, map[string]any{"command": string(CommandCreateWindow), "error": err.Error()})
		if errors.Is(err, window.ErrResourceExhausted) {
			return NewErrorResponse(fmt.Sprintf("resource exhausted: %v", err))
		}
		return NewErrorResponse(err.Error())
	}
	s.logAction(actionlog.ActionCreate, int64(res.Window), map[string]any{
		"x": p.X, "y": p.Y, "width": p.Width, "height": p.Height, "title": p.Title,
	})
	return okResponse(CreateWindowData{WindowID: uint32(res.Window)})
}

func (s *Server) handleDrawPixel(payload json.RawMessage) *Response {
	var p DrawPixelPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	c, err := s.color(CommandDrawPixel, p.WindowID, p.Color)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	s.logAction(actionlog.ActionDrawPixel, int64(p.WindowID), map[string]any{"x": p.X, "y": p.Y, "color": p.Color})
	return s.apply(compositor.DrawPixel{Window: window.ID(p.WindowID), X: p.X, Y: p.Y, Color: c})
}

func (s *Server) handleDrawLine(payload json.RawMessage) *Response {
	var p DrawLinePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	c, err := s.color(CommandDrawLine, p.WindowID, p.Color)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	s.logAction(actionlog.ActionDrawLine, int64(p.WindowID), map[string]any{
		"x0": p.X0, "y0": p.Y0, "x1": p.X1, "y1": p.Y1, "color": p.Color,
	})
	return s.apply(compositor.DrawLine{Window: window.ID(p.WindowID), X0: p.X0, Y0: p.Y0, X1: p.X1, Y1: p.Y1, Color: c})
}

func (s *Server) handleDrawText(payload json.RawMessage) *Response {
	var p DrawTextPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	bg, err := s.color(CommandDrawText, p.WindowID, p.BG)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	fg, err := s.color(CommandDrawText, p.WindowID, p.FG)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	s.logAction(actionlog.ActionDrawText, int64(p.WindowID), map[string]any{
		"x": p.X, "y": p.Y, "bg": p.BG, "fg": p.FG, "text": actionlog.Truncate(p.Text, 32),
	})
	return s.apply(compositor.DrawText{Window: window.ID(p.WindowID), X: p.X, Y: p.Y, BG: bg, FG: fg, Text: p.Text})
}

func (s *Server) handleRaiseWindow(payload json.RawMessage) *Response {
	var p RaiseWindowPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	s.logAction(actionlog.ActionRaise, int64(p.WindowID), nil)
	return s.apply(compositor.RaiseWindow{Window: window.ID(p.WindowID)})
}

// color validates a palette index, journaling rejects.
func (s *Server) color(cmd CommandType, win uint32, v int) (colors.Index, error) {
	c, err := colors.Validate(v)
	if err != nil {
		s.logAction(actionlog.ActionReject, int64(win), map[string]any{"command": string(cmd), "color": v})
		return 0, err
	}
	return c, nil
}

func (s *Server) apply(cmd compositor.Command) *Response {
	res, err := s.comp.Apply(cmd)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(AppliedData{Applied: res.Applied})
}

func (s *Server) handleGetStatus() *Response {
	snap := s.comp.Snapshot()
	return okResponse(StatusData{
		Backend:       s.backend,
		Width:         snap.Width,
		Height:        snap.Height,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		Stats:         s.comp.Stats(),
	})
}

func (s *Server) handleSnapshot() *Response {
	snap := s.comp.Snapshot()
	palette := make([]string, colors.Usable)
	for i := range palette {
		palette[i] = colors.Hex(colors.Index(i))
	}
	return okResponse(SnapshotData{Width: snap.Width, Height: snap.Height, Pixels: snap.Pixels, Palette: palette})
}

func (s *Server) handleQueryOcclusion(payload json.RawMessage) *Response {
	var p QueryOcclusionPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	occ, known := s.comp.Occluded(window.ID(p.WindowID), p.X, p.Y)
	return okResponse(OcclusionData{Known: known, Occluded: occ})
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")
	if s.reload == nil {
		return NewErrorResponse("reload is not supported by this server")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	s.logAction(actionlog.ActionReload, -1, nil)
	log.Println("IPC: Config reloaded successfully")
	return okResponse(nil)
}

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
