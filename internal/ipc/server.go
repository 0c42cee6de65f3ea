package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/overlay"
	"github.com/1broseidon/floatwin/internal/runtimepath"
	"go.uber.org/zap"
)

// ServerOptions configures NewServer.
type ServerOptions struct {
	// SocketPath overrides the runtime socket location.
	SocketPath string
	Overlay    *overlay.Overlay
	WindowID   string
	Title      string
	// Reload reloads configuration from disk and applies it. The daemon
	// owns it because hotkeys and the watcher also need the new config.
	Reload func() error
	Logger *zap.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	overlay      *overlay.Overlay
	windowID     string
	title        string
	reload       func() error
	logger       *zap.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Overlay == nil {
		return nil, errors.New("ipc: overlay is required")
	}
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		overlay:    opts.Overlay,
		windowID:   opts.WindowID,
		title:      opts.Title,
		reload:     opts.Reload,
		logger:     logger.Named("ipc"),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
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

	s.logger.Info("listening", zap.String("socket", s.socketPath))

	go s.acceptLoop()

	return nil
}

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
			s.logger.Warn("accept failed", zap.Error(err))
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one JSON line request on conn.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("read failed", zap.Error(err))
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
		s.logger.Warn("marshal response", zap.Error(err))
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("request", zap.String("command", string(req.Command)))

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetGeometry:
		return ok(GeometryData{Rect: s.overlay.Geometry()})
	case CommandSetGeometry:
		return s.handleSetGeometry(req.Payload)
	case CommandAction:
		return s.handleAction(req.Payload)
	case CommandDispatch:
		return s.handleDispatch(req.Payload)
	case CommandMoveBar:
		return s.handleMoveBar(req.Payload)
	case CommandOpacity:
		return s.handleOpacity(req.Payload)
	case CommandSnapPreview:
		return s.handleSnapPreview(req.Payload)
	case CommandRestore:
		if err := s.overlay.Restore(); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(GeometryData{Rect: s.overlay.Geometry()})
	case CommandCancel:
		if err := s.overlay.Cancel(); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(GeometryData{Rect: s.overlay.Geometry()})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	if s.reload == nil {
		return NewErrorResponse("reload is not supported by this daemon")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	s.logger.Info("config reloaded over IPC")
	return ok(nil)
}

func (s *Server) handleGetStatus() *Response {
	return ok(StatusData{
		Status:        s.overlay.Status(),
		WindowID:      s.windowID,
		Title:         s.title,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	})
}

func (s *Server) handleSetGeometry(payload json.RawMessage) *Response {
	var req SetGeometryPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid geometry payload: %v", err))
	}
	if req.Rect.Width <= 0 || req.Rect.Height <= 0 {
		return NewErrorResponse("rect width and height must be positive")
	}
	applied, err := s.overlay.SetGeometry(req.Rect)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set geometry: %v", err))
	}
	return ok(GeometryData{Rect: applied})
}

func (s *Server) handleAction(payload json.RawMessage) *Response {
	var req ActionPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid action payload: %v", err))
	}
	a, known := actions.ParseAction(req.Action)
	if !known {
		return NewErrorResponse(fmt.Sprintf("Unknown action: %q", req.Action))
	}
	if err := s.overlay.Perform(a); err != nil {
		return NewErrorResponse(fmt.Sprintf("Action %s failed: %v", a, err))
	}
	return ok(ActionData{Action: a.String(), Code: a.Code()})
}

func (s *Server) handleDispatch(payload json.RawMessage) *Response {
	var req DispatchPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid dispatch payload: %v", err))
	}
	h, err := actions.ParseHandle(req.Handle)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	t, err := actions.ParseTrigger(req.Trigger)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	a, err := s.overlay.Dispatch(h, t)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Dispatch failed: %v", err))
	}
	return ok(ActionData{Action: a.String(), Code: a.Code()})
}

func (s *Server) handleMoveBar(payload json.RawMessage) *Response {
	var req MoveBarPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move bar payload: %v", err))
	}
	if err := s.overlay.SetMoveBar(req.Visible, req.HideCorners); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleOpacity(payload json.RawMessage) *Response {
	var req OpacityPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid opacity payload: %v", err))
	}
	if req.Percent == nil {
		return ok(OpacityData{Percent: s.overlay.Status().Opacity})
	}
	applied, err := s.overlay.SetOpacity(*req.Percent)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(OpacityData{Percent: applied})
}

func (s *Server) handleSnapPreview(payload json.RawMessage) *Response {
	var req SnapPreviewPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid snap payload: %v", err))
	}
	res, err := s.overlay.SnapPreview(req.Rect)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(SnapPreviewData{Zone: res.Zone.String(), Snapped: res.Snapped, Rect: res.Rect})
}

// sendError sends an error response
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

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// decode unmarshals an optional payload; an empty payload leaves v zero.
func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, v)
}
