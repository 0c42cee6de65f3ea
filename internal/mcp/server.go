package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/ipc"
)

const (
	ServerName    = "floatwin"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Geometry() (geometry.Rect, error)
	SetGeometry(r geometry.Rect) (geometry.Rect, error)
	SnapPreview(r geometry.Rect) (*ipc.SnapPreviewData, error)
	Action(name string) (*ipc.ActionData, error)
	Dispatch(handle, trigger string) (*ipc.ActionData, error)
	SetOpacity(percent int) (int, error)
	SetMoveBar(visible, hideCorners bool) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes the running daemon to MCP clients.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *zap.Logger
}

// NewServer creates an MCP server that forwards every tool call to daemon.
func NewServer(daemon Daemon, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		daemon: daemon,
		logger: logger.Named("mcp"),
	}

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
		Name:        "get_status",
		Description: "Report the attached window, its screen, the gesture phase, snap settings, drag bar visibility and opacity.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_geometry",
		Description: "Return the window rectangle floatwin last committed.",
	}, s.handleGetGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_geometry",
		Description: "Move and resize the window. The rectangle is clamped to the configured minimum and maximum size and kept partly on screen; the applied rectangle is returned. Fails while the user is dragging or resizing.",
	}, s.handleSetGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_preview",
		Description: "Report which snap zone a window released at the given rectangle would land in, and the rectangle it would take. Nothing is moved.",
	}, s.handleSnapPreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dispatch_action",
		Description: "Run a window action directly (action) or fire a corner handle gesture through the user's bindings (handle + trigger). Unbound gestures do nothing.",
	}, s.handleDispatchAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_opacity",
		Description: "Set the window opacity in percent (10-100).",
	}, s.handleSetOpacity)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_move_bar",
		Description: "Show or hide the drag bar. Hiding it always brings the corner handles back.",
	}, s.handleSetMoveBar)
}
