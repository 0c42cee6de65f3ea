package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/overlay"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetGeometry CommandType = "GET_GEOMETRY"
	CommandSetGeometry CommandType = "SET_GEOMETRY"
	CommandAction      CommandType = "ACTION"
	CommandDispatch    CommandType = "DISPATCH"
	CommandMoveBar     CommandType = "MOVE_BAR"
	CommandOpacity     CommandType = "OPACITY"
	CommandSnapPreview CommandType = "SNAP_PREVIEW"
	CommandRestore     CommandType = "RESTORE"
	CommandCancel      CommandType = "CANCEL"
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

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	overlay.Status
	WindowID      string `json:"window_id"`
	Title         string `json:"title,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// GeometryData is returned by GET_GEOMETRY and SET_GEOMETRY.
type GeometryData struct {
	Rect geometry.Rect `json:"rect"`
}

// SetGeometryPayload is the payload of SET_GEOMETRY.
type SetGeometryPayload struct {
	Rect geometry.Rect `json:"rect"`
}

// ActionPayload runs a named action (or its numeric code) directly.
type ActionPayload struct {
	Action string `json:"action"`
}

// DispatchPayload simulates a handle trigger.
type DispatchPayload struct {
	Handle  string `json:"handle"`
	Trigger string `json:"trigger"`
}

// ActionData reports which action ran.
type ActionData struct {
	Action string `json:"action"`
	Code   int    `json:"code"`
}

// MoveBarPayload is the payload of MOVE_BAR.
type MoveBarPayload struct {
	Visible     bool `json:"visible"`
	HideCorners bool `json:"hide_corners,omitempty"`
}

// OpacityPayload is the payload of OPACITY. A nil Percent only reads.
type OpacityPayload struct {
	Percent *int `json:"percent,omitempty"`
}

// OpacityData is the opacity after an OPACITY request.
type OpacityData struct {
	Percent int `json:"percent"`
}

// SnapPreviewPayload asks where a window released at Rect would land.
type SnapPreviewPayload struct {
	Rect geometry.Rect `json:"rect"`
}

// SnapPreviewData is the answer to SNAP_PREVIEW.
type SnapPreviewData struct {
	Zone    string        `json:"zone"`
	Snapped bool          `json:"snapped"`
	Rect    geometry.Rect `json:"rect"`
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
