package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
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

// call sends cmd with payload and decodes the response data into out when
// out is non-nil.
func (c *Client) call(cmd CommandType, payload interface{}, out interface{}) error {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = raw
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

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Geometry returns the window rect the daemon last committed.
func (c *Client) Geometry() (geometry.Rect, error) {
	var data GeometryData
	err := c.call(CommandGetGeometry, nil, &data)
	return data.Rect, err
}

// SetGeometry moves and resizes the window. The daemon clamps r and returns
// the rect it applied.
func (c *Client) SetGeometry(r geometry.Rect) (geometry.Rect, error) {
	var data GeometryData
	err := c.call(CommandSetGeometry, SetGeometryPayload{Rect: r}, &data)
	return data.Rect, err
}

// Action runs an action by name or numeric code.
func (c *Client) Action(name string) (*ActionData, error) {
	var data ActionData
	if err := c.call(CommandAction, ActionPayload{Action: name}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Dispatch fires handle/trigger through the daemon's binding table.
func (c *Client) Dispatch(handle, trigger string) (*ActionData, error) {
	var data ActionData
	if err := c.call(CommandDispatch, DispatchPayload{Handle: handle, Trigger: trigger}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetMoveBar shows or hides the drag bar.
func (c *Client) SetMoveBar(visible, hideCorners bool) error {
	return c.call(CommandMoveBar, MoveBarPayload{Visible: visible, HideCorners: hideCorners}, nil)
}

// Opacity reads the window opacity in percent.
func (c *Client) Opacity() (int, error) {
	var data OpacityData
	err := c.call(CommandOpacity, OpacityPayload{}, &data)
	return data.Percent, err
}

// SetOpacity sets the window opacity and returns the clamped value.
func (c *Client) SetOpacity(percent int) (int, error) {
	var data OpacityData
	err := c.call(CommandOpacity, OpacityPayload{Percent: &percent}, &data)
	return data.Percent, err
}

// SnapPreview asks where a window released at r would land.
func (c *Client) SnapPreview(r geometry.Rect) (*SnapPreviewData, error) {
	var data SnapPreviewData
	if err := c.call(CommandSnapPreview, SnapPreviewPayload{Rect: r}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Restore undoes a maximize.
func (c *Client) Restore() (geometry.Rect, error) {
	var data GeometryData
	err := c.call(CommandRestore, nil, &data)
	return data.Rect, err
}

// Cancel aborts a gesture in progress.
func (c *Client) Cancel() error {
	return c.call(CommandCancel, nil, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
