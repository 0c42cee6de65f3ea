package mcp

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/overlay"
)

type fakeDaemon struct {
	rect       geometry.Rect
	actions    []string
	dispatches [][2]string
	opacity    int
	moveBar    bool
	err        error
}

func (d *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &ipc.StatusData{
		Status:   overlay.Status{Window: d.rect, Phase: "idle", MoveBar: d.moveBar, Opacity: d.opacity},
		WindowID: "0x1",
	}, nil
}

func (d *fakeDaemon) Geometry() (geometry.Rect, error) { return d.rect, d.err }

func (d *fakeDaemon) SetGeometry(r geometry.Rect) (geometry.Rect, error) {
	if d.err != nil {
		return geometry.Rect{}, d.err
	}
	d.rect = r
	return r, nil
}

func (d *fakeDaemon) SnapPreview(r geometry.Rect) (*ipc.SnapPreviewData, error) {
	return &ipc.SnapPreviewData{Zone: "left", Snapped: true, Rect: geometry.Rect{Width: 500, Height: 2000}}, d.err
}

func (d *fakeDaemon) Action(name string) (*ipc.ActionData, error) {
	d.actions = append(d.actions, name)
	return &ipc.ActionData{Action: name, Code: 6}, d.err
}

func (d *fakeDaemon) Dispatch(handle, trigger string) (*ipc.ActionData, error) {
	d.dispatches = append(d.dispatches, [2]string{handle, trigger})
	return &ipc.ActionData{Action: "move-bar", Code: 1}, d.err
}

func (d *fakeDaemon) SetOpacity(percent int) (int, error) {
	d.opacity = percent
	return percent, d.err
}

func (d *fakeDaemon) SetMoveBar(visible, hideCorners bool) error {
	d.moveBar = visible
	return d.err
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(&fakeDaemon{}, nil)
	require.NotNil(t, s.mcpServer)
}

func TestHandleGeometryTools(t *testing.T) {
	d := &fakeDaemon{rect: geometry.Rect{X: 1, Y: 2, Width: 300, Height: 200}}
	s := NewServer(d, nil)
	ctx := context.Background()

	_, out, err := s.handleGetGeometry(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.Equal(t, RectArgs{X: 1, Y: 2, Width: 300, Height: 200}, out.Rect)

	_, out, err = s.handleSetGeometry(ctx, nil, SetGeometryInput{Rect: RectArgs{X: 10, Y: 20, Width: 400, Height: 300}})
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 400, Height: 300}, d.rect)
	assert.Equal(t, 400, out.Rect.Width)

	_, _, err = s.handleSetGeometry(ctx, nil, SetGeometryInput{Rect: RectArgs{Width: 0, Height: 10}})
	assert.Error(t, err)

	_, snapOut, err := s.handleSnapPreview(ctx, nil, SnapPreviewInput{Rect: RectArgs{X: -5, Width: 200, Height: 200}})
	require.NoError(t, err)
	assert.Equal(t, "left", snapOut.Zone)
	assert.True(t, snapOut.Snapped)
}

func TestHandleDispatchAction(t *testing.T) {
	tests := []struct {
		name           string
		in             DispatchActionInput
		wantErr        bool
		wantActions    []string
		wantDispatches [][2]string
	}{
		{name: "direct action", in: DispatchActionInput{Action: "maximize"}, wantActions: []string{"maximize"}},
		{name: "handle defaults to tap", in: DispatchActionInput{Handle: "triangle"}, wantDispatches: [][2]string{{"triangle", "tap"}}},
		{name: "handle long-press", in: DispatchActionInput{Handle: "quadrant", Trigger: "long-press"}, wantDispatches: [][2]string{{"quadrant", "long-press"}}},
		{name: "both set", in: DispatchActionInput{Action: "close", Handle: "triangle"}, wantErr: true},
		{name: "neither set", in: DispatchActionInput{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDaemon{}
			s := NewServer(d, nil)
			_, _, err := s.handleDispatchAction(context.Background(), nil, tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, d.actions)
				assert.Empty(t, d.dispatches)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantActions, d.actions)
			assert.Equal(t, tt.wantDispatches, d.dispatches)
		})
	}
}

func TestHandleOpacityAndMoveBar(t *testing.T) {
	d := &fakeDaemon{opacity: 100}
	s := NewServer(d, nil)
	ctx := context.Background()

	_, out, err := s.handleSetOpacity(ctx, nil, SetOpacityInput{Percent: 40})
	require.NoError(t, err)
	assert.Equal(t, 40, out.Percent)

	res, _, err := s.handleSetMoveBar(ctx, nil, SetMoveBarInput{Visible: true})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "Drag bar shown", res.Content[0].(*mcpsdk.TextContent).Text)
	assert.True(t, d.moveBar)

	_, status, err := s.handleGetStatus(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.True(t, status.MoveBar)
	assert.Equal(t, 40, status.Opacity)
	assert.Equal(t, "0x1", status.WindowID)
}

func TestHandlersPropagateDaemonErrors(t *testing.T) {
	d := &fakeDaemon{err: errors.New("failed to connect to daemon")}
	s := NewServer(d, nil)
	ctx := context.Background()

	_, _, err := s.handleGetStatus(ctx, nil, EmptyInput{})
	assert.Error(t, err)
	_, _, err = s.handleSetGeometry(ctx, nil, SetGeometryInput{Rect: RectArgs{Width: 10, Height: 10}})
	assert.Error(t, err)
	_, _, err = s.handleSetMoveBar(ctx, nil, SetMoveBarInput{})
	assert.Error(t, err)
}
