package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		WindowID:     st.WindowID,
		Title:        st.Title,
		Window:       fromRect(st.Window),
		Screen:       fromRect(st.Screen),
		Phase:        st.Phase,
		Resize:       st.Resize,
		SnapEnabled:  st.SnapEnabled,
		Tolerance:    st.Tolerance,
		MoveBar:      st.MoveBar,
		Transparency: st.Transparency,
		Opacity:      st.Opacity,
	}, nil
}

func (s *Server) handleGetGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, GeometryOutput, error) {
	r, err := s.daemon.Geometry()
	if err != nil {
		return nil, GeometryOutput{}, err
	}
	return nil, GeometryOutput{Rect: fromRect(r)}, nil
}

func (s *Server) handleSetGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, args SetGeometryInput) (*mcpsdk.CallToolResult, GeometryOutput, error) {
	if args.Rect.Width <= 0 || args.Rect.Height <= 0 {
		return nil, GeometryOutput{}, fmt.Errorf("rect width and height must be positive")
	}
	applied, err := s.daemon.SetGeometry(args.Rect.rect())
	if err != nil {
		return nil, GeometryOutput{}, err
	}
	s.logger.Debug("set_geometry",
		zap.Stringer("requested", args.Rect.rect()),
		zap.Stringer("applied", applied))
	return nil, GeometryOutput{Rect: fromRect(applied)}, nil
}

func (s *Server) handleSnapPreview(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapPreviewInput) (*mcpsdk.CallToolResult, SnapPreviewOutput, error) {
	res, err := s.daemon.SnapPreview(args.Rect.rect())
	if err != nil {
		return nil, SnapPreviewOutput{}, err
	}
	return nil, SnapPreviewOutput{Zone: res.Zone, Snapped: res.Snapped, Rect: fromRect(res.Rect)}, nil
}

func (s *Server) handleDispatchAction(_ context.Context, _ *mcpsdk.CallToolRequest, args DispatchActionInput) (*mcpsdk.CallToolResult, DispatchActionOutput, error) {
	switch {
	case args.Action != "" && args.Handle != "":
		return nil, DispatchActionOutput{}, fmt.Errorf("set either action or handle, not both")
	case args.Action != "":
		data, err := s.daemon.Action(args.Action)
		if err != nil {
			return nil, DispatchActionOutput{}, err
		}
		return nil, DispatchActionOutput{Action: data.Action, Code: data.Code}, nil
	case args.Handle != "":
		trigger := args.Trigger
		if trigger == "" {
			trigger = "tap"
		}
		data, err := s.daemon.Dispatch(args.Handle, trigger)
		if err != nil {
			return nil, DispatchActionOutput{}, err
		}
		return nil, DispatchActionOutput{Action: data.Action, Code: data.Code}, nil
	default:
		return nil, DispatchActionOutput{}, fmt.Errorf("action or handle is required")
	}
}

func (s *Server) handleSetOpacity(_ context.Context, _ *mcpsdk.CallToolRequest, args SetOpacityInput) (*mcpsdk.CallToolResult, SetOpacityOutput, error) {
	applied, err := s.daemon.SetOpacity(args.Percent)
	if err != nil {
		return nil, SetOpacityOutput{}, err
	}
	return nil, SetOpacityOutput{Percent: applied}, nil
}

func (s *Server) handleSetMoveBar(_ context.Context, _ *mcpsdk.CallToolRequest, args SetMoveBarInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.daemon.SetMoveBar(args.Visible, args.HideCorners); err != nil {
		return nil, nil, err
	}
	state := "hidden"
	if args.Visible {
		state = "shown"
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Drag bar %s", state)},
		},
	}, nil, nil
}
