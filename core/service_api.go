package core

import (
	"context"

	"pkt.systems/pinacle/schema"
)

// Service is the transport-agnostic API for managing workbenches, tabs,
// frames and navigation.
type Service interface {
	OpenWorkbench(ctx context.Context, req schema.OpenWorkbenchRequest) (schema.OpenWorkbenchResponse, error)
	CloseWorkbench(ctx context.Context, req schema.CloseWorkbenchRequest) (schema.CloseWorkbenchResponse, error)
	DescribeWorkbench(ctx context.Context, req schema.DescribeWorkbenchRequest) (schema.DescribeWorkbenchResponse, error)
	SyncPod(ctx context.Context, req schema.SyncPodRequest) (schema.SyncPodResponse, error)
	ListTabs(ctx context.Context, req schema.ListTabsRequest) (schema.ListTabsResponse, error)
	CreateTab(ctx context.Context, req schema.CreateTabRequest) (schema.CreateTabResponse, error)
	CloseTab(ctx context.Context, req schema.CloseTabRequest) (schema.CloseTabResponse, error)
	ActivateTab(ctx context.Context, req schema.ActivateTabRequest) (schema.ActivateTabResponse, error)
	ReorderTabs(ctx context.Context, req schema.ReorderTabsRequest) (schema.ReorderTabsResponse, error)
	RenameTab(ctx context.Context, req schema.RenameTabRequest) (schema.RenameTabResponse, error)
	Navigate(ctx context.Context, req schema.NavigateRequest) (schema.NavigateResponse, error)
	NavigateBack(ctx context.Context, req schema.NavigateBackRequest) (schema.NavigateBackResponse, error)
	NavigateForward(ctx context.Context, req schema.NavigateForwardRequest) (schema.NavigateForwardResponse, error)
	RefreshFrame(ctx context.Context, req schema.RefreshFrameRequest) (schema.RefreshFrameResponse, error)
	GetAddressHistory(ctx context.Context, req schema.GetAddressHistoryRequest) (schema.GetAddressHistoryResponse, error)
	PressShortcut(ctx context.Context, req schema.PressShortcutRequest) (schema.PressShortcutResponse, error)
	WindowFocus(ctx context.Context, req schema.WindowFocusRequest) (schema.WindowFocusResponse, error)
	OpenSourceControl(ctx context.Context, req schema.OpenSourceControlRequest) (schema.OpenSourceControlResponse, error)
	FrameInbound(ctx context.Context, req schema.FrameInboundRequest) (schema.FrameInboundResponse, error)
}

// FrameRegistry is the bridge-facing surface: socket attachment is
// authenticated against the frame token and reflected in frame state.
type FrameRegistry interface {
	VerifyFrameToken(slug schema.PodSlug, frameID schema.FrameID, token string) error
	FrameConnected(ctx context.Context, slug schema.PodSlug, frameID schema.FrameID)
	FrameDisconnected(ctx context.Context, slug schema.PodSlug, frameID schema.FrameID)
}

// WorkbenchDirectory enumerates open workbenches for the config sync loop.
type WorkbenchDirectory interface {
	OpenSlugs() []schema.PodSlug
}
