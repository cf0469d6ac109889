package schema

// Workbench lifecycle.

// OpenWorkbenchRequest describes a request to open a pod's workbench.
type OpenWorkbenchRequest struct {
	Slug  PodSlug
	PodID PodID
}

// OpenWorkbenchResponse reports the opened workbench state.
type OpenWorkbenchResponse struct {
	Workbench WorkbenchSnapshot
}

// CloseWorkbenchRequest describes a request to tear a workbench down.
type CloseWorkbenchRequest struct {
	Slug PodSlug
}

// CloseWorkbenchResponse reports completion of the teardown.
type CloseWorkbenchResponse struct{}

// DescribeWorkbenchRequest describes a request for current workbench state.
type DescribeWorkbenchRequest struct {
	Slug PodSlug
}

// DescribeWorkbenchResponse reports the workbench snapshot.
type DescribeWorkbenchResponse struct {
	Workbench WorkbenchSnapshot
}

// SyncPodRequest describes a request to refetch the pod configuration and
// rebuild the tab list if it changed.
type SyncPodRequest struct {
	Slug PodSlug
}

// SyncPodResponse reports whether the rebuild happened.
type SyncPodResponse struct {
	Changed   bool
	Tabs      []TabSnapshot
	ActiveTab TabID
}

// Tab lifecycle.

// ListTabsRequest describes a request to list tabs.
type ListTabsRequest struct {
	Slug PodSlug
}

// ListTabsResponse reports tabs and the add-tab picker inputs.
type ListTabsResponse struct {
	Tabs                []TabSnapshot
	ActiveTab           TabID
	AvailableServices   []ServiceKey
	ExistingServiceTabs []ServiceKey
}

// CreateTabRequest describes a request to create a tab.
type CreateTabRequest struct {
	Slug    PodSlug
	Name    string
	Service ServiceKey
	URL     string
}

// CreateTabResponse reports the created tab.
type CreateTabResponse struct {
	Tab TabSnapshot
}

// CloseTabRequest describes a request to close a tab.
type CloseTabRequest struct {
	Slug  PodSlug
	TabID TabID
}

// CloseTabResponse reports the closed tab and the new active tab.
type CloseTabResponse struct {
	Tab       TabSnapshot
	ActiveTab TabID
}

// ActivateTabRequest describes a request to activate a tab.
type ActivateTabRequest struct {
	Slug  PodSlug
	TabID TabID
}

// ActivateTabResponse reports the activated tab.
type ActivateTabResponse struct {
	Tab TabSnapshot
}

// ReorderTabsRequest describes a drag-reorder of the full tab list. Order
// must be a permutation of the current tab ids; shortcuts are not
// reassigned.
type ReorderTabsRequest struct {
	Slug  PodSlug
	Order []TabID
}

// ReorderTabsResponse reports the reordered tabs.
type ReorderTabsResponse struct {
	Tabs []TabSnapshot
}

// RenameTabRequest describes a request to rename a custom tab. The tab id
// is a content hash, so the response carries the successor id.
type RenameTabRequest struct {
	Slug  PodSlug
	TabID TabID
	Name  string
}

// RenameTabResponse reports the renamed tab.
type RenameTabResponse struct {
	Tab TabSnapshot
}

// Navigation.

// NavigateRequest describes an address-bar submission for a process tab.
type NavigateRequest struct {
	Slug    PodSlug
	TabID   TabID
	Address string
}

// NavigateResponse reports the resulting navigation state.
type NavigateResponse struct {
	Navigation NavigationSnapshot
}

// NavigateBackRequest describes a back-button press.
type NavigateBackRequest struct {
	Slug  PodSlug
	TabID TabID
}

// NavigateBackResponse reports the resulting navigation state.
type NavigateBackResponse struct {
	Navigation NavigationSnapshot
}

// NavigateForwardRequest describes a forward-button press.
type NavigateForwardRequest struct {
	Slug  PodSlug
	TabID TabID
}

// NavigateForwardResponse reports the resulting navigation state.
type NavigateForwardResponse struct {
	Navigation NavigationSnapshot
}

// RefreshFrameRequest describes a frame reload request.
type RefreshFrameRequest struct {
	Slug  PodSlug
	TabID TabID
}

// RefreshFrameResponse reports the frame state after the src clear.
type RefreshFrameResponse struct {
	Frame FrameSnapshot
}

// GetAddressHistoryRequest describes a request for a tab's address history.
type GetAddressHistoryRequest struct {
	Slug  PodSlug
	TabID TabID
}

// GetAddressHistoryResponse reports the recorded addresses.
type GetAddressHistoryResponse struct {
	Entries []string
}

// Keyboard and focus.

// PressShortcutRequest describes a modifier+digit chord from either entry
// path (host document or forwarded by a frame).
type PressShortcutRequest struct {
	Slug  PodSlug
	Digit string
}

// PressShortcutResponse reports whether a tab matched the digit.
type PressShortcutResponse struct {
	Handled bool
	Tab     TabSnapshot
}

// WindowFocusRequest signals that the workbench window regained focus.
type WindowFocusRequest struct {
	Slug PodSlug
}

// WindowFocusResponse reports completion of the focus handling.
type WindowFocusResponse struct{}

// OpenSourceControlRequest asks the active editor frame for its source
// control view.
type OpenSourceControlRequest struct {
	Slug  PodSlug
	TabID TabID
}

// OpenSourceControlResponse reports completion of the command post.
type OpenSourceControlResponse struct{}

// Frame bridge.

// FrameInboundRequest carries a validated frame-to-host message.
type FrameInboundRequest struct {
	Slug    PodSlug
	FrameID FrameID
	Message FrameMessage
}

// FrameInboundResponse reports completion of the message handling.
type FrameInboundResponse struct{}
