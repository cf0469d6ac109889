package schema

import "time"

// TabEventType describes tab lifecycle or state changes.
type TabEventType string

const (
	// TabEventCreated indicates a tab was created.
	TabEventCreated TabEventType = "created"
	// TabEventClosed indicates a tab was closed.
	TabEventClosed TabEventType = "closed"
	// TabEventActivated indicates a tab became active.
	TabEventActivated TabEventType = "activated"
	// TabEventUpdated indicates a tab was renamed or otherwise changed.
	TabEventUpdated TabEventType = "updated"
	// TabEventReordered indicates the tab order changed.
	TabEventReordered TabEventType = "reordered"
	// TabEventRebuilt indicates the tab list was rebuilt from pod config.
	TabEventRebuilt TabEventType = "rebuilt"
)

// TabEvent represents a change to a tab or the tab list.
type TabEvent struct {
	Slug      PodSlug
	Type      TabEventType
	Tab       TabSnapshot
	Tabs      []TabSnapshot
	ActiveTab TabID
}

// FrameEventType describes frame lifecycle changes.
type FrameEventType string

const (
	// FrameEventMounted indicates a frame was mounted.
	FrameEventMounted FrameEventType = "mounted"
	// FrameEventUnmounted indicates a frame was unmounted.
	FrameEventUnmounted FrameEventType = "unmounted"
	// FrameEventVisibility indicates a visibility flip without remount.
	FrameEventVisibility FrameEventType = "visibility"
	// FrameEventSrc indicates the frame src changed (refresh cycles clear
	// and restore it).
	FrameEventSrc FrameEventType = "src"
	// FrameEventFocus asks the client to move DOM focus to the frame.
	FrameEventFocus FrameEventType = "focus"
	// FrameEventConnected indicates the frame's bridge socket attached.
	FrameEventConnected FrameEventType = "connected"
	// FrameEventDisconnected indicates the frame's bridge socket detached.
	FrameEventDisconnected FrameEventType = "disconnected"
)

// FrameEvent represents a change to a tab's content frame.
type FrameEvent struct {
	Slug  PodSlug
	Type  FrameEventType
	Frame FrameSnapshot
}

// NavigationEvent represents an address bar state change for a process tab.
type NavigationEvent struct {
	Slug       PodSlug
	Navigation NavigationSnapshot
}

// TerminalFocusEvent is the timestamp-valued trigger consumed by the
// terminal sub-component in place of a frame focus message.
type TerminalFocusEvent struct {
	Slug  PodSlug
	TabID TabID
	At    time.Time
}

// NoticeLevel grades user-visible notices.
type NoticeLevel string

const (
	// NoticeInfo is an informational notice.
	NoticeInfo NoticeLevel = "info"
	// NoticeError is a user-visible failure.
	NoticeError NoticeLevel = "error"
)

// NoticeEvent is a transient user-visible notification (a toast).
type NoticeEvent struct {
	Slug    PodSlug
	Level   NoticeLevel
	Message string
}

// ScreenshotEventType describes capture lifecycle milestones.
type ScreenshotEventType string

const (
	// ScreenshotRequested indicates a capture request was posted.
	ScreenshotRequested ScreenshotEventType = "requested"
	// ScreenshotUploaded indicates a capture was uploaded.
	ScreenshotUploaded ScreenshotEventType = "uploaded"
	// ScreenshotFailed indicates a capture timed out or errored.
	ScreenshotFailed ScreenshotEventType = "failed"
)

// ScreenshotEvent reports capture progress for a frame.
type ScreenshotEvent struct {
	Slug      PodSlug
	Type      ScreenshotEventType
	FrameID   FrameID
	RequestID string
}
