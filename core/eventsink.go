package core

import "pkt.systems/pinacle/schema"

// EventSink receives workbench events from the core service. Calls are made
// outside the service lock and must not block for long.
type EventSink interface {
	OnTabEvent(event schema.TabEvent)
	OnFrameEvent(event schema.FrameEvent)
	OnNavigationEvent(event schema.NavigationEvent)
	OnTerminalFocus(event schema.TerminalFocusEvent)
	OnNotice(event schema.NoticeEvent)
	OnScreenshotEvent(event schema.ScreenshotEvent)
}
