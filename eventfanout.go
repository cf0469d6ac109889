package pinacle

import (
	"pkt.systems/pinacle/core"
	"pkt.systems/pinacle/schema"
)

// eventFanout delivers every engine event to multiple sinks, typically the
// SSE hub plus a caller-supplied sink.
type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnTabEvent(event schema.TabEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnTabEvent(event)
	}
}

func (f eventFanout) OnFrameEvent(event schema.FrameEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnFrameEvent(event)
	}
}

func (f eventFanout) OnNavigationEvent(event schema.NavigationEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnNavigationEvent(event)
	}
}

func (f eventFanout) OnTerminalFocus(event schema.TerminalFocusEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnTerminalFocus(event)
	}
}

func (f eventFanout) OnNotice(event schema.NoticeEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnNotice(event)
	}
}

func (f eventFanout) OnScreenshotEvent(event schema.ScreenshotEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnScreenshotEvent(event)
	}
}
