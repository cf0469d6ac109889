package httpapi

import (
	"context"
	"sync"
	"time"

	"pkt.systems/pinacle/internal/logx"
	"pkt.systems/pinacle/schema"
)

// StreamEvent is sent to SSE clients.
type StreamEvent struct {
	Seq        uint64                     `json:"seq"`
	Type       string                     `json:"type"`
	TabEvent   string                     `json:"tab_event,omitempty"`
	Tab        *schema.TabSnapshot        `json:"tab,omitempty"`
	Tabs       []schema.TabSnapshot       `json:"tabs,omitempty"`
	ActiveTab  schema.TabID               `json:"active_tab,omitempty"`
	FrameEvent string                     `json:"frame_event,omitempty"`
	Frame      *schema.FrameSnapshot      `json:"frame,omitempty"`
	Navigation *schema.NavigationSnapshot `json:"navigation,omitempty"`
	TabID      schema.TabID               `json:"tab_id,omitempty"`
	At         *time.Time                 `json:"at,omitempty"`
	Level      string                     `json:"level,omitempty"`
	Message    string                     `json:"message,omitempty"`
	Screenshot string                     `json:"screenshot_event,omitempty"`
	FrameID    schema.FrameID             `json:"frame_id,omitempty"`
	RequestID  string                     `json:"request_id,omitempty"`
	Snapshot   *schema.WorkbenchSnapshot  `json:"snapshot,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// Hub broadcasts events per pod workbench.
type Hub struct {
	mu          sync.Mutex
	pods        map[schema.PodSlug]*podHub
	historySize int
}

// NewHub constructs a hub with the given replay history size.
func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = 1000
	}
	return &Hub{
		pods:        make(map[schema.PodSlug]*podHub),
		historySize: historySize,
	}
}

// OnTabEvent implements core.EventSink.
func (h *Hub) OnTabEvent(event schema.TabEvent) {
	log := logx.WithPod(context.Background(), event.Slug)
	log.Trace("hub tab event", "type", event.Type, "tab", event.Tab.ID, "active", event.ActiveTab)
	stream := StreamEvent{
		Type:      "tab",
		TabEvent:  string(event.Type),
		Tabs:      event.Tabs,
		ActiveTab: event.ActiveTab,
		Timestamp: time.Now(),
	}
	if event.Tab.ID != "" {
		tab := event.Tab
		stream.Tab = &tab
	}
	h.publish(event.Slug, stream)
}

// OnFrameEvent implements core.EventSink.
func (h *Hub) OnFrameEvent(event schema.FrameEvent) {
	log := logx.WithPod(context.Background(), event.Slug)
	log.Trace("hub frame event", "type", event.Type, "frame", event.Frame.ID)
	frame := event.Frame
	h.publish(event.Slug, StreamEvent{
		Type:       "frame",
		FrameEvent: string(event.Type),
		Frame:      &frame,
		Timestamp:  time.Now(),
	})
}

// OnNavigationEvent implements core.EventSink.
func (h *Hub) OnNavigationEvent(event schema.NavigationEvent) {
	log := logx.WithPod(context.Background(), event.Slug)
	log.Trace("hub navigation event", "tab", event.Navigation.TabID)
	nav := event.Navigation
	h.publish(event.Slug, StreamEvent{
		Type:       "navigation",
		Navigation: &nav,
		Timestamp:  time.Now(),
	})
}

// OnTerminalFocus implements core.EventSink.
func (h *Hub) OnTerminalFocus(event schema.TerminalFocusEvent) {
	log := logx.WithPod(context.Background(), event.Slug)
	log.Trace("hub terminal focus", "tab", event.TabID)
	at := event.At
	h.publish(event.Slug, StreamEvent{
		Type:      "terminal_focus",
		TabID:     event.TabID,
		At:        &at,
		Timestamp: time.Now(),
	})
}

// OnNotice implements core.EventSink.
func (h *Hub) OnNotice(event schema.NoticeEvent) {
	log := logx.WithPod(context.Background(), event.Slug)
	log.Trace("hub notice", "level", event.Level)
	h.publish(event.Slug, StreamEvent{
		Type:      "notice",
		Level:     string(event.Level),
		Message:   event.Message,
		Timestamp: time.Now(),
	})
}

// OnScreenshotEvent implements core.EventSink.
func (h *Hub) OnScreenshotEvent(event schema.ScreenshotEvent) {
	log := logx.WithPod(context.Background(), event.Slug)
	log.Trace("hub screenshot event", "type", event.Type, "frame", event.FrameID)
	h.publish(event.Slug, StreamEvent{
		Type:       "screenshot",
		Screenshot: string(event.Type),
		FrameID:    event.FrameID,
		RequestID:  event.RequestID,
		Timestamp:  time.Now(),
	})
}

// Subscribe registers a subscriber for a pod workbench.
func (h *Hub) Subscribe(slug schema.PodSlug) (<-chan StreamEvent, func(), uint64, []StreamEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ph := h.getOrCreatePodHubLocked(slug)
	ch := make(chan StreamEvent, 256)
	ph.subs[ch] = struct{}{}
	history := append([]StreamEvent(nil), ph.history...)
	seq := ph.seq
	log := logx.WithPod(context.Background(), slug)
	log.Info("hub subscribe", "subs", len(ph.subs), "history", len(history))
	unsub := func() {
		h.mu.Lock()
		delete(ph.subs, ch)
		close(ch)
		remaining := len(ph.subs)
		h.mu.Unlock()
		log.Info("hub unsubscribe", "subs", remaining)
	}
	return ch, unsub, seq, history
}

// Replay returns events after the provided seq.
func (h *Hub) Replay(slug schema.PodSlug, after uint64) []StreamEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	ph := h.pods[slug]
	if ph == nil {
		return nil
	}
	events := make([]StreamEvent, 0, len(ph.history))
	for _, event := range ph.history {
		if event.Seq > after {
			events = append(events, event)
		}
	}
	logx.WithPod(context.Background(), slug).Debug("hub replay", "after", after, "count", len(events))
	return events
}

// Forget drops the pod's history and sequence counter. Called when a
// workbench closes so a reopened one starts clean.
func (h *Hub) Forget(slug schema.PodSlug) {
	h.mu.Lock()
	ph := h.pods[slug]
	if ph != nil && len(ph.subs) == 0 {
		delete(h.pods, slug)
	}
	h.mu.Unlock()
}

func (h *Hub) publish(slug schema.PodSlug, event StreamEvent) {
	h.mu.Lock()
	ph := h.getOrCreatePodHubLocked(slug)
	ph.seq++
	event.Seq = ph.seq
	ph.history = append(ph.history, event)
	if len(ph.history) > h.historySize {
		ph.history = ph.history[len(ph.history)-h.historySize:]
	}
	subs := make([]chan StreamEvent, 0, len(ph.subs))
	for sub := range ph.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		logx.WithPod(context.Background(), slug).Warn("hub event dropped", "type", event.Type, "dropped", dropped)
	}
}

func (h *Hub) getOrCreatePodHubLocked(slug schema.PodSlug) *podHub {
	ph := h.pods[slug]
	if ph == nil {
		ph = &podHub{
			subs: make(map[chan StreamEvent]struct{}),
		}
		h.pods[slug] = ph
	}
	return ph
}

type podHub struct {
	seq     uint64
	history []StreamEvent
	subs    map[chan StreamEvent]struct{}
}
