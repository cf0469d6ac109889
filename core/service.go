package core

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"pkt.systems/pinacle/internal/logx"
	"pkt.systems/pinacle/internal/persist"
	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

// Test seams for timer-driven behavior.
var (
	timeNow   = time.Now
	afterFunc = time.AfterFunc
)

// service implements the workbench engine. One mutex owns all workbench
// state; operations lock, mutate, snapshot, unlock, then emit events and
// run side effects.
type service struct {
	cfg         schema.WorkbenchConfig
	pods        PodClient
	frames      FrameTransport
	cache       *persist.Store
	sink        EventSink
	logger      pslog.Logger
	mu          sync.Mutex
	workbenches map[schema.PodSlug]*workbench
}

// workbench is the engine state for one open pod workbench.
type workbench struct {
	slug     schema.PodSlug
	podID    schema.PodID
	tabs     map[schema.TabID]*tab
	order    []schema.TabID
	active   schema.TabID
	frames   map[schema.FrameID]*frame
	navs     map[schema.TabID]*navState
	history  map[schema.TabID]*addressHistory
	shots    map[schema.FrameID]*captureState
	refresh  map[schema.FrameID]*time.Timer
	lastTabs []schema.PodTabEntry
	services []string

	focusTimer  *time.Timer
	focusTarget schema.FrameID
}

// NewService constructs the workbench engine.
func NewService(cfg schema.WorkbenchConfig, deps ServiceDeps) (Service, error) {
	normalized, err := schema.NormalizeWorkbenchConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	if deps.Pods == nil {
		return nil, errors.New("pod client is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &service{
		cfg:         cfg,
		pods:        deps.Pods,
		frames:      deps.Frames,
		cache:       deps.Cache,
		sink:        deps.EventSink,
		logger:      logger,
		workbenches: make(map[schema.PodSlug]*workbench),
	}, nil
}

func (s *service) OpenWorkbench(ctx context.Context, req schema.OpenWorkbenchRequest) (schema.OpenWorkbenchResponse, error) {
	if ctx == nil {
		return schema.OpenWorkbenchResponse{}, errors.New("missing context")
	}
	if err := schema.ValidatePodSlug(req.Slug); err != nil {
		return schema.OpenWorkbenchResponse{}, err
	}
	log := logx.WithPod(ctx, req.Slug)
	log.Info("service workbench open start")

	s.mu.Lock()
	if w := s.workbenches[req.Slug]; w != nil {
		snapshot := s.snapshotWorkbenchLocked(w)
		s.mu.Unlock()
		log.Debug("service workbench already open")
		return schema.OpenWorkbenchResponse{Workbench: snapshot}, nil
	}
	s.mu.Unlock()

	podID, cfg, err := s.fetchPodConfig(ctx, log, req.Slug)
	if err != nil {
		log.Warn("service workbench open failed", "err", err)
		return schema.OpenWorkbenchResponse{}, err
	}
	if podID == "" {
		podID = req.PodID
	}

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		w = s.buildWorkbenchLocked(req.Slug, podID, cfg)
		s.workbenches[req.Slug] = w
	}
	snapshot := s.snapshotWorkbenchLocked(w)
	captureNow := false
	if active := w.tabs[w.active]; active != nil {
		captureNow = s.armCaptureLocked(w, active)
	}
	s.mu.Unlock()

	if captureNow {
		go s.fireCapture(req.Slug, schema.FrameIDFor(snapshot.ActiveTab))
	}
	log.Info("service workbench opened", "tabs", len(snapshot.Tabs), "active", snapshot.ActiveTab)
	return schema.OpenWorkbenchResponse{Workbench: snapshot}, nil
}

func (s *service) CloseWorkbench(ctx context.Context, req schema.CloseWorkbenchRequest) (schema.CloseWorkbenchResponse, error) {
	log := logx.WithPod(ctx, req.Slug)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service workbench close failed", "err", schema.ErrWorkbenchNotFound)
		return schema.CloseWorkbenchResponse{}, schema.ErrWorkbenchNotFound
	}
	s.teardownWorkbenchLocked(w)
	delete(s.workbenches, req.Slug)
	s.mu.Unlock()

	log.Info("service workbench closed")
	return schema.CloseWorkbenchResponse{}, nil
}

func (s *service) DescribeWorkbench(ctx context.Context, req schema.DescribeWorkbenchRequest) (schema.DescribeWorkbenchResponse, error) {
	log := logx.WithPod(ctx, req.Slug)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		return schema.DescribeWorkbenchResponse{}, schema.ErrWorkbenchNotFound
	}
	snapshot := s.snapshotWorkbenchLocked(w)
	s.mu.Unlock()

	log.Trace("service workbench described", "tabs", len(snapshot.Tabs))
	return schema.DescribeWorkbenchResponse{Workbench: snapshot}, nil
}

func (s *service) SyncPod(ctx context.Context, req schema.SyncPodRequest) (schema.SyncPodResponse, error) {
	if ctx == nil {
		return schema.SyncPodResponse{}, errors.New("missing context")
	}
	log := logx.WithPod(ctx, req.Slug)

	s.mu.Lock()
	if s.workbenches[req.Slug] == nil {
		s.mu.Unlock()
		return schema.SyncPodResponse{}, schema.ErrWorkbenchNotFound
	}
	s.mu.Unlock()

	pod, err := s.pods.GetPod(ctx, req.Slug)
	if err != nil {
		log.Warn("service pod sync fetch failed", "err", err)
		return schema.SyncPodResponse{}, err
	}
	cfg, parseErr := schema.ParsePodConfig(pod.Config)
	if parseErr != nil {
		log.Warn("pod config malformed, using fallback", "err", parseErr)
		cfg = schema.DefaultPodConfig()
	}
	s.cacheConfig(log, req.Slug, pod.ID, cfg)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		return schema.SyncPodResponse{}, schema.ErrWorkbenchNotFound
	}
	if pod.ID != "" {
		w.podID = pod.ID
	}
	if slices.Equal(w.lastTabs, cfg.Tabs) && slices.Equal(w.services, cfg.Services) {
		tabs := s.snapshotTabsLocked(w)
		active := w.active
		s.mu.Unlock()
		log.Trace("service pod config unchanged")
		return schema.SyncPodResponse{Tabs: tabs, ActiveTab: active}, nil
	}
	outcome := s.rebuildLocked(w, cfg)
	tabs := s.snapshotTabsLocked(w)
	active := w.active
	s.mu.Unlock()

	s.emitActivation(outcome)
	log.Info("service workbench rebuilt", "tabs", len(tabs), "active", active)
	return schema.SyncPodResponse{Changed: true, Tabs: tabs, ActiveTab: active}, nil
}

func (s *service) ListTabs(ctx context.Context, req schema.ListTabsRequest) (schema.ListTabsResponse, error) {
	log := logx.WithPod(ctx, req.Slug)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		return schema.ListTabsResponse{}, schema.ErrWorkbenchNotFound
	}
	resp := schema.ListTabsResponse{
		Tabs:                s.snapshotTabsLocked(w),
		ActiveTab:           w.active,
		AvailableServices:   availableServices(schema.PodConfig{Services: w.services}),
		ExistingServiceTabs: existingServiceTabs(w.orderedTabsLocked()),
	}
	s.mu.Unlock()

	log.Trace("service tabs listed", "count", len(resp.Tabs), "active", resp.ActiveTab)
	return resp, nil
}

func (s *service) CreateTab(ctx context.Context, req schema.CreateTabRequest) (schema.CreateTabResponse, error) {
	if ctx == nil {
		return schema.CreateTabResponse{}, errors.New("missing context")
	}
	log := logx.WithPod(ctx, req.Slug)
	log.Info("service tab create start", "name", req.Name, "service", req.Service, "url", req.URL)

	candidate, err := newTabFromRequest(req)
	if err != nil {
		log.Warn("service tab create rejected", "err", err)
		return schema.CreateTabResponse{}, err
	}

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service tab create failed", "err", schema.ErrWorkbenchNotFound)
		return schema.CreateTabResponse{}, schema.ErrWorkbenchNotFound
	}
	if _, exists := w.tabs[candidate.ID]; exists {
		s.mu.Unlock()
		log.Warn("service tab create rejected", "err", schema.ErrDuplicateTab, "tab", candidate.ID)
		return schema.CreateTabResponse{}, schema.ErrDuplicateTab
	}
	w.tabs[candidate.ID] = candidate
	w.order = append(w.order, candidate.ID)
	assignShortcuts(w.orderedTabsLocked())
	s.ensureNavLocked(w, candidate)
	outcome := s.activateTabLocked(w, candidate)
	tabs := s.snapshotTabsLocked(w)
	outcome.tabEvent = &schema.TabEvent{
		Slug:      req.Slug,
		Type:      schema.TabEventCreated,
		Tab:       candidate.Snapshot(true),
		Tabs:      tabs,
		ActiveTab: w.active,
	}
	entries := schema.TabEntries(tabs)
	w.lastTabs = entries
	podID := w.podID
	services := append([]string(nil), w.services...)
	s.mu.Unlock()

	s.emitActivation(outcome)
	go s.persistTabs(s.podLog(req.Slug), req.Slug, podID, entries, services)
	log.Info("service tab created", "tab", candidate.ID, "shortcut", candidate.Shortcut)
	return schema.CreateTabResponse{Tab: outcome.tabEvent.Tab}, nil
}

func (s *service) CloseTab(ctx context.Context, req schema.CloseTabRequest) (schema.CloseTabResponse, error) {
	if ctx == nil {
		return schema.CloseTabResponse{}, errors.New("missing context")
	}
	log := logx.WithPodTab(ctx, req.Slug, req.TabID)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service tab close failed", "err", schema.ErrWorkbenchNotFound)
		return schema.CloseTabResponse{}, schema.ErrWorkbenchNotFound
	}
	t := w.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		log.Warn("service tab close failed", "err", schema.ErrTabNotFound)
		return schema.CloseTabResponse{}, schema.ErrTabNotFound
	}
	closedSnapshot := t.Snapshot(false)
	frameEvents := s.destroyTabLocked(w, t)
	assignShortcuts(w.orderedTabsLocked())

	outcome := activationOutcome{slug: req.Slug, frameEvents: frameEvents}
	if w.active == req.TabID || w.active == "" {
		w.active = ""
		if len(w.order) > 0 {
			next := w.tabs[w.order[0]]
			followup := s.activateTabLocked(w, next)
			followup.tabEvent = nil
			outcome = outcome.merge(followup)
		}
	}
	tabs := s.snapshotTabsLocked(w)
	outcome.tabEvent = &schema.TabEvent{
		Slug:      req.Slug,
		Type:      schema.TabEventClosed,
		Tab:       closedSnapshot,
		Tabs:      tabs,
		ActiveTab: w.active,
	}
	entries := schema.TabEntries(tabs)
	w.lastTabs = entries
	podID := w.podID
	services := append([]string(nil), w.services...)
	activeTab := w.active
	s.mu.Unlock()

	s.emitActivation(outcome)
	go s.persistTabs(s.podLog(req.Slug), req.Slug, podID, entries, services)
	log.Info("service tab closed", "active", activeTab)
	return schema.CloseTabResponse{Tab: closedSnapshot, ActiveTab: activeTab}, nil
}

func (s *service) ActivateTab(ctx context.Context, req schema.ActivateTabRequest) (schema.ActivateTabResponse, error) {
	log := logx.WithPodTab(ctx, req.Slug, req.TabID)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service tab activate failed", "err", schema.ErrWorkbenchNotFound)
		return schema.ActivateTabResponse{}, schema.ErrWorkbenchNotFound
	}
	t := w.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		log.Warn("service tab activate failed", "err", schema.ErrTabNotFound)
		return schema.ActivateTabResponse{}, schema.ErrTabNotFound
	}
	outcome := s.activateTabLocked(w, t)
	snapshot := t.Snapshot(true)
	s.mu.Unlock()

	s.emitActivation(outcome)
	log.Info("service tab activated")
	return schema.ActivateTabResponse{Tab: snapshot}, nil
}

func (s *service) ReorderTabs(ctx context.Context, req schema.ReorderTabsRequest) (schema.ReorderTabsResponse, error) {
	log := logx.WithPod(ctx, req.Slug)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service tab reorder failed", "err", schema.ErrWorkbenchNotFound)
		return schema.ReorderTabsResponse{}, schema.ErrWorkbenchNotFound
	}
	if !validOrder(w, req.Order) {
		s.mu.Unlock()
		log.Warn("service tab reorder failed", "err", schema.ErrInvalidOrder)
		return schema.ReorderTabsResponse{}, schema.ErrInvalidOrder
	}
	w.order = append([]schema.TabID(nil), req.Order...)
	tabs := s.snapshotTabsLocked(w)
	event := schema.TabEvent{
		Slug:      req.Slug,
		Type:      schema.TabEventReordered,
		Tabs:      tabs,
		ActiveTab: w.active,
	}
	entries := schema.TabEntries(tabs)
	w.lastTabs = entries
	podID := w.podID
	services := append([]string(nil), w.services...)
	s.mu.Unlock()

	s.emitTabEvent(event)
	go s.persistTabs(s.podLog(req.Slug), req.Slug, podID, entries, services)
	log.Info("service tabs reordered", "count", len(tabs))
	return schema.ReorderTabsResponse{Tabs: tabs}, nil
}

func (s *service) RenameTab(ctx context.Context, req schema.RenameTabRequest) (schema.RenameTabResponse, error) {
	log := logx.WithPodTab(ctx, req.Slug, req.TabID)
	name, err := schema.NormalizeTabName(req.Name)
	if err != nil {
		log.Warn("service tab rename rejected", "err", err)
		return schema.RenameTabResponse{}, err
	}

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service tab rename failed", "err", schema.ErrWorkbenchNotFound)
		return schema.RenameTabResponse{}, schema.ErrWorkbenchNotFound
	}
	t := w.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		log.Warn("service tab rename failed", "err", schema.ErrTabNotFound)
		return schema.RenameTabResponse{}, schema.ErrTabNotFound
	}
	if !t.processTab() {
		s.mu.Unlock()
		err := fmt.Errorf("%w: service tab labels come from the template", schema.ErrInvalidRequest)
		log.Warn("service tab rename rejected", "err", err)
		return schema.RenameTabResponse{}, err
	}
	successorID := tabIDFor(name, "", t.CustomURL)
	if successorID != t.ID {
		if _, exists := w.tabs[successorID]; exists {
			s.mu.Unlock()
			log.Warn("service tab rename rejected", "err", schema.ErrDuplicateTab)
			return schema.RenameTabResponse{}, schema.ErrDuplicateTab
		}
	}
	outcome := s.replaceTabLocked(w, t, successorID, schema.TabLabel(name))
	successor := w.tabs[successorID]
	tabs := s.snapshotTabsLocked(w)
	outcome.tabEvent = &schema.TabEvent{
		Slug:      req.Slug,
		Type:      schema.TabEventUpdated,
		Tab:       successor.Snapshot(w.active == successorID),
		Tabs:      tabs,
		ActiveTab: w.active,
	}
	entries := schema.TabEntries(tabs)
	w.lastTabs = entries
	podID := w.podID
	services := append([]string(nil), w.services...)
	s.mu.Unlock()

	s.emitActivation(outcome)
	go s.persistTabs(s.podLog(req.Slug), req.Slug, podID, entries, services)
	log.Info("service tab renamed", "successor", successorID)
	return schema.RenameTabResponse{Tab: outcome.tabEvent.Tab}, nil
}

func (s *service) Navigate(ctx context.Context, req schema.NavigateRequest) (schema.NavigateResponse, error) {
	log := logx.WithPodTab(ctx, req.Slug, req.TabID)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service navigate failed", "err", schema.ErrWorkbenchNotFound)
		return schema.NavigateResponse{}, schema.ErrWorkbenchNotFound
	}
	t := w.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		log.Warn("service navigate failed", "err", schema.ErrTabNotFound)
		return schema.NavigateResponse{}, schema.ErrTabNotFound
	}
	if !t.processTab() {
		s.mu.Unlock()
		log.Warn("service navigate failed", "err", schema.ErrNotProcessTab)
		return schema.NavigateResponse{}, schema.ErrNotProcessTab
	}
	nav := s.ensureNavLocked(w, t)
	normalized, err := normalizeAddress(req.Address, w.slug, nav.currentPort, s.proxyDomain())
	if err != nil {
		s.mu.Unlock()
		log.Warn("service navigate rejected", "address", req.Address, "err", err)
		s.emitNotice(schema.NoticeEvent{
			Slug:    req.Slug,
			Level:   schema.NoticeError,
			Message: "Only localhost URLs can open in a tab",
		})
		return schema.NavigateResponse{}, err
	}
	nav.submit(normalized.Port, normalized.Path)
	s.ensureHistoryLocked(w, t.ID).Append(nav.displayURL)
	snapshot := nav.Snapshot(t.ID)
	frameID := schema.FrameIDFor(t.ID)
	s.mu.Unlock()

	if err := s.sendToFrame(req.Slug, frameID, schema.FrameMessage{
		Type: schema.FrameMessageNavigate,
		URL:  normalized.Target,
	}); err != nil {
		log.Warn("service navigate command send failed", "err", err)
	}
	s.emitNavigationEvent(schema.NavigationEvent{Slug: req.Slug, Navigation: snapshot})
	log.Info("service navigation submitted", "display", snapshot.DisplayURL, "port", snapshot.CurrentPort)
	return schema.NavigateResponse{Navigation: snapshot}, nil
}

func (s *service) NavigateBack(ctx context.Context, req schema.NavigateBackRequest) (schema.NavigateBackResponse, error) {
	snapshot, err := s.requestHistoryStep(ctx, req.Slug, req.TabID, schema.NavActionBack)
	if err != nil {
		return schema.NavigateBackResponse{}, err
	}
	return schema.NavigateBackResponse{Navigation: snapshot}, nil
}

func (s *service) NavigateForward(ctx context.Context, req schema.NavigateForwardRequest) (schema.NavigateForwardResponse, error) {
	snapshot, err := s.requestHistoryStep(ctx, req.Slug, req.TabID, schema.NavActionForward)
	if err != nil {
		return schema.NavigateForwardResponse{}, err
	}
	return schema.NavigateForwardResponse{Navigation: snapshot}, nil
}

// requestHistoryStep posts a frame-native back or forward request. The
// counters move when the resulting navigation event arrives, not here; the
// buttons stay clickable even at zero because the frame's real history may
// be deeper than the heuristic counters.
func (s *service) requestHistoryStep(ctx context.Context, slug schema.PodSlug, tabID schema.TabID, action schema.NavAction) (schema.NavigationSnapshot, error) {
	log := logx.WithPodTab(ctx, slug, tabID)

	s.mu.Lock()
	w := s.workbenches[slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service history step failed", "err", schema.ErrWorkbenchNotFound)
		return schema.NavigationSnapshot{}, schema.ErrWorkbenchNotFound
	}
	t := w.tabs[tabID]
	if t == nil {
		s.mu.Unlock()
		log.Warn("service history step failed", "err", schema.ErrTabNotFound)
		return schema.NavigationSnapshot{}, schema.ErrTabNotFound
	}
	if !t.processTab() {
		s.mu.Unlock()
		log.Warn("service history step failed", "err", schema.ErrNotProcessTab)
		return schema.NavigationSnapshot{}, schema.ErrNotProcessTab
	}
	nav := s.ensureNavLocked(w, t)
	msgType := schema.FrameMessageNavigationBack
	if action == schema.NavActionForward {
		nav.requestForward()
		msgType = schema.FrameMessageNavigationForward
	} else {
		nav.requestBack()
	}
	snapshot := nav.Snapshot(tabID)
	frameID := schema.FrameIDFor(tabID)
	s.mu.Unlock()

	if err := s.sendToFrame(slug, frameID, schema.FrameMessage{Type: msgType}); err != nil {
		log.Debug("service history step send failed", "err", err)
	}
	s.emitNavigationEvent(schema.NavigationEvent{Slug: slug, Navigation: snapshot})
	log.Debug("service history step requested", "action", action)
	return snapshot, nil
}

func (s *service) RefreshFrame(ctx context.Context, req schema.RefreshFrameRequest) (schema.RefreshFrameResponse, error) {
	log := logx.WithPodTab(ctx, req.Slug, req.TabID)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service frame refresh failed", "err", schema.ErrWorkbenchNotFound)
		return schema.RefreshFrameResponse{}, schema.ErrWorkbenchNotFound
	}
	t := w.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		log.Warn("service frame refresh failed", "err", schema.ErrTabNotFound)
		return schema.RefreshFrameResponse{}, schema.ErrTabNotFound
	}
	frameID := schema.FrameIDFor(t.ID)
	f := w.frames[frameID]
	if f == nil || !f.Mounted {
		s.mu.Unlock()
		err := fmt.Errorf("%w: frame is not mounted", schema.ErrInvalidRequest)
		log.Warn("service frame refresh failed", "err", err)
		return schema.RefreshFrameResponse{}, err
	}
	if w.refresh[frameID] != nil {
		snapshot := f.Snapshot()
		s.mu.Unlock()
		log.Debug("service frame refresh already pending")
		return schema.RefreshFrameResponse{Frame: snapshot}, nil
	}
	f.pendingSrc = f.Src
	f.Src = ""
	slug := w.slug
	w.refresh[frameID] = afterFunc(s.cfg.RefreshDelay, func() {
		s.restoreFrameSrc(slug, frameID)
	})
	snapshot := f.Snapshot()
	s.mu.Unlock()

	s.emitFrameEvent(schema.FrameEvent{Slug: req.Slug, Type: schema.FrameEventSrc, Frame: snapshot})
	log.Info("service frame refresh started")
	return schema.RefreshFrameResponse{Frame: snapshot}, nil
}

// restoreFrameSrc completes a refresh cycle: the src was cleared to force a
// re-navigation and comes back after the configured gap.
func (s *service) restoreFrameSrc(slug schema.PodSlug, frameID schema.FrameID) {
	s.mu.Lock()
	w := s.workbenches[slug]
	if w == nil {
		s.mu.Unlock()
		return
	}
	delete(w.refresh, frameID)
	f := w.frames[frameID]
	if f == nil || !f.Mounted || f.pendingSrc == "" {
		s.mu.Unlock()
		return
	}
	f.Src = f.pendingSrc
	f.pendingSrc = ""
	snapshot := f.Snapshot()
	s.mu.Unlock()

	s.emitFrameEvent(schema.FrameEvent{Slug: slug, Type: schema.FrameEventSrc, Frame: snapshot})
	s.frameLog(slug, frameID).Debug("frame refresh completed")
}

func (s *service) GetAddressHistory(ctx context.Context, req schema.GetAddressHistoryRequest) (schema.GetAddressHistoryResponse, error) {
	log := logx.WithPodTab(ctx, req.Slug, req.TabID)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		return schema.GetAddressHistoryResponse{}, schema.ErrWorkbenchNotFound
	}
	t := w.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		return schema.GetAddressHistoryResponse{}, schema.ErrTabNotFound
	}
	if !t.processTab() {
		s.mu.Unlock()
		return schema.GetAddressHistoryResponse{}, schema.ErrNotProcessTab
	}
	entries := w.history[t.ID].Entries()
	s.mu.Unlock()

	log.Trace("service history fetched", "entries", len(entries))
	return schema.GetAddressHistoryResponse{Entries: entries}, nil
}

func (s *service) WindowFocus(ctx context.Context, req schema.WindowFocusRequest) (schema.WindowFocusResponse, error) {
	log := logx.WithPod(ctx, req.Slug)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		return schema.WindowFocusResponse{}, schema.ErrWorkbenchNotFound
	}
	captureNow := false
	frameID := schema.FrameID("")
	if active := w.tabs[w.active]; active != nil {
		captureNow = s.armCaptureLocked(w, active)
		frameID = schema.FrameIDFor(active.ID)
	}
	s.mu.Unlock()

	if captureNow {
		go s.fireCapture(req.Slug, frameID)
	}
	log.Trace("service window focus handled", "capture", captureNow)
	return schema.WindowFocusResponse{}, nil
}

func (s *service) OpenSourceControl(ctx context.Context, req schema.OpenSourceControlRequest) (schema.OpenSourceControlResponse, error) {
	log := logx.WithPodTab(ctx, req.Slug, req.TabID)

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service source control view failed", "err", schema.ErrWorkbenchNotFound)
		return schema.OpenSourceControlResponse{}, schema.ErrWorkbenchNotFound
	}
	t := w.tabs[req.TabID]
	if t == nil {
		s.mu.Unlock()
		log.Warn("service source control view failed", "err", schema.ErrTabNotFound)
		return schema.OpenSourceControlResponse{}, schema.ErrTabNotFound
	}
	if t.Service != schema.ServiceCodeServer {
		s.mu.Unlock()
		err := fmt.Errorf("%w: source control lives in the editor tab", schema.ErrInvalidRequest)
		log.Warn("service source control view failed", "err", err)
		return schema.OpenSourceControlResponse{}, err
	}
	frameID := schema.FrameIDFor(t.ID)
	s.mu.Unlock()

	if err := s.sendToFrame(req.Slug, frameID, schema.FrameMessage{Type: schema.FrameMessageSourceControlView}); err != nil {
		log.Warn("service source control view failed", "err", err)
		return schema.OpenSourceControlResponse{}, err
	}
	log.Info("service source control view requested")
	return schema.OpenSourceControlResponse{}, nil
}

func (s *service) FrameInbound(ctx context.Context, req schema.FrameInboundRequest) (schema.FrameInboundResponse, error) {
	log := logx.WithPod(ctx, req.Slug)
	if err := req.Message.Validate(); err != nil {
		return schema.FrameInboundResponse{}, err
	}
	if !req.Message.FromFrame() {
		return schema.FrameInboundResponse{}, fmt.Errorf("%w: %q is host to frame", schema.ErrInvalidFrameMessage, req.Message.Type)
	}

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		return schema.FrameInboundResponse{}, schema.ErrWorkbenchNotFound
	}
	f := w.frames[req.FrameID]
	if f == nil {
		s.mu.Unlock()
		log.Debug("service frame message dropped", "frame", req.FrameID, "type", req.Message.Type)
		return schema.FrameInboundResponse{}, nil
	}
	tabID := f.TabID
	s.mu.Unlock()

	switch req.Message.Type {
	case schema.FrameMessageNavigation:
		s.applyNavigation(req.Slug, tabID, req.Message)
	case schema.FrameMessageScreenshotCaptured:
		s.handleScreenshotCaptured(req.Slug, req.FrameID, req.Message)
	case schema.FrameMessageScreenshotError:
		s.handleScreenshotError(req.Slug, req.FrameID, req.Message)
	case schema.FrameMessageKeyboardShortcut:
		if _, err := s.PressShortcut(ctx, schema.PressShortcutRequest{Slug: req.Slug, Digit: req.Message.Key}); err != nil {
			log.Warn("service forwarded shortcut failed", "err", err)
		}
	}
	return schema.FrameInboundResponse{}, nil
}

// applyNavigation reconciles a navigation event posted by frame content.
// The pending intent disambiguates how the counters move; events for tabs
// without an address bar are dropped.
func (s *service) applyNavigation(slug schema.PodSlug, tabID schema.TabID, msg schema.FrameMessage) {
	log := s.podLog(slug).With("tab", tabID)

	s.mu.Lock()
	w := s.workbenches[slug]
	if w == nil {
		s.mu.Unlock()
		return
	}
	t := w.tabs[tabID]
	if t == nil || !t.processTab() {
		s.mu.Unlock()
		log.Trace("navigation event dropped", "url", msg.URL)
		return
	}
	nav := s.ensureNavLocked(w, t)
	nav.observe(portFromProxyHost(msg.URL), framePath(msg))
	snapshot := nav.Snapshot(tabID)
	s.mu.Unlock()

	s.emitNavigationEvent(schema.NavigationEvent{Slug: slug, Navigation: snapshot})
	log.Debug("navigation observed", "display", snapshot.DisplayURL, "back", snapshot.BackSteps, "forward", snapshot.ForwardSteps)
}

// VerifyFrameToken authenticates a bridge socket attach attempt.
func (s *service) VerifyFrameToken(slug schema.PodSlug, frameID schema.FrameID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.workbenches[slug]
	if w == nil {
		return schema.ErrWorkbenchNotFound
	}
	f := w.frames[frameID]
	if f == nil || !f.Mounted || f.Token == "" {
		return schema.ErrInvalidFrameToken
	}
	if subtle.ConstantTimeCompare([]byte(f.Token), []byte(token)) != 1 {
		return schema.ErrInvalidFrameToken
	}
	return nil
}

// FrameConnected marks the frame's bridge socket attached.
func (s *service) FrameConnected(ctx context.Context, slug schema.PodSlug, frameID schema.FrameID) {
	s.setFrameConnected(ctx, slug, frameID, true)
}

// FrameDisconnected marks the frame's bridge socket detached. In-flight
// captures are left to their timeout.
func (s *service) FrameDisconnected(ctx context.Context, slug schema.PodSlug, frameID schema.FrameID) {
	s.setFrameConnected(ctx, slug, frameID, false)
}

func (s *service) setFrameConnected(ctx context.Context, slug schema.PodSlug, frameID schema.FrameID, connected bool) {
	log := logx.WithFrame(logx.WithPod(ctx, slug), frameID)

	s.mu.Lock()
	w := s.workbenches[slug]
	if w == nil {
		s.mu.Unlock()
		return
	}
	f := w.frames[frameID]
	if f == nil || f.Connected == connected {
		s.mu.Unlock()
		return
	}
	f.Connected = connected
	snapshot := f.Snapshot()
	s.mu.Unlock()

	eventType := schema.FrameEventConnected
	if !connected {
		eventType = schema.FrameEventDisconnected
	}
	s.emitFrameEvent(schema.FrameEvent{Slug: slug, Type: eventType, Frame: snapshot})
	log.Debug("frame bridge state changed", "connected", connected)
}

// OpenSlugs lists open workbenches in stable order for the sync loop.
func (s *service) OpenSlugs() []schema.PodSlug {
	s.mu.Lock()
	defer s.mu.Unlock()
	slugs := make([]schema.PodSlug, 0, len(s.workbenches))
	for slug := range s.workbenches {
		slugs = append(slugs, slug)
	}
	sort.Slice(slugs, func(i, j int) bool { return slugs[i] < slugs[j] })
	return slugs
}

// --- internal helpers ---

// activationOutcome collects the events an activation produced, to be
// emitted after the lock is released.
type activationOutcome struct {
	slug        schema.PodSlug
	tabEvent    *schema.TabEvent
	frameEvents []schema.FrameEvent
	captureNow  bool
	captureID   schema.FrameID
}

func (o activationOutcome) merge(other activationOutcome) activationOutcome {
	o.frameEvents = append(o.frameEvents, other.frameEvents...)
	if other.tabEvent != nil {
		o.tabEvent = other.tabEvent
	}
	if other.captureNow {
		o.captureNow = true
		o.captureID = other.captureID
	}
	return o
}

func (s *service) emitActivation(out activationOutcome) {
	if out.tabEvent != nil {
		s.emitTabEvent(*out.tabEvent)
	}
	for _, event := range out.frameEvents {
		s.emitFrameEvent(event)
	}
	if out.captureNow {
		go s.fireCapture(out.slug, out.captureID)
	}
}

// activateTabLocked makes target the active tab and applies the frame
// visibility contract: keepRendered frames hide, others unmount; the
// target's frame mounts if needed and becomes visible.
func (s *service) activateTabLocked(w *workbench, target *tab) activationOutcome {
	out := activationOutcome{slug: w.slug}
	prev := w.active
	w.active = target.ID
	if prev != "" && prev != target.ID {
		if pt := w.tabs[prev]; pt != nil {
			prevFrameID := schema.FrameIDFor(prev)
			if pf := w.frames[prevFrameID]; pf != nil {
				s.cancelWarmupLocked(w, prevFrameID)
				if pt.KeepRendered {
					if pf.Visible {
						pf.Visible = false
						out.frameEvents = append(out.frameEvents, schema.FrameEvent{
							Slug: w.slug, Type: schema.FrameEventVisibility, Frame: pf.Snapshot(),
						})
					}
				} else {
					out.frameEvents = append(out.frameEvents, s.unmountFrameLocked(w, pf)...)
				}
			}
		}
	}
	out.frameEvents = append(out.frameEvents, s.ensureFrameLocked(w, target, true)...)
	out.tabEvent = &schema.TabEvent{
		Slug:      w.slug,
		Type:      schema.TabEventActivated,
		Tab:       target.Snapshot(true),
		ActiveTab: target.ID,
	}
	if s.armCaptureLocked(w, target) {
		out.captureNow = true
		out.captureID = schema.FrameIDFor(target.ID)
	}
	return out
}

// ensureFrameLocked mounts the tab's frame if needed and sets visibility.
func (s *service) ensureFrameLocked(w *workbench, t *tab, visible bool) []schema.FrameEvent {
	frameID := schema.FrameIDFor(t.ID)
	f := w.frames[frameID]
	if f == nil {
		f = &frame{ID: frameID, TabID: t.ID, KeepRendered: t.KeepRendered}
		w.frames[frameID] = f
	}
	wasMounted := f.Mounted
	wasVisible := f.Visible
	if !f.Mounted {
		f.Mounted = true
		f.Src = frameSrc(s.cfg.ProxyPath, w.slug, t)
		f.Token = newToken()
	}
	f.Visible = visible
	switch {
	case !wasMounted:
		return []schema.FrameEvent{{Slug: w.slug, Type: schema.FrameEventMounted, Frame: f.Snapshot()}}
	case wasVisible != visible:
		return []schema.FrameEvent{{Slug: w.slug, Type: schema.FrameEventVisibility, Frame: f.Snapshot()}}
	}
	return nil
}

// unmountFrameLocked tears the frame presentation down while keeping its
// screenshot tracking, so remounts within the capture interval stay quiet.
func (s *service) unmountFrameLocked(w *workbench, f *frame) []schema.FrameEvent {
	if !f.Mounted {
		return nil
	}
	if timer := w.refresh[f.ID]; timer != nil {
		timer.Stop()
		delete(w.refresh, f.ID)
	}
	s.cancelWarmupLocked(w, f.ID)
	f.Mounted = false
	f.Visible = false
	f.Src = ""
	f.pendingSrc = ""
	f.Token = ""
	f.Connected = false
	return []schema.FrameEvent{{Slug: w.slug, Type: schema.FrameEventUnmounted, Frame: f.Snapshot()}}
}

// destroyTabLocked removes the tab and every piece of state keyed by it.
func (s *service) destroyTabLocked(w *workbench, t *tab) []schema.FrameEvent {
	frameID := schema.FrameIDFor(t.ID)
	var events []schema.FrameEvent
	if f := w.frames[frameID]; f != nil {
		events = s.unmountFrameLocked(w, f)
		delete(w.frames, frameID)
	}
	s.clearCaptureLocked(w, frameID)
	if w.focusTarget == frameID {
		if w.focusTimer != nil {
			w.focusTimer.Stop()
		}
		w.focusTimer = nil
		w.focusTarget = ""
	}
	delete(w.navs, t.ID)
	delete(w.history, t.ID)
	delete(w.tabs, t.ID)
	w.order = removeTabID(w.order, t.ID)
	return events
}

// replaceTabLocked swaps a renamed tab for its successor in place. The
// address bar and history follow the tab; the frame remounts under a fresh
// token because its identity derives from the tab id.
func (s *service) replaceTabLocked(w *workbench, t *tab, successorID schema.TabID, label schema.TabLabel) activationOutcome {
	out := activationOutcome{slug: w.slug}
	successor := &tab{
		ID:           successorID,
		Label:        label,
		Service:      t.Service,
		CustomURL:    t.CustomURL,
		ReturnURL:    t.ReturnURL,
		Port:         t.Port,
		Shortcut:     t.Shortcut,
		Icon:         t.Icon,
		KeepRendered: t.KeepRendered,
		Terminal:     t.Terminal,
	}
	oldFrameID := schema.FrameIDFor(t.ID)
	wasMounted := false
	wasVisible := false
	if f := w.frames[oldFrameID]; f != nil {
		wasMounted = f.Mounted
		wasVisible = f.Visible
		out.frameEvents = append(out.frameEvents, s.unmountFrameLocked(w, f)...)
		delete(w.frames, oldFrameID)
	}
	s.clearCaptureLocked(w, oldFrameID)
	if nav := w.navs[t.ID]; nav != nil {
		delete(w.navs, t.ID)
		w.navs[successorID] = nav
	}
	if hist := w.history[t.ID]; hist != nil {
		delete(w.history, t.ID)
		w.history[successorID] = hist
	}
	delete(w.tabs, t.ID)
	w.tabs[successorID] = successor
	for i, id := range w.order {
		if id == t.ID {
			w.order[i] = successorID
			break
		}
	}
	if w.active == t.ID {
		w.active = successorID
	}
	if wasMounted {
		out.frameEvents = append(out.frameEvents, s.ensureFrameLocked(w, successor, wasVisible)...)
	}
	return out
}

// rebuildLocked replaces the tab list from a fresh pod configuration.
// State keyed by surviving tab ids carries over; everything else is torn
// down. Frames for surviving keepRendered tabs stay mounted so long-lived
// sessions ride out config pushes.
func (s *service) rebuildLocked(w *workbench, cfg schema.PodConfig) activationOutcome {
	out := activationOutcome{slug: w.slug}
	rebuilt := buildTabs(cfg)
	surviving := make(map[schema.TabID]bool, len(rebuilt))
	for _, t := range rebuilt {
		surviving[t.ID] = true
	}
	for _, id := range append([]schema.TabID(nil), w.order...) {
		if surviving[id] {
			continue
		}
		if old := w.tabs[id]; old != nil {
			out.frameEvents = append(out.frameEvents, s.destroyTabLocked(w, old)...)
		}
	}
	w.tabs = make(map[schema.TabID]*tab, len(rebuilt))
	w.order = w.order[:0]
	for _, t := range rebuilt {
		w.tabs[t.ID] = t
		w.order = append(w.order, t.ID)
	}
	w.lastTabs = append([]schema.PodTabEntry(nil), cfg.Tabs...)
	w.services = append([]string(nil), cfg.Services...)
	if _, ok := w.tabs[w.active]; !ok {
		w.active = ""
		if len(w.order) > 0 {
			w.active = w.order[0]
		}
	}
	for _, t := range rebuilt {
		if t.processTab() {
			s.ensureNavLocked(w, t)
		}
		if t.KeepRendered || t.ID == w.active {
			out.frameEvents = append(out.frameEvents, s.ensureFrameLocked(w, t, t.ID == w.active)...)
		}
	}
	if active := w.tabs[w.active]; active != nil {
		if s.armCaptureLocked(w, active) {
			out.captureNow = true
			out.captureID = schema.FrameIDFor(active.ID)
		}
	}
	out.tabEvent = &schema.TabEvent{
		Slug:      w.slug,
		Type:      schema.TabEventRebuilt,
		Tabs:      s.snapshotTabsLocked(w),
		ActiveTab: w.active,
	}
	return out
}

func (s *service) buildWorkbenchLocked(slug schema.PodSlug, podID schema.PodID, cfg schema.PodConfig) *workbench {
	w := &workbench{
		slug:     slug,
		podID:    podID,
		tabs:     make(map[schema.TabID]*tab),
		frames:   make(map[schema.FrameID]*frame),
		navs:     make(map[schema.TabID]*navState),
		history:  make(map[schema.TabID]*addressHistory),
		shots:    make(map[schema.FrameID]*captureState),
		refresh:  make(map[schema.FrameID]*time.Timer),
		lastTabs: append([]schema.PodTabEntry(nil), cfg.Tabs...),
		services: append([]string(nil), cfg.Services...),
	}
	tabs := buildTabs(cfg)
	for _, t := range tabs {
		w.tabs[t.ID] = t
		w.order = append(w.order, t.ID)
	}
	if len(w.order) > 0 {
		w.active = w.order[0]
	}
	for _, t := range tabs {
		if t.processTab() {
			s.ensureNavLocked(w, t)
		}
		if t.KeepRendered || t.ID == w.active {
			s.ensureFrameLocked(w, t, t.ID == w.active)
		}
	}
	return w
}

func (s *service) teardownWorkbenchLocked(w *workbench) {
	if w.focusTimer != nil {
		w.focusTimer.Stop()
		w.focusTimer = nil
	}
	for frameID, timer := range w.refresh {
		timer.Stop()
		delete(w.refresh, frameID)
	}
	for frameID := range w.shots {
		s.clearCaptureLocked(w, frameID)
	}
}

// fetchPodConfig reads the pod record, falling back to the cached config
// when the control plane is unreachable. Malformed stored configurations
// degrade to the default editor+terminal pair instead of failing the open.
func (s *service) fetchPodConfig(ctx context.Context, log pslog.Logger, slug schema.PodSlug) (schema.PodID, schema.PodConfig, error) {
	pod, err := s.pods.GetPod(ctx, slug)
	if err != nil {
		log.Warn("pod fetch failed", "err", err)
		if s.cache != nil {
			snapshot, ok, cacheErr := s.cache.Load(slug)
			if cacheErr == nil && ok {
				log.Info("using cached pod config", "fetched_at", snapshot.FetchedAt)
				return snapshot.PodID, snapshot.Config, nil
			}
		}
		return "", schema.PodConfig{}, err
	}
	cfg, parseErr := schema.ParsePodConfig(pod.Config)
	if parseErr != nil {
		log.Warn("pod config malformed, using fallback", "err", parseErr)
		cfg = schema.DefaultPodConfig()
	}
	s.cacheConfig(log, slug, pod.ID, cfg)
	return pod.ID, cfg, nil
}

func (s *service) ensureNavLocked(w *workbench, t *tab) *navState {
	if !t.processTab() {
		return nil
	}
	nav := w.navs[t.ID]
	if nav == nil {
		nav = newNavState(t.Port, pathOfURL(t.CustomURL))
		w.navs[t.ID] = nav
	}
	return nav
}

func (s *service) ensureHistoryLocked(w *workbench, tabID schema.TabID) *addressHistory {
	hist := w.history[tabID]
	if hist == nil {
		hist = newAddressHistory(s.cfg.AddressHistoryMax)
		w.history[tabID] = hist
	}
	return hist
}

func (s *service) snapshotTabsLocked(w *workbench) []schema.TabSnapshot {
	tabs := make([]schema.TabSnapshot, 0, len(w.order))
	for _, id := range w.order {
		t := w.tabs[id]
		if t == nil {
			continue
		}
		tabs = append(tabs, t.Snapshot(id == w.active))
	}
	return tabs
}

func (s *service) snapshotWorkbenchLocked(w *workbench) schema.WorkbenchSnapshot {
	snapshot := schema.WorkbenchSnapshot{
		Slug:                w.slug,
		Tabs:                s.snapshotTabsLocked(w),
		ActiveTab:           w.active,
		AvailableServices:   availableServices(schema.PodConfig{Services: w.services}),
		ExistingServiceTabs: existingServiceTabs(w.orderedTabsLocked()),
	}
	for _, id := range w.order {
		frameID := schema.FrameIDFor(id)
		if f := w.frames[frameID]; f != nil {
			snapshot.Frames = append(snapshot.Frames, f.Snapshot())
		}
		if nav := w.navs[id]; nav != nil {
			snapshot.Navigations = append(snapshot.Navigations, nav.Snapshot(id))
		}
	}
	return snapshot
}

func (w *workbench) orderedTabsLocked() []*tab {
	tabs := make([]*tab, 0, len(w.order))
	for _, id := range w.order {
		if t := w.tabs[id]; t != nil {
			tabs = append(tabs, t)
		}
	}
	return tabs
}

func (w *workbench) tabByShortcutLocked(digit string) *tab {
	for _, id := range w.order {
		t := w.tabs[id]
		if t != nil && t.Shortcut == digit {
			return t
		}
	}
	return nil
}

// newTabFromRequest validates a create request into a runtime tab. Service
// tabs take their metadata from the template; custom tabs require a name
// and URL. A URL on a non-terminal service tab is dropped because it would
// not survive persistence.
func newTabFromRequest(req schema.CreateTabRequest) (*tab, error) {
	if req.Service != "" {
		template, ok := schema.LookupService(req.Service)
		if !ok {
			return nil, fmt.Errorf("%w: unknown service %q", schema.ErrInvalidRequest, req.Service)
		}
		label := template.DisplayName
		if trimmed := strings.TrimSpace(req.Name); trimmed != "" {
			label = schema.TabLabel(trimmed)
		}
		terminal := schema.TerminalService(template.Key)
		entryURL := ""
		if terminal {
			entryURL = req.URL
		}
		t := &tab{
			ID:           tabIDFor(string(label), template.Key, entryURL),
			Label:        label,
			Service:      template.Key,
			Port:         template.DefaultPort,
			Icon:         schema.IconForService(template.Key),
			KeepRendered: schema.KeepRenderedService(template.Key),
			Terminal:     terminal,
		}
		if terminal {
			t.ReturnURL = entryURL
		}
		return t, nil
	}
	name, err := schema.NormalizeTabName(req.Name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("%w: a custom tab needs a url", schema.ErrInvalidRequest)
	}
	return &tab{
		ID:        tabIDFor(name, "", req.URL),
		Label:     schema.TabLabel(name),
		CustomURL: req.URL,
		Port:      portFromURL(req.URL),
		Icon:      schema.IconForService(""),
	}, nil
}

func validOrder(w *workbench, order []schema.TabID) bool {
	if len(order) != len(w.order) {
		return false
	}
	seen := make(map[schema.TabID]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return false
		}
		if _, ok := w.tabs[id]; !ok {
			return false
		}
		seen[id] = true
	}
	return true
}

func removeTabID(order []schema.TabID, id schema.TabID) []schema.TabID {
	for i, current := range order {
		if current == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

func (s *service) proxyDomain() string {
	if s.cfg.LocalMode {
		return s.cfg.LocalBaseDomain
	}
	return s.cfg.BaseDomain
}

func (s *service) sendToFrame(slug schema.PodSlug, frameID schema.FrameID, msg schema.FrameMessage) error {
	if s.frames == nil {
		return schema.ErrFrameNotConnected
	}
	return s.frames.SendToFrame(context.Background(), slug, frameID, msg)
}

func (s *service) podLog(slug schema.PodSlug) pslog.Logger {
	return s.logger.With("pod", slug)
}

func (s *service) frameLog(slug schema.PodSlug, frameID schema.FrameID) pslog.Logger {
	return logx.WithFrame(s.podLog(slug), frameID)
}

func (s *service) emitTabEvent(event schema.TabEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnTabEvent(event)
}

func (s *service) emitFrameEvent(event schema.FrameEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnFrameEvent(event)
}

func (s *service) emitNavigationEvent(event schema.NavigationEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnNavigationEvent(event)
}

func (s *service) emitTerminalFocus(event schema.TerminalFocusEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnTerminalFocus(event)
}

func (s *service) emitNotice(event schema.NoticeEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnNotice(event)
}

func (s *service) emitScreenshotEvent(event schema.ScreenshotEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnScreenshotEvent(event)
}
