package core

import (
	"context"

	"pkt.systems/pinacle/internal/logx"
	"pkt.systems/pinacle/schema"
)

// PressShortcut activates the tab whose shortcut matches the digit. Both
// entry paths land here: host-document chords posted by the UI and
// keyboard-shortcut messages forwarded by frame content. Digits without a
// matching tab are reported unhandled, not failed.
func (s *service) PressShortcut(ctx context.Context, req schema.PressShortcutRequest) (schema.PressShortcutResponse, error) {
	log := logx.WithPod(ctx, req.Slug)
	if !shortcutDigit(req.Digit) {
		log.Trace("service shortcut ignored", "digit", req.Digit)
		return schema.PressShortcutResponse{}, nil
	}

	s.mu.Lock()
	w := s.workbenches[req.Slug]
	if w == nil {
		s.mu.Unlock()
		log.Warn("service shortcut failed", "err", schema.ErrWorkbenchNotFound)
		return schema.PressShortcutResponse{}, schema.ErrWorkbenchNotFound
	}
	target := w.tabByShortcutLocked(req.Digit)
	if target == nil {
		s.mu.Unlock()
		log.Debug("service shortcut unmatched", "digit", req.Digit)
		return schema.PressShortcutResponse{}, nil
	}
	outcome := s.activateTabLocked(w, target)
	terminal := target.Terminal
	if !terminal {
		s.armFocusLocked(w, schema.FrameIDFor(target.ID))
	}
	snapshot := target.Snapshot(true)
	s.mu.Unlock()

	s.emitActivation(outcome)
	if terminal {
		s.emitTerminalFocus(schema.TerminalFocusEvent{Slug: req.Slug, TabID: target.ID, At: timeNow()})
	}
	log.Info("service shortcut activated tab", "digit", req.Digit, "tab", target.ID, "terminal", terminal)
	return schema.PressShortcutResponse{Handled: true, Tab: snapshot}, nil
}

func shortcutDigit(digit string) bool {
	if len(digit) != 1 {
		return false
	}
	return digit[0] >= '1' && digit[0] <= '9'
}

// armFocusLocked schedules the post-activation focus delivery. The delay
// gives conditionally rendered frames time to mount; a newer activation
// supersedes the pending one.
func (s *service) armFocusLocked(w *workbench, frameID schema.FrameID) {
	if w.focusTimer != nil {
		w.focusTimer.Stop()
	}
	slug := w.slug
	w.focusTarget = frameID
	w.focusTimer = afterFunc(s.cfg.FocusDelay, func() {
		s.deliverFocus(slug, frameID)
	})
}

func (s *service) deliverFocus(slug schema.PodSlug, frameID schema.FrameID) {
	s.mu.Lock()
	w := s.workbenches[slug]
	if w == nil {
		s.mu.Unlock()
		return
	}
	if w.focusTarget != frameID {
		s.mu.Unlock()
		return
	}
	w.focusTimer = nil
	w.focusTarget = ""
	f := w.frames[frameID]
	if f == nil || !f.Mounted || !f.Visible {
		s.mu.Unlock()
		return
	}
	snapshot := f.Snapshot()
	s.mu.Unlock()

	if err := s.sendToFrame(slug, frameID, schema.FrameMessage{Type: schema.FrameMessageFocus}); err != nil {
		s.frameLog(slug, frameID).Debug("focus send skipped", "err", err)
	}
	s.emitFrameEvent(schema.FrameEvent{Slug: slug, Type: schema.FrameEventFocus, Frame: snapshot})
}
