package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"pkt.systems/pinacle/podapi"
	"pkt.systems/pinacle/schema"
	"pkt.systems/pslog"
)

// captureState is the per-frame screenshot bookkeeping. It survives frame
// remounts (tab switches) and is cleared only when the tab itself goes away,
// so the capture interval holds across rapid activate/deactivate cycles.
type captureState struct {
	lastCapture     time.Time
	capturedInitial bool
	inflightID      string
	inflightPort    int
	inflightPath    string
	warmup          *time.Timer
	timeout         *time.Timer
}

// armCaptureLocked decides whether activating (or refocusing) the tab should
// lead to a capture. First activation arms the warm-up timer; later ones
// report true when the per-frame interval has elapsed, and the caller fires
// the capture after releasing the lock.
func (s *service) armCaptureLocked(w *workbench, t *tab) bool {
	if !t.processTab() {
		return false
	}
	frameID := schema.FrameIDFor(t.ID)
	f := w.frames[frameID]
	if f == nil || !f.Mounted {
		return false
	}
	state := w.shots[frameID]
	if state == nil {
		state = &captureState{}
		w.shots[frameID] = state
	}
	if state.inflightID != "" {
		return false
	}
	if !state.capturedInitial {
		if state.warmup == nil {
			slug := w.slug
			state.warmup = afterFunc(s.cfg.ScreenshotWarmup, func() {
				s.captureAfterWarmup(slug, frameID)
			})
		}
		return false
	}
	return timeNow().Sub(state.lastCapture) >= s.cfg.ScreenshotInterval
}

// cancelWarmupLocked stops a pending warm-up when its frame stops being the
// visible one. The rest of the tracking state stays.
func (s *service) cancelWarmupLocked(w *workbench, frameID schema.FrameID) {
	state := w.shots[frameID]
	if state == nil || state.warmup == nil {
		return
	}
	state.warmup.Stop()
	state.warmup = nil
}

// clearCaptureLocked drops all tracking for a destroyed frame id.
func (s *service) clearCaptureLocked(w *workbench, frameID schema.FrameID) {
	state := w.shots[frameID]
	if state == nil {
		return
	}
	if state.warmup != nil {
		state.warmup.Stop()
	}
	if state.timeout != nil {
		state.timeout.Stop()
	}
	delete(w.shots, frameID)
}

func (s *service) captureAfterWarmup(slug schema.PodSlug, frameID schema.FrameID) {
	s.mu.Lock()
	w := s.workbenches[slug]
	if w == nil {
		s.mu.Unlock()
		return
	}
	state := w.shots[frameID]
	if state == nil {
		s.mu.Unlock()
		return
	}
	state.warmup = nil
	s.mu.Unlock()
	s.fireCapture(slug, frameID)
}

// fireCapture posts a capture request into the frame and arms the reply
// timeout. At most one request is in flight per frame.
func (s *service) fireCapture(slug schema.PodSlug, frameID schema.FrameID) {
	log := s.frameLog(slug, frameID)
	s.mu.Lock()
	w := s.workbenches[slug]
	if w == nil {
		s.mu.Unlock()
		return
	}
	f := w.frames[frameID]
	if f == nil || !f.Mounted {
		s.mu.Unlock()
		return
	}
	t := w.tabs[f.TabID]
	if t == nil {
		s.mu.Unlock()
		return
	}
	state := w.shots[frameID]
	if state == nil {
		state = &captureState{}
		w.shots[frameID] = state
	}
	if state.inflightID != "" {
		s.mu.Unlock()
		return
	}
	port := t.Port
	path := "/"
	if nav := w.navs[t.ID]; nav != nil {
		port = nav.currentPort
		path = strings.TrimPrefix(nav.displayURL, fmt.Sprintf("localhost:%d", nav.currentPort))
		if path == "" {
			path = "/"
		}
	}
	requestID := uuid.NewString()
	state.inflightID = requestID
	state.inflightPort = port
	state.inflightPath = path
	state.capturedInitial = true
	state.timeout = afterFunc(s.cfg.CaptureTimeout, func() {
		s.captureTimedOut(slug, frameID, requestID)
	})
	s.mu.Unlock()

	err := s.sendToFrame(slug, frameID, schema.FrameMessage{
		Type:      schema.FrameMessageCaptureScreenshot,
		RequestID: requestID,
	})
	if err != nil {
		log.Warn("screenshot request send failed", "err", err)
		s.abortCapture(slug, frameID, requestID)
		return
	}
	log.Debug("screenshot requested", "request", requestID)
	s.emitScreenshotEvent(schema.ScreenshotEvent{
		Slug:      slug,
		Type:      schema.ScreenshotRequested,
		FrameID:   frameID,
		RequestID: requestID,
	})
}

func (s *service) captureTimedOut(slug schema.PodSlug, frameID schema.FrameID, requestID string) {
	if !s.abortCapture(slug, frameID, requestID) {
		return
	}
	s.frameLog(slug, frameID).Warn("screenshot capture timed out", "request", requestID)
	s.emitScreenshotEvent(schema.ScreenshotEvent{
		Slug:      slug,
		Type:      schema.ScreenshotFailed,
		FrameID:   frameID,
		RequestID: requestID,
	})
}

// abortCapture clears the in-flight marker if requestID still owns it. The
// last-capture timestamp is not advanced, so the next activation retries.
func (s *service) abortCapture(slug schema.PodSlug, frameID schema.FrameID, requestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.workbenches[slug]
	if w == nil {
		return false
	}
	state := w.shots[frameID]
	if state == nil || state.inflightID != requestID {
		return false
	}
	if state.timeout != nil {
		state.timeout.Stop()
		state.timeout = nil
	}
	state.inflightID = ""
	return true
}

// handleScreenshotCaptured correlates a capture reply with the in-flight
// request and hands the image off for upload. Stale replies are dropped.
func (s *service) handleScreenshotCaptured(slug schema.PodSlug, frameID schema.FrameID, msg schema.FrameMessage) {
	log := s.frameLog(slug, frameID)
	s.mu.Lock()
	w := s.workbenches[slug]
	if w == nil {
		s.mu.Unlock()
		return
	}
	state := w.shots[frameID]
	if state == nil || state.inflightID != msg.RequestID {
		s.mu.Unlock()
		log.Trace("stale screenshot reply dropped", "request", msg.RequestID)
		return
	}
	if state.timeout != nil {
		state.timeout.Stop()
		state.timeout = nil
	}
	state.inflightID = ""
	state.lastCapture = timeNow()
	upload := podapi.ScreenshotUpload{
		PodID:        w.podID,
		Port:         state.inflightPort,
		Path:         state.inflightPath,
		ImageDataURL: msg.DataURL,
	}
	s.mu.Unlock()

	go s.uploadScreenshot(log, slug, frameID, msg.RequestID, upload)
}

func (s *service) uploadScreenshot(log pslog.Logger, slug schema.PodSlug, frameID schema.FrameID, requestID string, upload podapi.ScreenshotUpload) {
	if err := s.pods.UploadScreenshot(context.Background(), upload); err != nil {
		log.Warn("screenshot upload failed", "request", requestID, "err", err)
		s.emitScreenshotEvent(schema.ScreenshotEvent{
			Slug:      slug,
			Type:      schema.ScreenshotFailed,
			FrameID:   frameID,
			RequestID: requestID,
		})
		return
	}
	log.Debug("screenshot uploaded", "request", requestID, "port", upload.Port, "path", upload.Path)
	s.emitScreenshotEvent(schema.ScreenshotEvent{
		Slug:      slug,
		Type:      schema.ScreenshotUploaded,
		FrameID:   frameID,
		RequestID: requestID,
	})
}

func (s *service) handleScreenshotError(slug schema.PodSlug, frameID schema.FrameID, msg schema.FrameMessage) {
	if !s.abortCapture(slug, frameID, msg.RequestID) {
		s.frameLog(slug, frameID).Trace("stale screenshot error dropped", "request", msg.RequestID)
		return
	}
	s.frameLog(slug, frameID).Warn("screenshot capture failed", "request", msg.RequestID, "frame_error", msg.Error)
	s.emitScreenshotEvent(schema.ScreenshotEvent{
		Slug:      slug,
		Type:      schema.ScreenshotFailed,
		FrameID:   frameID,
		RequestID: msg.RequestID,
	})
}
