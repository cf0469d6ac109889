package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"pkt.systems/pinacle/schema"
)

func TestFrameSocketRejectsBadToken(t *testing.T) {
	registry := &fakeRegistry{verifyErr: schema.ErrInvalidFrameToken}
	ts := newFrameTestServer(t, &fakeService{}, registry)

	// The token check happens before the upgrade, so a plain GET sees the
	// HTTP error.
	resp, err := http.Get(ts.URL + "/api/frame?pod=brisk-otter&frame=frame-a&token=stale")
	if err != nil {
		t.Fatalf("frame get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a stale token, got %d", resp.StatusCode)
	}
	if connected, _ := registry.counts(); connected != 0 {
		t.Fatalf("rejected socket must not count as connected")
	}
}

func TestFrameSocketRoundTrip(t *testing.T) {
	service := &fakeService{}
	registry := &fakeRegistry{}
	hub := NewHub(16)
	cfg := Config{
		SessionCookie: "pinacle_session",
		SessionFile:   filepath.Join(t.TempDir(), "sessions.json"),
	}
	relay := NewFrameRelay()
	srv := NewServer(cfg, service, registry, &fakeAuthenticator{}, hub, relay)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := wsURL(ts) + "/api/frame?pod=brisk-otter&frame=frame-a&token=tok"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	waitFor(t, func() bool {
		connected, _ := registry.counts()
		return connected == 1
	}, "frame never registered as connected")
	if !relay.Connected("brisk-otter", "frame-a") {
		t.Fatalf("relay should report the frame connected")
	}

	// A host command replayed by a frame is dropped at the boundary. The
	// navigation report written after it proves the drop: messages on one
	// socket are handled in order, so when the report shows up as the only
	// inbound request the replay was rejected.
	bogus := `{"type":"pinacle-focus"}`
	if err := conn.Write(ctx, websocket.MessageText, []byte(bogus)); err != nil {
		t.Fatalf("write: %v", err)
	}
	report := `{"type":"pinacle-navigation","url":"http://localhost-3000-pod-brisk-otter.pinacle.dev/app","pathname":"/app","search":"","hash":""}`
	if err := conn.Write(ctx, websocket.MessageText, []byte(report)); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, func() bool {
		return len(service.inbound()) == 1
	}, "navigation report never reached the service")
	got := service.inbound()[0]
	if got.Slug != "brisk-otter" || got.FrameID != "frame-a" {
		t.Fatalf("unexpected inbound request: %+v", got)
	}
	if got.Message.Type != schema.FrameMessageNavigation || got.Message.Pathname != "/app" {
		t.Fatalf("unexpected inbound message: %+v", got.Message)
	}

	// Host to frame: the relay delivers a command over the same socket.
	err = relay.SendToFrame(ctx, "brisk-otter", "frame-a", schema.FrameMessage{
		Type:      schema.FrameMessageCaptureScreenshot,
		RequestID: "req-1",
	})
	if err != nil {
		t.Fatalf("send to frame: %v", err)
	}
	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if typ != websocket.MessageText {
		t.Fatalf("expected a text message, got %v", typ)
	}
	var command schema.FrameMessage
	if err := json.Unmarshal(data, &command); err != nil {
		t.Fatalf("decode command: %v", err)
	}
	if command.Type != schema.FrameMessageCaptureScreenshot || command.RequestID != "req-1" {
		t.Fatalf("unexpected command: %+v", command)
	}

	conn.Close(websocket.StatusNormalClosure, "done")
	waitFor(t, func() bool {
		_, disconnected := registry.counts()
		return disconnected == 1
	}, "frame never registered as disconnected")
	waitFor(t, func() bool {
		return !relay.Connected("brisk-otter", "frame-a")
	}, "relay kept the closed socket")
}

func TestFrameSocketSupersedesPreviousConnection(t *testing.T) {
	registry := &fakeRegistry{}
	service := &fakeService{}
	ts := newFrameTestServer(t, service, registry)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := wsURL(ts) + "/api/frame?pod=brisk-otter&frame=frame-a&token=tok"
	first, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("first dial: %v", err)
	}
	defer first.Close(websocket.StatusNormalClosure, "")
	waitFor(t, func() bool {
		connected, _ := registry.counts()
		return connected == 1
	}, "first socket never attached")

	second, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("second dial: %v", err)
	}
	defer second.Close(websocket.StatusNormalClosure, "")
	waitFor(t, func() bool {
		connected, _ := registry.counts()
		return connected == 2
	}, "second socket never attached")

	// The first socket is closed by the server with a policy violation.
	_, _, err = first.Read(ctx)
	if err == nil {
		t.Fatalf("expected the superseded socket to be closed")
	}
	if status := websocket.CloseStatus(err); status != websocket.StatusPolicyViolation {
		t.Fatalf("expected policy violation close, got %v (%v)", status, err)
	}

	// The superseded handler's teardown must not mark the frame
	// disconnected while the replacement socket is live.
	time.Sleep(50 * time.Millisecond)
	if _, disconnected := registry.counts(); disconnected != 0 {
		t.Fatalf("supersede must not emit a disconnect, got %d", disconnected)
	}

	second.Close(websocket.StatusNormalClosure, "done")
	waitFor(t, func() bool {
		_, disconnected := registry.counts()
		return disconnected == 1
	}, "replacement socket close never registered")
}

func TestSendToFrameWithoutSocket(t *testing.T) {
	relay := NewFrameRelay()
	err := relay.SendToFrame(context.Background(), "brisk-otter", "frame-a", schema.FrameMessage{
		Type: schema.FrameMessageFocus,
	})
	if !errors.Is(err, schema.ErrFrameNotConnected) {
		t.Fatalf("expected ErrFrameNotConnected, got %v", err)
	}
}

func TestSendToFrameRejectsFrameOriginatedTypes(t *testing.T) {
	relay := NewFrameRelay()
	err := relay.SendToFrame(context.Background(), "brisk-otter", "frame-a", schema.FrameMessage{
		Type: schema.FrameMessageNavigation,
		URL:  "http://localhost:3000/",
	})
	if err == nil || errors.Is(err, schema.ErrFrameNotConnected) {
		t.Fatalf("expected an encode rejection before the socket lookup, got %v", err)
	}
}

func TestFrameRelayDetachIsIdentityChecked(t *testing.T) {
	relay := NewFrameRelay()
	current := &frameConn{}
	relay.mu.Lock()
	relay.conns[frameKey{slug: "brisk-otter", frameID: "frame-a"}] = current
	relay.mu.Unlock()

	stale := &frameConn{}
	if relay.detach("brisk-otter", "frame-a", stale) {
		t.Fatalf("stale conn must not detach the current one")
	}
	if !relay.Connected("brisk-otter", "frame-a") {
		t.Fatalf("frame should still be connected")
	}
	if !relay.detach("brisk-otter", "frame-a", current) {
		t.Fatalf("current conn should detach")
	}
	if relay.Connected("brisk-otter", "frame-a") {
		t.Fatalf("frame should be disconnected after detach")
	}
}

func newFrameTestServer(t *testing.T, service *fakeService, registry *fakeRegistry) *httptest.Server {
	t.Helper()
	hub := NewHub(16)
	cfg := Config{
		SessionCookie: "pinacle_session",
		SessionFile:   filepath.Join(t.TempDir(), "sessions.json"),
	}
	srv := NewServer(cfg, service, registry, &fakeAuthenticator{}, hub, NewFrameRelay())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func waitFor(t *testing.T, predicate func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if predicate() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%s", message)
}
