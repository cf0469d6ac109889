package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pkt.systems/pinacle/schema"
)

func TestVerifyFrameToken(t *testing.T) {
	env := newTestWorkbench(t, fullConfig)
	wb := env.open(t)
	editorFrame := frameFor(wb, wb.Tabs[0].ID)

	reg, ok := env.svc.(FrameRegistry)
	if !ok {
		t.Fatalf("service should implement FrameRegistry")
	}
	if err := reg.VerifyFrameToken(testSlug, editorFrame.ID, editorFrame.Token); err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if err := reg.VerifyFrameToken(testSlug, editorFrame.ID, "wrong"); !errors.Is(err, schema.ErrInvalidFrameToken) {
		t.Fatalf("expected ErrInvalidFrameToken, got %v", err)
	}
	if err := reg.VerifyFrameToken(testSlug, editorFrame.ID, ""); !errors.Is(err, schema.ErrInvalidFrameToken) {
		t.Fatalf("expected ErrInvalidFrameToken for empty token, got %v", err)
	}
	if err := reg.VerifyFrameToken(testSlug, "tab-ffffffff", editorFrame.Token); !errors.Is(err, schema.ErrInvalidFrameToken) {
		t.Fatalf("expected ErrInvalidFrameToken for unknown frame, got %v", err)
	}
	if err := reg.VerifyFrameToken("other-pod", editorFrame.ID, editorFrame.Token); !errors.Is(err, schema.ErrWorkbenchNotFound) {
		t.Fatalf("expected ErrWorkbenchNotFound, got %v", err)
	}
}

func TestVerifyFrameTokenRejectsUnmountedFrame(t *testing.T) {
	env := newTestWorkbench(t, fullConfig)
	wb := env.open(t)
	editorID, appID := wb.Tabs[0].ID, wb.Tabs[3].ID
	editorFrame := frameFor(wb, editorID)

	if _, err := env.svc.ActivateTab(context.Background(), schema.ActivateTabRequest{Slug: testSlug, TabID: appID}); err != nil {
		t.Fatalf("activate tab: %v", err)
	}
	reg := env.svc.(FrameRegistry)
	if err := reg.VerifyFrameToken(testSlug, editorFrame.ID, editorFrame.Token); !errors.Is(err, schema.ErrInvalidFrameToken) {
		t.Fatalf("a stale token must not attach after unmount, got %v", err)
	}
}

func TestFrameConnectionStateEmitsEvents(t *testing.T) {
	env := newTestWorkbench(t, fullConfig)
	wb := env.open(t)
	editorFrame := schema.FrameIDFor(wb.Tabs[0].ID)

	reg := env.svc.(FrameRegistry)
	reg.FrameConnected(context.Background(), testSlug, editorFrame)
	if f := frameFor(env.describe(t), wb.Tabs[0].ID); f == nil || !f.Connected {
		t.Fatalf("expected connected frame, got %+v", f)
	}
	// Repeat connects are quiet.
	reg.FrameConnected(context.Background(), testSlug, editorFrame)
	reg.FrameDisconnected(context.Background(), testSlug, editorFrame)
	if f := frameFor(env.describe(t), wb.Tabs[0].ID); f == nil || f.Connected {
		t.Fatalf("expected disconnected frame, got %+v", f)
	}

	var connects, disconnects int
	for _, event := range env.sink.frameEventsSeen() {
		switch event.Type {
		case schema.FrameEventConnected:
			connects++
		case schema.FrameEventDisconnected:
			disconnects++
		}
	}
	if connects != 1 || disconnects != 1 {
		t.Fatalf("expected 1 connect and 1 disconnect event, got %d and %d", connects, disconnects)
	}
}

func TestFrameSrcCarriesProxyQuery(t *testing.T) {
	env := newTestWorkbench(t, fullConfig)
	wb := env.open(t)

	editor := frameFor(wb, wb.Tabs[0].ID)
	if !strings.HasPrefix(editor.Src, "/api/proxy-auth?") {
		t.Fatalf("frame src should load through the proxy endpoint: %q", editor.Src)
	}
	if !strings.Contains(editor.Src, "pod=ardent-otter") || !strings.Contains(editor.Src, "port=8080") {
		t.Fatalf("editor src missing pod or port: %q", editor.Src)
	}
	if strings.Contains(editor.Src, "return_url") {
		t.Fatalf("editor src should have no return url: %q", editor.Src)
	}

	terminal := frameFor(wb, wb.Tabs[1].ID)
	if !strings.Contains(terminal.Src, "port=7681") || !strings.Contains(terminal.Src, "return_url=%2Fsession%2Fabc") {
		t.Fatalf("terminal src should restore its session: %q", terminal.Src)
	}
}

func TestCustomFrameSrcCarriesPath(t *testing.T) {
	env := newTestWorkbench(t, fullConfig)
	wb := env.open(t)
	appID := wb.Tabs[3].ID

	if _, err := env.svc.ActivateTab(context.Background(), schema.ActivateTabRequest{Slug: testSlug, TabID: appID}); err != nil {
		t.Fatalf("activate tab: %v", err)
	}
	app := frameFor(env.describe(t), appID)
	if app == nil || !strings.Contains(app.Src, "return_url=%2Fdash%3Fenv%3Ddev") {
		t.Fatalf("custom src should open at its configured path: %+v", app)
	}
}

func TestKeepRenderedFramesSurviveSwitches(t *testing.T) {
	env := newTestWorkbench(t, fullConfig)
	wb := env.open(t)
	editorID, terminalID, claudeID := wb.Tabs[0].ID, wb.Tabs[1].ID, wb.Tabs[2].ID
	terminalToken := frameFor(wb, terminalID).Token
	claudeToken := frameFor(wb, claudeID).Token

	// Walk the strip: editor, terminal, claude, editor again.
	for _, id := range []schema.TabID{terminalID, claudeID, editorID} {
		if _, err := env.svc.ActivateTab(context.Background(), schema.ActivateTabRequest{Slug: testSlug, TabID: id}); err != nil {
			t.Fatalf("activate %q: %v", id, err)
		}
	}
	desc := env.describe(t)
	if f := frameFor(desc, terminalID); f == nil || f.Token != terminalToken || f.Visible {
		t.Fatalf("terminal frame should keep its mount hidden: %+v", f)
	}
	if f := frameFor(desc, claudeID); f == nil || f.Token != claudeToken || f.Visible {
		t.Fatalf("claude frame should keep its mount hidden: %+v", f)
	}
	if f := frameFor(desc, editorID); f == nil || !f.Visible {
		t.Fatalf("editor frame should be visible: %+v", f)
	}

	var unmounts, visibility int
	for _, event := range env.sink.frameEventsSeen() {
		switch event.Type {
		case schema.FrameEventUnmounted:
			unmounts++
		case schema.FrameEventVisibility:
			visibility++
		}
	}
	// Only the editor frame ever unmounted (switching editor -> terminal).
	if unmounts != 1 {
		t.Fatalf("expected exactly one unmount, got %d", unmounts)
	}
	if visibility == 0 {
		t.Fatalf("expected visibility flips for keepRendered frames")
	}
}

func TestCloseTabDropsFrameState(t *testing.T) {
	env := newTestWorkbench(t, fullConfig)
	wb := env.open(t)
	terminalID := wb.Tabs[1].ID
	terminalFrame := frameFor(wb, terminalID)

	reg := env.svc.(FrameRegistry)
	if err := reg.VerifyFrameToken(testSlug, terminalFrame.ID, terminalFrame.Token); err != nil {
		t.Fatalf("verify token before close: %v", err)
	}
	if _, err := env.svc.CloseTab(context.Background(), schema.CloseTabRequest{Slug: testSlug, TabID: terminalID}); err != nil {
		t.Fatalf("close tab: %v", err)
	}
	if err := reg.VerifyFrameToken(testSlug, terminalFrame.ID, terminalFrame.Token); !errors.Is(err, schema.ErrInvalidFrameToken) {
		t.Fatalf("closed tab's token must not verify, got %v", err)
	}
	if f := frameFor(env.describe(t), terminalID); f != nil {
		t.Fatalf("closed tab should have no frame: %+v", f)
	}
}

func TestRenameRemountsUnderFreshToken(t *testing.T) {
	env := newTestWorkbench(t, fullConfig)
	wb := env.open(t)
	appID := wb.Tabs[3].ID

	if _, err := env.svc.ActivateTab(context.Background(), schema.ActivateTabRequest{Slug: testSlug, TabID: appID}); err != nil {
		t.Fatalf("activate tab: %v", err)
	}
	before := frameFor(env.describe(t), appID)
	if before == nil || !before.Mounted {
		t.Fatalf("expected mounted frame before rename")
	}

	renamed, err := env.svc.RenameTab(context.Background(), schema.RenameTabRequest{Slug: testSlug, TabID: appID, Name: "Admin"})
	if err != nil {
		t.Fatalf("rename tab: %v", err)
	}
	after := frameFor(env.describe(t), renamed.Tab.ID)
	if after == nil || !after.Mounted || !after.Visible {
		t.Fatalf("successor frame should be mounted visible: %+v", after)
	}
	if after.Token == before.Token {
		t.Fatalf("successor frame must carry a fresh token")
	}
	reg := env.svc.(FrameRegistry)
	if err := reg.VerifyFrameToken(testSlug, before.ID, before.Token); !errors.Is(err, schema.ErrInvalidFrameToken) {
		t.Fatalf("old frame token must not verify after rename, got %v", err)
	}
}
