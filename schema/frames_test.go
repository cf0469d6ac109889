package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFrameMessageNavigation(t *testing.T) {
	raw := `{"type":"pinacle-navigation","url":"http://localhost-3000-pod-otter.pinacle.dev/docs?page=2","pathname":"/docs","search":"?page=2","hash":""}`
	msg, err := ParseFrameMessage([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if msg.Type != FrameMessageNavigation {
		t.Fatalf("expected navigation, got %q", msg.Type)
	}
	if msg.Pathname != "/docs" || msg.Search != "?page=2" {
		t.Fatalf("unexpected fields: %+v", msg)
	}
}

func TestParseFrameMessageRejectsUnknownType(t *testing.T) {
	_, err := ParseFrameMessage([]byte(`{"type":"pinacle-selfdestruct"}`))
	if !errors.Is(err, ErrUnknownFrameMessage) {
		t.Fatalf("expected ErrUnknownFrameMessage, got %v", err)
	}
}

func TestParseFrameMessageRejectsMissingFields(t *testing.T) {
	cases := []string{
		`{"type":"pinacle-navigation"}`,
		`{"type":"pinacle-screenshot-captured","requestId":"r1"}`,
		`{"type":"pinacle-screenshot-error"}`,
		`{"type":"pinacle-keyboard-shortcut"}`,
		`not json`,
	}
	for _, raw := range cases {
		if _, err := ParseFrameMessage([]byte(raw)); !errors.Is(err, ErrInvalidFrameMessage) {
			t.Fatalf("raw %q: expected ErrInvalidFrameMessage, got %v", raw, err)
		}
	}
}

func TestParseFrameMessageRejectsHostCommands(t *testing.T) {
	_, err := ParseFrameMessage([]byte(`{"type":"pinacle-focus"}`))
	if !errors.Is(err, ErrInvalidFrameMessage) {
		t.Fatalf("expected host command rejection, got %v", err)
	}
}

func TestEncodeFrameMessage(t *testing.T) {
	data, err := EncodeFrameMessage(FrameMessage{
		Type:      FrameMessageCaptureScreenshot,
		RequestID: "req-1",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(data), `"pinacle-capture-screenshot"`) {
		t.Fatalf("unexpected wire form: %s", data)
	}
	if strings.Contains(string(data), "dataUrl") {
		t.Fatalf("empty fields must be omitted: %s", data)
	}
	if _, err := EncodeFrameMessage(FrameMessage{Type: FrameMessageNavigation, URL: "x"}); err == nil {
		t.Fatal("expected rejection of frame-to-host type")
	}
	if _, err := EncodeFrameMessage(FrameMessage{Type: FrameMessageCaptureScreenshot}); err == nil {
		t.Fatal("expected rejection of capture without requestId")
	}
}
