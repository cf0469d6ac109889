package schema

import (
	"encoding/json"
	"fmt"
)

// FrameMessageType is the tag of a cross-frame protocol message. The wire
// strings are fixed by the script injected into proxied frame content and
// must never change.
type FrameMessageType string

// Host to frame commands.
const (
	// FrameMessageCaptureScreenshot requests a screenshot of the frame's
	// visible content, correlated by RequestID.
	FrameMessageCaptureScreenshot FrameMessageType = "pinacle-capture-screenshot"
	// FrameMessageNavigationBack requests frame-native back navigation.
	FrameMessageNavigationBack FrameMessageType = "pinacle-navigation-back"
	// FrameMessageNavigationForward requests frame-native forward navigation.
	FrameMessageNavigationForward FrameMessageType = "pinacle-navigation-forward"
	// FrameMessageFocus asks the frame content to take keyboard focus.
	FrameMessageFocus FrameMessageType = "pinacle-focus"
	// FrameMessageSourceControlView asks an editor frame to open its
	// source control view.
	FrameMessageSourceControlView FrameMessageType = "pinacle-source-control-view"
	// FrameMessageNavigate asks the frame to redirect itself to URL.
	FrameMessageNavigate FrameMessageType = "pinacle-navigate"
)

// Frame to host events.
const (
	// FrameMessageNavigation reports a navigation the frame performed.
	FrameMessageNavigation FrameMessageType = "pinacle-navigation"
	// FrameMessageScreenshotCaptured carries a capture result.
	FrameMessageScreenshotCaptured FrameMessageType = "pinacle-screenshot-captured"
	// FrameMessageScreenshotError reports a failed capture.
	FrameMessageScreenshotError FrameMessageType = "pinacle-screenshot-error"
	// FrameMessageKeyboardShortcut forwards a modifier+digit chord the
	// frame content intercepted.
	FrameMessageKeyboardShortcut FrameMessageType = "pinacle-keyboard-shortcut"
)

// FrameMessage is the tagged union for every cross-frame protocol message.
// Unused fields stay empty and are omitted on the wire.
type FrameMessage struct {
	Type      FrameMessageType `json:"type"`
	RequestID string           `json:"requestId,omitempty"`
	URL       string           `json:"url,omitempty"`
	Pathname  string           `json:"pathname,omitempty"`
	Search    string           `json:"search,omitempty"`
	Hash      string           `json:"hash,omitempty"`
	DataURL   string           `json:"dataUrl,omitempty"`
	Error     string           `json:"error,omitempty"`
	Key       string           `json:"key,omitempty"`
}

// FromFrame reports whether the message type originates in frame content.
func (m FrameMessage) FromFrame() bool {
	switch m.Type {
	case FrameMessageNavigation, FrameMessageScreenshotCaptured,
		FrameMessageScreenshotError, FrameMessageKeyboardShortcut:
		return true
	}
	return false
}

// Validate checks the per-type required fields.
func (m FrameMessage) Validate() error {
	switch m.Type {
	case FrameMessageCaptureScreenshot:
		if m.RequestID == "" {
			return fmt.Errorf("%w: capture without requestId", ErrInvalidFrameMessage)
		}
	case FrameMessageNavigate:
		if m.URL == "" {
			return fmt.Errorf("%w: navigate without url", ErrInvalidFrameMessage)
		}
	case FrameMessageNavigationBack, FrameMessageNavigationForward,
		FrameMessageFocus, FrameMessageSourceControlView:
	case FrameMessageNavigation:
		if m.URL == "" {
			return fmt.Errorf("%w: navigation without url", ErrInvalidFrameMessage)
		}
	case FrameMessageScreenshotCaptured:
		if m.RequestID == "" || m.DataURL == "" {
			return fmt.Errorf("%w: capture result without requestId or dataUrl", ErrInvalidFrameMessage)
		}
	case FrameMessageScreenshotError:
		if m.RequestID == "" {
			return fmt.Errorf("%w: capture error without requestId", ErrInvalidFrameMessage)
		}
	case FrameMessageKeyboardShortcut:
		if m.Key == "" {
			return fmt.Errorf("%w: shortcut without key", ErrInvalidFrameMessage)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrameMessage, m.Type)
	}
	return nil
}

// ParseFrameMessage decodes and validates a message arriving from frame
// content. Host-to-frame command types are rejected here so a frame cannot
// replay commands back at the host.
func ParseFrameMessage(raw []byte) (FrameMessage, error) {
	var msg FrameMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return FrameMessage{}, fmt.Errorf("%w: %v", ErrInvalidFrameMessage, err)
	}
	if err := msg.Validate(); err != nil {
		return FrameMessage{}, err
	}
	if !msg.FromFrame() {
		return FrameMessage{}, fmt.Errorf("%w: %q is host to frame", ErrInvalidFrameMessage, msg.Type)
	}
	return msg, nil
}

// EncodeFrameMessage validates and marshals a host-to-frame command.
func EncodeFrameMessage(msg FrameMessage) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if msg.FromFrame() {
		return nil, fmt.Errorf("%w: %q is frame to host", ErrInvalidFrameMessage, msg.Type)
	}
	return json.Marshal(msg)
}
