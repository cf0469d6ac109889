package schema

import "strings"

// Well-known service templates embeddable in a workbench tab.
const (
	// ServiceCodeServer is the browser editor.
	ServiceCodeServer ServiceKey = "code-server"
	// ServiceWebTerminal is the browser terminal multiplexer.
	ServiceWebTerminal ServiceKey = "web-terminal"
	// ServiceClaude is the Claude agent UI.
	ServiceClaude ServiceKey = "claude"
	// ServiceCodex is the Codex agent UI.
	ServiceCodex ServiceKey = "codex"
	// ServiceCursor is the Cursor agent UI.
	ServiceCursor ServiceKey = "cursor"
	// ServiceGemini is the Gemini agent UI.
	ServiceGemini ServiceKey = "gemini"
)

// TabIcon classifies a tab for display purposes.
type TabIcon string

const (
	// IconEditor marks editor tabs.
	IconEditor TabIcon = "editor"
	// IconTerminal marks terminal tabs.
	IconTerminal TabIcon = "terminal"
	// IconAgent marks AI agent session tabs.
	IconAgent TabIcon = "agent"
	// IconGlobe marks custom URL tabs.
	IconGlobe TabIcon = "globe"
)

// ServiceTemplate describes a well-known embeddable service.
type ServiceTemplate struct {
	Key         ServiceKey
	DisplayName TabLabel
	DefaultPort int
}

// LookupService resolves a service key against the template set. The second
// return is false for unknown keys; callers decide whether that is an error.
func LookupService(key ServiceKey) (ServiceTemplate, bool) {
	switch key {
	case ServiceCodeServer:
		return ServiceTemplate{Key: key, DisplayName: "Editor", DefaultPort: 8080}, true
	case ServiceWebTerminal:
		return ServiceTemplate{Key: key, DisplayName: "Terminal", DefaultPort: 7681}, true
	case ServiceClaude:
		return ServiceTemplate{Key: key, DisplayName: "Claude", DefaultPort: 4100}, true
	case ServiceCodex:
		return ServiceTemplate{Key: key, DisplayName: "Codex", DefaultPort: 4101}, true
	case ServiceCursor:
		return ServiceTemplate{Key: key, DisplayName: "Cursor", DefaultPort: 4102}, true
	case ServiceGemini:
		return ServiceTemplate{Key: key, DisplayName: "Gemini", DefaultPort: 4103}, true
	}
	return ServiceTemplate{}, false
}

// KnownServices lists every service template key in display order.
func KnownServices() []ServiceKey {
	return []ServiceKey{
		ServiceCodeServer,
		ServiceWebTerminal,
		ServiceClaude,
		ServiceCodex,
		ServiceCursor,
		ServiceGemini,
	}
}

// IconForService maps a service key to its icon. Unknown keys (including
// the empty key of custom tabs) render as a globe.
func IconForService(key ServiceKey) TabIcon {
	switch key {
	case ServiceCodeServer:
		return IconEditor
	case ServiceWebTerminal:
		return IconTerminal
	case ServiceClaude, ServiceCodex, ServiceCursor, ServiceGemini:
		return IconAgent
	}
	return IconGlobe
}

// keepRenderedMarkers are matched as substrings against the service key.
// Tabs hosting long-lived sessions must never be torn down on tab switch.
var keepRenderedMarkers = []string{"claude", "codex", "cursor", "gemini", "terminal"}

// KeepRenderedService reports whether frames for the given service key stay
// mounted across tab switches. The check is a substring match, so
// "web-terminal" qualifies while "code-server" does not.
func KeepRenderedService(key ServiceKey) bool {
	if key == "" {
		return false
	}
	lowered := strings.ToLower(string(key))
	for _, marker := range keepRenderedMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// TerminalService reports whether the service hosts the terminal
// sub-component, which consumes focus triggers instead of frame focus
// messages and restores sessions through a return URL.
func TerminalService(key ServiceKey) bool {
	return key == ServiceWebTerminal
}
