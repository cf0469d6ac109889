package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PodTabEntry is one persisted tab in the pod's remote configuration. Only
// these three fields survive persistence; ids, shortcuts and icons are
// recomputed on every rebuild.
type PodTabEntry struct {
	Name    string `json:"name"`
	Service string `json:"service,omitempty"`
	URL     string `json:"url,omitempty"`
}

// PodConfig is the declarative workbench configuration stored with the pod.
type PodConfig struct {
	Tabs     []PodTabEntry `json:"tabs"`
	Services []string      `json:"services,omitempty"`
}

// ParsePodConfig decodes a raw pod configuration document. Callers fall
// back to DefaultPodConfig when parsing fails.
func ParsePodConfig(raw []byte) (PodConfig, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return PodConfig{}, fmt.Errorf("parse pod config: empty document")
	}
	var cfg PodConfig
	if err := json.Unmarshal([]byte(trimmed), &cfg); err != nil {
		return PodConfig{}, fmt.Errorf("parse pod config: %w", err)
	}
	return cfg, nil
}

// DefaultPodConfig is the hardcoded fallback applied when the stored
// configuration is malformed: one editor tab and one terminal tab.
func DefaultPodConfig() PodConfig {
	return PodConfig{
		Tabs: []PodTabEntry{
			{Name: "Editor", Service: string(ServiceCodeServer)},
			{Name: "Terminal", Service: string(ServiceWebTerminal)},
		},
		Services: []string{string(ServiceCodeServer), string(ServiceWebTerminal)},
	}
}

// TabEntries converts tab snapshots back into persistable entries,
// dropping all runtime-only fields.
func TabEntries(tabs []TabSnapshot) []PodTabEntry {
	entries := make([]PodTabEntry, 0, len(tabs))
	for _, tab := range tabs {
		entry := PodTabEntry{Name: string(tab.Label)}
		if tab.Service != "" {
			entry.Service = string(tab.Service)
		}
		if tab.Terminal {
			entry.URL = tab.ReturnURL
		} else if tab.CustomURL != "" {
			entry.URL = tab.CustomURL
		}
		entries = append(entries, entry)
	}
	return entries
}
