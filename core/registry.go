package core

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"pkt.systems/pinacle/schema"
)

var portPattern = regexp.MustCompile(`:(\d+)`)

// buildTabs transforms the pod's declarative tab configuration into the
// runtime tab list, in configuration order. Entries whose service reference
// does not resolve are skipped without a signal; that matches the behavior
// the proxied clients rely on today, so tests pin it down instead of the
// registry fixing it.
func buildTabs(cfg schema.PodConfig) []*tab {
	tabs := make([]*tab, 0, len(cfg.Tabs))
	for _, entry := range cfg.Tabs {
		if entry.Service != "" {
			template, ok := schema.LookupService(schema.ServiceKey(entry.Service))
			if !ok {
				continue
			}
			label := labelForEntry(entry.Name, template.DisplayName)
			t := &tab{
				ID:           tabIDFor(string(label), template.Key, entry.URL),
				Label:        label,
				Service:      template.Key,
				Port:         template.DefaultPort,
				Icon:         schema.IconForService(template.Key),
				KeepRendered: schema.KeepRenderedService(template.Key),
				Terminal:     schema.TerminalService(template.Key),
			}
			if t.Terminal {
				t.ReturnURL = entry.URL
			}
			tabs = append(tabs, t)
			continue
		}
		tabs = append(tabs, &tab{
			ID:           tabIDFor(entry.Name, "", entry.URL),
			Label:        schema.TabLabel(entry.Name),
			CustomURL:    entry.URL,
			Port:         portFromURL(entry.URL),
			Icon:         schema.IconForService(""),
			KeepRendered: false,
		})
	}
	assignShortcuts(tabs)
	return tabs
}

func labelForEntry(name string, fallback schema.TabLabel) schema.TabLabel {
	if strings.TrimSpace(name) != "" {
		return schema.TabLabel(name)
	}
	return fallback
}

// assignShortcuts numbers tabs "1".."N" by list position. Called on rebuild,
// create and delete; never on drag-reorder, so a dragged tab keeps the
// shortcut it had.
func assignShortcuts(tabs []*tab) {
	for i, t := range tabs {
		t.Shortcut = strconv.Itoa(i + 1)
	}
}

// portFromURL extracts the serving port from a custom tab URL: standard URL
// parsing first, then a bare ":<digits>" scan, then the default.
func portFromURL(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return schema.DefaultPort
	}
	if parsed, err := url.Parse(trimmed); err == nil {
		if port := parsed.Port(); port != "" {
			if n, err := strconv.Atoi(port); err == nil && n > 0 {
				return n
			}
		}
	}
	if match := portPattern.FindStringSubmatch(trimmed); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil && n > 0 {
			return n
		}
	}
	return schema.DefaultPort
}

// availableServices filters the pod's declared service keys down to known
// templates, preserving declaration order.
func availableServices(cfg schema.PodConfig) []schema.ServiceKey {
	keys := make([]schema.ServiceKey, 0, len(cfg.Services))
	for _, raw := range cfg.Services {
		key := schema.ServiceKey(raw)
		if _, ok := schema.LookupService(key); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// existingServiceTabs lists the services already bound to a tab, for the
// add-tab picker to exclude.
func existingServiceTabs(tabs []*tab) []schema.ServiceKey {
	keys := make([]schema.ServiceKey, 0, len(tabs))
	seen := make(map[schema.ServiceKey]bool, len(tabs))
	for _, t := range tabs {
		if t.Service == "" || seen[t.Service] {
			continue
		}
		seen[t.Service] = true
		keys = append(keys, t.Service)
	}
	return keys
}
