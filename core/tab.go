package core

import "pkt.systems/pinacle/schema"

// tab tracks the runtime state of a single workbench tab. Everything here
// is recomputed from the pod configuration on rebuild; only the fields
// mirrored into schema.PodTabEntry survive persistence.
type tab struct {
	ID           schema.TabID
	Label        schema.TabLabel
	Service      schema.ServiceKey
	CustomURL    string
	ReturnURL    string
	Port         int
	Shortcut     string
	Icon         schema.TabIcon
	KeepRendered bool
	Terminal     bool
}

// processTab reports whether the tab is backed by a raw URL and therefore
// carries an address bar.
func (t *tab) processTab() bool {
	return t.Service == ""
}

// Snapshot returns a transport-friendly view of the tab.
func (t *tab) Snapshot(active bool) schema.TabSnapshot {
	return schema.TabSnapshot{
		ID:           t.ID,
		Label:        t.Label,
		Service:      t.Service,
		CustomURL:    t.CustomURL,
		ReturnURL:    t.ReturnURL,
		Port:         t.Port,
		Shortcut:     t.Shortcut,
		Icon:         t.Icon,
		KeepRendered: t.KeepRendered,
		Terminal:     t.Terminal,
		Active:       active,
	}
}
