package core

import "strings"

const defaultAddressHistoryMax = 50

// addressHistory records the addresses submitted through a process tab's
// address bar, deduping consecutive repeats and dropping the oldest entries
// past the cap.
type addressHistory struct {
	entries []string
	max     int
}

func newAddressHistory(max int) *addressHistory {
	if max <= 0 {
		max = defaultAddressHistoryMax
	}
	return &addressHistory{max: max}
}

func (h *addressHistory) Append(entry string) bool {
	if h == nil {
		return false
	}
	if strings.TrimSpace(entry) == "" {
		return false
	}
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		return false
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	return true
}

func (h *addressHistory) Entries() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.entries...)
}
