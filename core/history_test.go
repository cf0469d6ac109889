package core

import "testing"

func TestAddressHistoryAppend(t *testing.T) {
	h := newAddressHistory(0)
	if !h.Append("localhost:8080/") {
		t.Fatalf("first entry should append")
	}
	if h.Append("localhost:8080/") {
		t.Fatalf("consecutive repeat should be dropped")
	}
	if !h.Append("localhost:8080/two") {
		t.Fatalf("new entry should append")
	}
	if !h.Append("localhost:8080/") {
		t.Fatalf("non-consecutive repeat should append")
	}
	got := h.Entries()
	want := []string{"localhost:8080/", "localhost:8080/two", "localhost:8080/"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddressHistoryRejectsBlank(t *testing.T) {
	h := newAddressHistory(0)
	if h.Append("") || h.Append("   ") {
		t.Fatalf("blank entries should be rejected")
	}
	if len(h.Entries()) != 0 {
		t.Fatalf("expected empty history, got %v", h.Entries())
	}
}

func TestAddressHistoryTrimsToCap(t *testing.T) {
	h := newAddressHistory(3)
	for _, entry := range []string{"a", "b", "c", "d", "e"} {
		h.Append(entry)
	}
	got := h.Entries()
	if len(got) != 3 || got[0] != "c" || got[2] != "e" {
		t.Fatalf("expected last 3 entries kept, got %v", got)
	}
}

func TestAddressHistoryNilReceiver(t *testing.T) {
	var h *addressHistory
	if h.Append("x") {
		t.Fatalf("nil history should reject appends")
	}
	if h.Entries() != nil {
		t.Fatalf("nil history should list nothing")
	}
}

func TestAddressHistoryEntriesIsACopy(t *testing.T) {
	h := newAddressHistory(0)
	h.Append("one")
	got := h.Entries()
	got[0] = "mutated"
	if h.Entries()[0] != "one" {
		t.Fatalf("Entries must return a copy")
	}
}
