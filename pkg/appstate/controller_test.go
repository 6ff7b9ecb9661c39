package appstate

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func newTestController(zones ...string) (*Controller, *MemStore) {
	entries := make([]TimezoneEntry, 0, len(zones))
	for _, z := range zones {
		entries = append(entries, NewEntry(z))
	}
	store := &MemStore{}
	return NewController(State{Timezones: entries}, store, discard()), store
}

func TestControllerWriteThrough(t *testing.T) {
	ctrl, store := newTestController("America/New_York")

	ctrl.Add(NewEntry("Asia/Kolkata"))
	if store.Saves != 1 {
		t.Errorf("store.Saves = %d after Add, want 1", store.Saves)
	}
	// Both sinks reflect the mutation in the same operation.
	values, err := url.ParseQuery(ctrl.ShareQuery())
	if err != nil {
		t.Fatalf("ShareQuery did not parse: %v", err)
	}
	if values.Get("tz1") != "Asia/Kolkata" {
		t.Errorf("share query = %q, want tz1=Asia/Kolkata", ctrl.ShareQuery())
	}
	stored, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(stored.Timezones) != 2 {
		t.Errorf("stored %d zones, want 2", len(stored.Timezones))
	}
}

func TestControllerAddDeduplicates(t *testing.T) {
	ctrl, _ := newTestController("America/New_York")

	if !ctrl.Add(NewEntry("Asia/Kolkata")) {
		t.Fatal("first add refused")
	}
	if ctrl.Add(NewEntry("Asia/Kolkata")) {
		t.Error("duplicate (id, label) pair was added")
	}
	// Same zone under a different custom label is a distinct row.
	dup := NewEntry("Asia/Kolkata")
	dup.CustomLabel = "Bangalore office"
	if !ctrl.Add(dup) {
		t.Error("same zone with a differing custom label was refused")
	}
	if got := len(ctrl.State().Timezones); got != 3 {
		t.Errorf("list has %d rows, want 3", got)
	}
}

func TestControllerMoveChangesHome(t *testing.T) {
	ctrl, _ := newTestController("America/New_York", "Asia/Kolkata", "Europe/London")

	ctrl.Move(2, 0)
	s := ctrl.State()
	want := []string{"Europe/London", "America/New_York", "Asia/Kolkata"}
	for i, id := range want {
		if s.Timezones[i].ID != id {
			t.Fatalf("after Move(2,0): index %d = %s, want %s", i, s.Timezones[i].ID, id)
		}
	}
	if got := ctrl.HomeZone().String(); got != "Europe/London" {
		t.Errorf("HomeZone() = %s, want Europe/London", got)
	}

	// Out-of-range moves are ignored.
	ctrl.Move(0, 9)
	if ctrl.State().Timezones[0].ID != "Europe/London" {
		t.Error("out-of-range Move mutated the list")
	}
}

func TestControllerRemove(t *testing.T) {
	ctrl, _ := newTestController("America/New_York", "Asia/Kolkata")
	ctrl.Remove(0)
	s := ctrl.State()
	if len(s.Timezones) != 1 || s.Timezones[0].ID != "Asia/Kolkata" {
		t.Errorf("after Remove(0): %+v", s.Timezones)
	}
	ctrl.Remove(5) // ignored
	if len(ctrl.State().Timezones) != 1 {
		t.Error("out-of-range Remove mutated the list")
	}
}

func TestControllerSetCustomLabel(t *testing.T) {
	ctrl, _ := newTestController("America/New_York")
	ctrl.SetCustomLabel(0, "East coast")
	if got := ctrl.State().Timezones[0].DisplayName(); got != "East coast" {
		t.Errorf("DisplayName = %q, want East coast", got)
	}
	ctrl.SetCustomLabel(0, "")
	if got := ctrl.State().Timezones[0].DisplayName(); got != "New York" {
		t.Errorf("DisplayName after clearing = %q, want New York", got)
	}
}

func TestControllerFormatToggleSkipsNoOp(t *testing.T) {
	ctrl, store := newTestController("America/New_York")
	ctrl.SetUse24Hour(true)
	if store.Saves != 1 {
		t.Fatalf("store.Saves = %d, want 1", store.Saves)
	}
	ctrl.SetUse24Hour(true)
	if store.Saves != 1 {
		t.Errorf("no-op format toggle wrote to the store")
	}
}

func TestControllerStorageFailureDoesNotBlockMutation(t *testing.T) {
	store := &MemStore{FailSave: errors.New("quota exceeded")}
	ctrl := NewController(State{Timezones: []TimezoneEntry{NewEntry("UTC")}}, store, discard())

	ctrl.Add(NewEntry("Asia/Tokyo"))
	if got := len(ctrl.State().Timezones); got != 2 {
		t.Errorf("in-memory state has %d zones after failed save, want 2", got)
	}
}

func TestControllerHomeZoneFallback(t *testing.T) {
	ctrl, _ := newTestController()
	if got := ctrl.HomeZone(); got != time.Local {
		t.Errorf("HomeZone() with empty list = %v, want the host local zone", got)
	}
}

func TestControllerStateIsACopy(t *testing.T) {
	ctrl, _ := newTestController("America/New_York")
	s := ctrl.State()
	s.Timezones[0].ID = "Mars/Olympus_Mons"
	if ctrl.State().Timezones[0].ID != "America/New_York" {
		t.Error("State() exposed controller internals")
	}
}
