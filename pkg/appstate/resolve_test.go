package appstate

import (
	"bytes"
	"errors"
	"net/url"
	"testing"
)

func TestResolveURLWins(t *testing.T) {
	store := &MemStore{}
	if err := store.Save(State{Timezones: []TimezoneEntry{NewEntry("Asia/Tokyo")}}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	savesBefore := store.Saves

	values, _ := url.ParseQuery("tz0=Europe/London&format=24h")
	s := Resolve(values, store, DefaultState(), discard())

	if len(s.Timezones) != 1 || s.Timezones[0].ID != "Europe/London" || !s.Use24Hour {
		t.Errorf("resolved state = %+v, want the URL state", s)
	}
	// URL state is immediately mirrored into storage.
	if store.Saves != savesBefore+1 {
		t.Errorf("store.Saves = %d, want %d", store.Saves, savesBefore+1)
	}
	stored, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored.Timezones[0].ID != "Europe/London" {
		t.Errorf("stored state = %+v, want mirror of URL state", stored)
	}
}

func TestResolveStorageFallback(t *testing.T) {
	store := &MemStore{}
	if err := store.Save(State{Timezones: []TimezoneEntry{NewEntry("Asia/Tokyo")}, Use24Hour: true}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	s := Resolve(url.Values{}, store, DefaultState(), discard())
	if len(s.Timezones) != 1 || s.Timezones[0].ID != "Asia/Tokyo" || !s.Use24Hour {
		t.Errorf("resolved state = %+v, want the stored state", s)
	}
}

func TestResolveCorruptedBlobFallsThroughToDefaults(t *testing.T) {
	store := &MemStore{Blob: []byte(`{"timezones": [{"id": `)}

	s := Resolve(url.Values{}, store, DefaultState(), discard())
	if len(s.Timezones) != 5 {
		t.Fatalf("resolved %d zones, want the 5 defaults", len(s.Timezones))
	}
	// Both sinks are overwritten with the defaults: the store now holds a
	// parseable blob equal to them.
	stored, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored == nil || len(stored.Timezones) != 5 {
		t.Errorf("stored blob = %+v, want the defaults", stored)
	}
}

func TestResolveEmptyEverything(t *testing.T) {
	store := &MemStore{}
	s := Resolve(url.Values{}, store, DefaultState(), discard())
	if len(s.Timezones) != 5 {
		t.Errorf("resolved %d zones, want the 5 defaults", len(s.Timezones))
	}
	if store.Saves != 1 {
		t.Errorf("store.Saves = %d, want defaults written out", store.Saves)
	}
}

func TestResolveStoreFailureDegrades(t *testing.T) {
	store := &MemStore{FailLoad: errors.New("disk on fire"), FailSave: errors.New("still on fire")}
	s := Resolve(url.Values{}, store, DefaultState(), discard())
	if len(s.Timezones) != 5 {
		t.Errorf("resolved %d zones despite storage failure, want the 5 defaults", len(s.Timezones))
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	store := &MemStore{}
	s := DefaultState()
	if err := store.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first := append([]byte(nil), store.Blob...)
	if err := store.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !bytes.Equal(first, store.Blob) {
		t.Error("repeated save of unchanged state produced a different blob")
	}
}

func TestDefaultStateSpansAfricaAndUS(t *testing.T) {
	s := DefaultState()
	africa, us := 0, 0
	for _, e := range s.Timezones {
		switch {
		case len(e.ID) > 7 && e.ID[:7] == "Africa/":
			africa++
		case len(e.ID) > 8 && e.ID[:8] == "America/":
			us++
		}
	}
	if africa == 0 || us == 0 || africa+us != 5 {
		t.Errorf("defaults = %+v, want five zones spanning Africa and the continental US", s.Timezones)
	}
}
