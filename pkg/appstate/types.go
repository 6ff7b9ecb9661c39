// Package appstate resolves and persists the user's configuration: the
// ordered timezone list and the display-format flag. Three sources compete
// at startup (shareable URL query, persisted blob, built-in defaults);
// after startup the in-memory state is the single source of truth and the
// two sinks are pure mirrors, rewritten synchronously on every mutation.
package appstate

import (
	"github.com/codeGROOVE-dev/tzalign/pkg/catalog"
)

// TimezoneEntry is one row of the user's configured list. Index 0 is the
// home zone, the alignment reference for every other row. Entries need not
// be unique by id — the same zone may appear twice under different custom
// labels — but (id, label) pairs are deduplicated on add.
type TimezoneEntry struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	CustomLabel string `json:"customLabel,omitempty"`
}

// NewEntry builds an entry with the default label derived from the id.
func NewEntry(id string) TimezoneEntry {
	return TimezoneEntry{ID: id, Label: catalog.DisplayLabel(id)}
}

// DisplayName returns the custom label when set, otherwise the default
// label.
func (e TimezoneEntry) DisplayName() string {
	if e.CustomLabel != "" {
		return e.CustomLabel
	}
	return e.Label
}

// State is the authoritative configuration: the ordered zone list plus the
// 24-hour display flag. The time-travel offset is deliberately absent —
// it is session-only and resets to zero on reload.
type State struct {
	Timezones []TimezoneEntry `json:"timezones"`
	Use24Hour bool            `json:"use24Hour"`
}

// clone returns a deep copy so callers can't alias controller internals.
func (s State) clone() State {
	out := State{Use24Hour: s.Use24Hour}
	out.Timezones = make([]TimezoneEntry, len(s.Timezones))
	copy(out.Timezones, s.Timezones)
	return out
}

// DefaultState returns the built-in five-zone list used when neither the
// URL nor the persisted blob yields any timezones.
func DefaultState() State {
	return State{
		Timezones: []TimezoneEntry{
			NewEntry("Africa/Lagos"),
			NewEntry("Africa/Nairobi"),
			NewEntry("America/New_York"),
			NewEntry("America/Chicago"),
			NewEntry("America/Los_Angeles"),
		},
	}
}
