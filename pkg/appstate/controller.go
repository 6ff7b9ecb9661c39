package appstate

import (
	"log/slog"
	"sync"
	"time"
)

// Controller owns the in-memory state and is the only writer of the two
// sinks. Every structural mutation re-encodes the share query and saves
// the store synchronously in the same operation; there is no deferred
// persistence and no post-startup conflict resolution between sinks. A
// failed save is logged and never blocks the in-memory mutation.
type Controller struct {
	mu     sync.Mutex
	state  State
	share  string
	store  Store
	logger *slog.Logger
}

// NewController wraps an already-resolved state. The share query is
// encoded immediately so both sinks reflect the resolved state.
func NewController(state State, store Store, logger *slog.Logger) *Controller {
	c := &Controller{state: state.clone(), store: store, logger: logger}
	c.share = EncodeQuery(c.state).Encode()
	return c
}

// State returns a copy of the current configuration.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// ShareQuery returns the canonical URL query encoding of the current
// state — the shareable-link sink.
func (c *Controller) ShareQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.share
}

// HomeZone loads the location of the entry at index 0. With an empty list
// it falls back to the host's local zone so anchor computation always has
// a reference.
func (c *Controller) HomeZone() *time.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.state.Timezones) == 0 {
		return time.Local
	}
	loc, err := time.LoadLocation(c.state.Timezones[0].ID)
	if err != nil {
		c.logger.Warn("home zone failed to load, falling back to local", "id", c.state.Timezones[0].ID, "error", err)
		return time.Local
	}
	return loc
}

// Add appends an entry for the given zone id. Duplicate (id, label) pairs
// are dropped; adding the same zone again with a differing custom label is
// allowed. It reports whether the entry was added.
func (c *Controller) Add(entry TimezoneEntry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.state.Timezones {
		if existing.ID == entry.ID && existing.DisplayName() == entry.DisplayName() {
			return false
		}
	}
	c.state.Timezones = append(c.state.Timezones, entry)
	c.writeThrough()
	return true
}

// Remove deletes the entry at index i. Out-of-range indexes are ignored.
func (c *Controller) Remove(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.state.Timezones) {
		return
	}
	c.state.Timezones = append(c.state.Timezones[:i], c.state.Timezones[i+1:]...)
	c.writeThrough()
}

// Move relocates the entry at index from to index to, shifting the rows in
// between. Moving to or from index 0 changes the home zone.
func (c *Controller) Move(from, to int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.state.Timezones)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	entry := c.state.Timezones[from]
	rest := append(c.state.Timezones[:from], c.state.Timezones[from+1:]...)
	c.state.Timezones = append(rest[:to], append([]TimezoneEntry{entry}, rest[to:]...)...)
	c.writeThrough()
}

// SetCustomLabel overrides the display label of the entry at index i. An
// empty label clears the override.
func (c *Controller) SetCustomLabel(i int, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.state.Timezones) {
		return
	}
	c.state.Timezones[i].CustomLabel = label
	c.writeThrough()
}

// SetUse24Hour toggles the display format.
func (c *Controller) SetUse24Hour(use24h bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Use24Hour == use24h {
		return
	}
	c.state.Use24Hour = use24h
	c.writeThrough()
}

// ReplaceAll swaps in a whole new configuration, used when loading a
// shared link over an existing session.
func (c *Controller) ReplaceAll(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state.clone()
	c.writeThrough()
}

// writeThrough mirrors the state into both sinks. Callers hold c.mu.
func (c *Controller) writeThrough() {
	c.share = EncodeQuery(c.state).Encode()
	if err := c.store.Save(c.state); err != nil {
		c.logger.Warn("failed to persist state", "error", err)
	}
}
