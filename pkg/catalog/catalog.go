// Package catalog maintains the searchable set of timezones offered by the
// add-zone path. The seed comes from an embedded IANA table; a best-effort
// remote fetch can extend it with country-level labels whenever it arrives.
package catalog

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Entry is one selectable timezone: an IANA id plus a display label.
type Entry struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Catalog is a deduplicated set of entries, safe for concurrent reads and
// merges. The remote fetch merges on arrival with no ordering guarantee
// relative to other interactions.
type Catalog struct {
	mu      sync.RWMutex
	entries []Entry
	logger  *slog.Logger
}

// New builds a catalog seeded from the embedded IANA table.
func New(logger *slog.Logger) *Catalog {
	c := &Catalog{logger: logger}
	c.Merge(seed())
	return c
}

// seed transforms the embedded id list into entries, deduplicating by
// (name, label).
func seed() []Entry {
	entries := make([]Entry, 0, len(zoneIDs))
	for _, id := range zoneIDs {
		entries = append(entries, Entry{Name: id, Label: DisplayLabel(id)})
	}
	return entries
}

// DisplayLabel derives the default label for an IANA id: the substring
// after the region separator with underscores replaced by spaces. The
// platform names fixed-offset zones inverted relative to common usage
// (Etc/GMT-5 is five hours ahead of UTC), so GMT+N/GMT-N labels get
// their sign flipped for display.
func DisplayLabel(id string) string {
	label := id
	if i := strings.LastIndex(id, "/"); i >= 0 {
		label = id[i+1:]
	}
	label = strings.ReplaceAll(label, "_", " ")

	if rest, ok := strings.CutPrefix(label, "GMT+"); ok && rest != "" {
		return "GMT-" + rest
	}
	if rest, ok := strings.CutPrefix(label, "GMT-"); ok && rest != "" {
		return "GMT+" + rest
	}
	return label
}

// All returns a copy of every entry, sorted by label then name.
func (c *Catalog) All() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Search returns entries whose name or label contains q, case-insensitive.
// An empty query matches nothing.
func (c *Catalog) Search(q string) []Entry {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Entry
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Label), q) {
			out = append(out, e)
		}
	}
	return out
}

// Merge folds extra entries into the catalog, deduplicating by label with
// last-writer-wins: a remote entry replaces a seed entry carrying the same
// label.
func (c *Catalog) Merge(extra []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byLabel := make(map[string]int, len(c.entries))
	for i, e := range c.entries {
		byLabel[e.Label] = i
	}
	for _, e := range extra {
		if e.Name == "" || e.Label == "" {
			continue
		}
		if i, ok := byLabel[e.Label]; ok {
			c.entries[i] = e
			continue
		}
		byLabel[e.Label] = len(c.entries)
		c.entries = append(c.entries, e)
	}
}

// Len reports the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
