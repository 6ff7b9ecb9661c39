// Package event converts a single event authored in one timezone into
// per-zone renderings and calendar-interchange exports. It is a pure
// read/format transform over the configured zone list; it never mutates
// engine state.
package event

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors surfaced to the user as blocking notices. No partial
// export is produced for an invalid event.
var (
	ErrMissingSummary = errors.New("event summary is required")
	ErrMissingStart   = errors.New("event start time is required")
	ErrMissingZone    = errors.New("event timezone is required")
	ErrTooFewZones    = errors.New("at least two configured zones are required for a comparison export")
)

// Event is an event authored as local wall-clock time in a specific zone.
type Event struct {
	Summary     string
	Location    string
	Description string
	Start       time.Time // wall-clock start, already in the authoring zone
	Duration    time.Duration
	ZoneID      string // authoring IANA timezone id
}

// New parses the wall-clock start ("2006-01-02 15:04") in the authoring
// zone and builds an Event.
func New(summary, zoneID, start string, duration time.Duration) (Event, error) {
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return Event{}, fmt.Errorf("loading event zone %q: %w", zoneID, err)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", start, loc)
	if err != nil {
		return Event{}, fmt.Errorf("parsing event start %q: %w", start, err)
	}
	return Event{Summary: summary, Start: t, Duration: duration, ZoneID: zoneID}, nil
}

// Validate checks the required fields.
func (e Event) Validate() error {
	switch {
	case e.Summary == "":
		return ErrMissingSummary
	case e.Start.IsZero():
		return ErrMissingStart
	case e.ZoneID == "":
		return ErrMissingZone
	}
	if _, err := time.LoadLocation(e.ZoneID); err != nil {
		return fmt.Errorf("invalid event zone %q: %w", e.ZoneID, err)
	}
	return nil
}

// End returns the event's end instant. A zero duration defaults to one
// hour.
func (e Event) End() time.Time {
	d := e.Duration
	if d == 0 {
		d = time.Hour
	}
	return e.Start.Add(d)
}

// ZoneTime is the event's start rendered in one configured zone.
type ZoneTime struct {
	ZoneID  string
	Label   string
	Weekday string
	Date    string
	Time    string
}

// RenderAcross renders the event's start across every configured zone,
// deterministically ordered by the list. It requires at least two zones —
// a comparison across one zone is meaningless and is rejected rather than
// partially exported.
func (e Event) RenderAcross(zones []ZoneRef, use24h bool) ([]ZoneTime, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if len(zones) < 2 {
		return nil, ErrTooFewZones
	}
	timeLayout := "3:04 PM"
	if use24h {
		timeLayout = "15:04"
	}
	out := make([]ZoneTime, 0, len(zones))
	for _, z := range zones {
		loc, err := time.LoadLocation(z.ID)
		if err != nil {
			return nil, fmt.Errorf("loading zone %q: %w", z.ID, err)
		}
		local := e.Start.In(loc)
		out = append(out, ZoneTime{
			ZoneID:  z.ID,
			Label:   z.Label,
			Weekday: local.Format("Mon"),
			Date:    local.Format("Jan 2, 2006"),
			Time:    local.Format(timeLayout),
		})
	}
	return out, nil
}

// ZoneRef identifies one configured zone row for rendering.
type ZoneRef struct {
	ID    string
	Label string
}
