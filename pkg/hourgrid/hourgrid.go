// Package hourgrid generates the 48-cell aligned timeline for one timezone.
// Every zone's grid is anchored to the same home-zone anchor hour, so rows
// for different zones line up cell-for-cell in a single render pass. The
// generator is a pure function of its arguments: grids for different zones
// computed from the same (home, anchor, now) are mutually consistent.
package hourgrid

import (
	"math"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/tzalign/pkg/tzoffset"
)

// Period classifies a cell's local hour for rendering. The boundaries are
// a fixed heuristic independent of actual sunrise and sunset.
type Period string

const (
	Night    Period = "night"    // [20,24) and [0,6)
	Twilight Period = "twilight" // [6,8) and [18,20)
	Day      Period = "day"      // [8,18)
)

// Cells generates 48 cells per grid: 24 hours behind the anchor and 24
// ahead of it (offsets -24 through +23).
const Cells = 48

// Cell is one hour of a zone's timeline. Recomputed fresh on every render
// pass, never persisted.
type Cell struct {
	Time            time.Time `json:"time"`             // cell start in the target zone
	Display         string    `json:"display"`          // hour label, e.g. "14" or "2"
	Suffix          string    `json:"suffix,omitempty"` // "AM"/"PM" in 12-hour mode, "" in 24-hour mode
	Period          Period    `json:"period"`
	Hour            int       `json:"hour"`            // 0-23 in the target zone
	HourOffset      int       `json:"hourOffset"`      // offset from the anchor hour, -24..+23
	MinuteOffset    int       `json:"minuteOffset"`    // sub-hour skew of this zone relative to home: 0, 15, 30 or 45
	IsCurrent       bool      `json:"isCurrent"`       // marks the real current hour, unaffected by time travel
	IsDSTTransition bool      `json:"isDstTransition"` // UTC offset differs from the preceding cell's
	ShowDate        bool      `json:"showDate"`        // local midnight, date-change marker
}

// AnchorHour returns the home zone's current hour shifted by the rounded
// time-travel offset and floored to the start of the hour. It is the
// center reference point of every zone's grid in the render pass.
func AnchorHour(home *time.Location, now time.Time, travelHours float64) time.Time {
	shifted := now.Add(time.Duration(math.Round(travelHours)) * time.Hour).In(home)
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), shifted.Hour(), 0, 0, 0, home)
}

// Generate produces the 48-cell timeline for zone, aligned against home.
// The anchor must come from AnchorHour for the same render pass; now is
// the unmodified reference instant, used only for IsCurrent and the
// sub-hour skew. Callers with an empty zone list pass the host's local
// zone as home.
func Generate(zone, home *time.Location, anchor, now time.Time, use24h bool) []Cell {
	nowInZone := now.In(zone)
	_, zoneSecs := nowInZone.Zone()
	_, homeSecs := now.In(home).Zone()
	minuteOffset := tzoffset.SubHourCategory((zoneSecs - homeSecs) / 60)

	cells := make([]Cell, 0, Cells)
	// Offset of the cell before the window; seeds DST comparison for i=-24.
	_, prevOffset := anchor.Add(-25 * time.Hour).In(zone).Zone()

	for i := -Cells / 2; i < Cells/2; i++ {
		t := anchor.Add(time.Duration(i) * time.Hour).In(zone)
		_, offset := t.Zone()
		hour := t.Hour()

		cells = append(cells, Cell{
			Time:            t,
			Display:         displayHour(hour, use24h),
			Suffix:          suffix(hour, use24h),
			Period:          classify(hour),
			Hour:            hour,
			HourOffset:      i,
			MinuteOffset:    minuteOffset,
			IsCurrent:       hour == nowInZone.Hour() && t.Day() == nowInZone.Day() && t.Month() == nowInZone.Month(),
			IsDSTTransition: offset != prevOffset,
			ShowDate:        hour == 0,
		})
		prevOffset = offset
	}
	return cells
}

func classify(hour int) Period {
	switch {
	case hour >= 8 && hour < 18:
		return Day
	case (hour >= 6 && hour < 8) || (hour >= 18 && hour < 20):
		return Twilight
	default:
		return Night
	}
}

func displayHour(hour int, use24h bool) string {
	if use24h {
		return strconv.Itoa(hour)
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return strconv.Itoa(h)
}

func suffix(hour int, use24h bool) string {
	if use24h {
		return ""
	}
	if hour < 12 {
		return "AM"
	}
	return "PM"
}
