// Package tzoffset computes minute-level UTC offset differences between a
// timezone and the home zone, and classifies the sub-hour remainder that
// drives fractional cell alignment (30/45/15-minute zones such as
// Asia/Kolkata or Asia/Kathmandu).
//
// Sign convention throughout: "zone minus home", so a positive result
// means the zone is ahead of home.
package tzoffset

import (
	"fmt"
	"time"
)

// Minutes returns the UTC offset of zoneID at the given instant, in minutes.
// Example: Minutes("Asia/Kolkata", t) returns 330 for any t.
func Minutes(zoneID string, at time.Time) (int, error) {
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return 0, fmt.Errorf("loading zone %q: %w", zoneID, err)
	}
	_, secs := at.In(loc).Zone()
	return secs / 60, nil
}

// FromHome returns the offset difference between zoneID and homeID at the
// given instant, in minutes. The result is always in [-1440, 1440].
// Example: FromHome("Asia/Kolkata", "America/New_York", t) returns 630
// while New York observes UTC-5.
func FromHome(zoneID, homeID string, at time.Time) (int, error) {
	zone, err := Minutes(zoneID, at)
	if err != nil {
		return 0, err
	}
	home, err := Minutes(homeID, at)
	if err != nil {
		return 0, err
	}
	return zone - home, nil
}

// SubHourCategory reduces an offset difference to its non-hour remainder.
// The result is one of 0, 15, 30 or 45 and is never negative, even for
// zones behind home: SubHourCategory(-330) = 30.
func SubHourCategory(diffMinutes int) int {
	return ((diffMinutes % 60) + 60) % 60
}

// FormatFromHome renders an offset difference as the home-relative label
// shown next to each zone row. Whole-hour differences render as a bare
// signed hour count ("+5", "-3", "+0"); fractional ones keep the sign on
// the truncated hour magnitude and append a two-digit minute remainder,
// so -330 renders "-5:30", not "-6:30".
func FormatFromHome(diffMinutes int) string {
	hours := diffMinutes / 60
	mins := diffMinutes % 60
	if mins < 0 {
		mins = -mins
	}
	if mins == 0 {
		return fmt.Sprintf("%+d", hours)
	}
	sign := "+"
	if diffMinutes < 0 {
		sign = "-"
	}
	magnitude := hours
	if magnitude < 0 {
		magnitude = -magnitude
	}
	return fmt.Sprintf("%s%d:%02d", sign, magnitude, mins)
}
