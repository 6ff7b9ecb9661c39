package event

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// icsTimeLayout is the RFC 5545 UTC date-time form.
const icsTimeLayout = "20060102T150405Z"

// ICS renders the event as a calendar-interchange blob. All times are
// normalized to UTC; now stamps DTSTAMP so output is deterministic for a
// fixed clock. Lines end with CRLF as the format requires.
func (e Event) ICS(now time.Time) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//codeGROOVE//tzalign//EN",
		"BEGIN:VEVENT",
		"UID:" + uuid.NewString(),
		"DTSTAMP:" + now.UTC().Format(icsTimeLayout),
		"DTSTART:" + e.Start.UTC().Format(icsTimeLayout),
		"DTEND:" + e.End().UTC().Format(icsTimeLayout),
		"SUMMARY:" + escapeText(e.Summary),
	}
	if e.Location != "" {
		lines = append(lines, "LOCATION:"+escapeText(e.Location))
	}
	if e.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escapeText(e.Description))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n", nil
}

// GoogleCalendarURL builds the web-calendar deep link for the event, with
// the same UTC-normalized start and end as the ICS export.
func (e Event) GoogleCalendarURL() (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	values := url.Values{}
	values.Set("action", "TEMPLATE")
	values.Set("text", e.Summary)
	values.Set("dates", fmt.Sprintf("%s/%s",
		e.Start.UTC().Format(icsTimeLayout), e.End().UTC().Format(icsTimeLayout)))
	if e.Location != "" {
		values.Set("location", e.Location)
	}
	if e.Description != "" {
		values.Set("details", e.Description)
	}
	return "https://calendar.google.com/calendar/render?" + values.Encode(), nil
}

// escapeText applies RFC 5545 TEXT escaping: backslash, semicolon and
// comma are backslash-escaped, newlines become literal \n.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
