package appstate

import (
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

// Query parameter names of the shareable URL encoding. tz{i} parameters
// are zero-based and contiguous; decoding stops at the first missing
// index. Unknown parameters are ignored.
const (
	paramFormat = "format"
	paramZone   = "tz"
	paramLabel  = "label"

	format24h = "24h"
	format12h = "12h"
)

// EncodeQuery renders the state as URL query values. label{i} is emitted
// only when a custom label is set; the default label is re-derived from
// the id on decode.
func EncodeQuery(s State) url.Values {
	values := url.Values{}
	if s.Use24Hour {
		values.Set(paramFormat, format24h)
	} else {
		values.Set(paramFormat, format12h)
	}
	for i, e := range s.Timezones {
		values.Set(paramZone+strconv.Itoa(i), e.ID)
		if e.CustomLabel != "" {
			values.Set(paramLabel+strconv.Itoa(i), e.CustomLabel)
		}
	}
	return values
}

// DecodeQuery reconstructs state from URL query values. Each tz{i} id is
// validated against the host timezone database; invalid ids are dropped
// with a warning and do not terminate the sequence — only a missing index
// does. ok reports whether at least one valid timezone was found, which is
// what makes the URL the authoritative source at startup.
func DecodeQuery(values url.Values, logger *slog.Logger) (s State, ok bool) {
	s.Use24Hour = values.Get(paramFormat) == format24h

	for i := 0; ; i++ {
		id := values.Get(paramZone + strconv.Itoa(i))
		if id == "" {
			break
		}
		if _, err := time.LoadLocation(id); err != nil {
			logger.Warn("dropping invalid timezone from URL", "index", i, "id", id, "error", err)
			continue
		}
		entry := NewEntry(id)
		if label := values.Get(paramLabel + strconv.Itoa(i)); label != "" {
			entry.CustomLabel = label
		}
		s.Timezones = append(s.Timezones, entry)
	}
	return s, len(s.Timezones) > 0
}
