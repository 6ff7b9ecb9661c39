package appstate

import (
	"log/slog"
	"net/url"
)

// Resolve produces the authoritative startup state. Precedence, first
// match wins:
//
//  1. URL query values carrying at least one valid tz{i} parameter.
//  2. A persisted blob carrying at least one timezone entry.
//  3. The built-in defaults.
//
// Whichever source wins is immediately mirrored into the persisted store
// so the two sinks agree from the first render. Store failures are logged
// and never block resolution.
func Resolve(query url.Values, store Store, defaults State, logger *slog.Logger) State {
	if s, ok := DecodeQuery(query, logger); ok {
		logger.Info("state resolved from URL", "zones", len(s.Timezones))
		if err := store.Save(s); err != nil {
			logger.Warn("failed to mirror URL state to storage", "error", err)
		}
		return s
	}

	if stored, err := store.Load(); err != nil {
		logger.Warn("failed to load persisted state", "error", err)
	} else if stored != nil && len(stored.Timezones) > 0 {
		logger.Info("state resolved from storage", "zones", len(stored.Timezones))
		return stored.clone()
	}

	logger.Info("state resolved from defaults", "zones", len(defaults.Timezones))
	if err := store.Save(defaults); err != nil {
		logger.Warn("failed to persist default state", "error", err)
	}
	return defaults.clone()
}
