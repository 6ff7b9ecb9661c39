// Package main implements the tzalign CLI: an aligned multi-timezone
// timeline with time travel, shareable configuration and calendar export.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/tzalign/pkg/appstate"
	"github.com/codeGROOVE-dev/tzalign/pkg/catalog"
	"github.com/codeGROOVE-dev/tzalign/pkg/clock"
	"github.com/codeGROOVE-dev/tzalign/pkg/config"
	"github.com/codeGROOVE-dev/tzalign/pkg/event"
	"github.com/codeGROOVE-dev/tzalign/pkg/timetravel"
)

var (
	shareQuery   = flag.String("share", "", "Shared configuration as a URL or query string (tz0=...&tz1=...)")
	travelHours  = flag.Float64("travel", 0, "Time-travel offset in hours (fractional allowed)")
	format       = flag.String("format", "", "Display format: 12h or 24h")
	addZone      = flag.String("add", "", "Add an IANA timezone to the list")
	addLabel     = flag.String("label", "", "Custom label for the zone being added")
	removeIndex  = flag.Int("remove", -1, "Remove the zone at this index")
	moveSpec     = flag.String("move", "", "Reorder zones, as from:to (0 is the home zone)")
	searchQuery  = flag.String("search", "", "Search the timezone catalog and exit")
	fetchCatalog = flag.Bool("fetch-catalog", false, "Extend the catalog from the remote source before searching")
	eventSummary = flag.String("event", "", "Export an event: summary text")
	eventStart   = flag.String("event-start", "", "Event start as 'YYYY-MM-DD HH:MM' in the home zone")
	eventZone    = flag.String("event-zone", "", "Event authoring zone (defaults to the home zone)")
	eventWhere   = flag.String("event-location", "", "Event location")
	eventDetails = flag.String("event-description", "", "Event description")
	eventMinutes = flag.Int("event-duration", 60, "Event duration in minutes")
	gcalLink     = flag.Bool("gcal", false, "Print a Google Calendar link instead of ICS")
	configPath   = flag.String("config", "", "Config file path (or set TZALIGN_CONFIG)")
	noColor      = flag.Bool("no-color", false, "Disable colored output")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("tzalign CLI v1.2.0")
		return
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *configPath == "" {
		*configPath = os.Getenv("TZALIGN_CONFIG")
	}
	if *configPath == "" {
		*configPath = config.DefaultPath()
	}
	cfg := config.Load(*configPath, logger)

	if *searchQuery != "" {
		runSearch(cfg, logger)
		return
	}

	store := appstate.NewFileStore(cfg.StateDir, logger)
	resolved := appstate.Resolve(parseShare(*shareQuery, logger), store, appstate.DefaultState(), logger)
	ctrl := appstate.NewController(resolved, store, logger)

	applyMutations(ctrl, logger)

	if *eventSummary != "" {
		if err := runEvent(ctrl, clock.System()); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	travel := newTravel(cfg)
	travel.Seek(*travelHours)

	renderGrids(os.Stdout, ctrl, travel, clock.System().Now(), *noColor, logger)
	fmt.Printf("\nshare: ?%s\n", ctrl.ShareQuery())
}

func newTravel(cfg config.Config) *timetravel.Travel {
	if cfg.ClampHours > 0 {
		return timetravel.New(timetravel.WithClamp(cfg.ClampHours))
	}
	return timetravel.New()
}

// parseShare accepts either a bare query string, one with a leading "?",
// or a full shared URL, and returns its query values.
func parseShare(share string, logger *slog.Logger) url.Values {
	if share == "" {
		return url.Values{}
	}
	if i := strings.Index(share, "?"); i >= 0 {
		share = share[i+1:]
	}
	values, err := url.ParseQuery(share)
	if err != nil {
		logger.Warn("unparseable share query, ignoring", "share", share, "error", err)
		return url.Values{}
	}
	return values
}

func applyMutations(ctrl *appstate.Controller, logger *slog.Logger) {
	if *addZone != "" {
		entry := appstate.NewEntry(*addZone)
		entry.CustomLabel = *addLabel
		if _, err := time.LoadLocation(*addZone); err != nil {
			logger.Warn("not adding invalid timezone", "id", *addZone, "error", err)
		} else if !ctrl.Add(entry) {
			logger.Info("zone already in list, not added twice", "id", *addZone)
		}
	}
	if *removeIndex >= 0 {
		ctrl.Remove(*removeIndex)
	}
	if *moveSpec != "" {
		var from, to int
		if _, err := fmt.Sscanf(*moveSpec, "%d:%d", &from, &to); err != nil {
			logger.Warn("unparseable -move, expected from:to", "move", *moveSpec)
		} else {
			ctrl.Move(from, to)
		}
	}
	switch *format {
	case "24h":
		ctrl.SetUse24Hour(true)
	case "12h":
		ctrl.SetUse24Hour(false)
	case "":
	default:
		logger.Warn("unknown -format, expected 12h or 24h", "format", *format)
	}
}

func runSearch(cfg config.Config, logger *slog.Logger) {
	cat := catalog.New(logger)
	if *fetchCatalog {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		catalog.NewFetcher(cfg.CatalogURL, cfg.StateDir, logger).Extend(ctx, cat)
	}
	matches := cat.Search(*searchQuery)
	if len(matches) == 0 {
		fmt.Println("no matching timezones")
		return
	}
	for _, m := range matches {
		fmt.Printf("%-32s %s\n", m.Name, m.Label)
	}
}

func runEvent(ctrl *appstate.Controller, clk clock.Clock) error {
	state := ctrl.State()
	zoneID := *eventZone
	if zoneID == "" {
		if len(state.Timezones) == 0 {
			return event.ErrMissingZone
		}
		zoneID = state.Timezones[0].ID
	}
	ev, err := event.New(*eventSummary, zoneID, *eventStart, time.Duration(*eventMinutes)*time.Minute)
	if err != nil {
		return err
	}
	ev.Location = *eventWhere
	ev.Description = *eventDetails

	zones := make([]event.ZoneRef, 0, len(state.Timezones))
	for _, e := range state.Timezones {
		zones = append(zones, event.ZoneRef{ID: e.ID, Label: e.DisplayName()})
	}
	rendered, err := ev.RenderAcross(zones, state.Use24Hour)
	if err != nil {
		return err
	}
	for _, zt := range rendered {
		fmt.Printf("%-24s %s %s %s\n", zt.Label, zt.Weekday, zt.Date, zt.Time)
	}
	fmt.Println()

	if *gcalLink {
		link, err := ev.GoogleCalendarURL()
		if err != nil {
			return err
		}
		fmt.Println(link)
		return nil
	}
	ics, err := ev.ICS(clk.Now())
	if err != nil {
		return err
	}
	fmt.Print(ics)
	return nil
}
