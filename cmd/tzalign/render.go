package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/codeGROOVE-dev/tzalign/pkg/appstate"
	"github.com/codeGROOVE-dev/tzalign/pkg/hourgrid"
	"github.com/codeGROOVE-dev/tzalign/pkg/timetravel"
	"github.com/codeGROOVE-dev/tzalign/pkg/tzoffset"
)

var (
	dayColor      = color.New(color.FgYellow)
	twilightColor = color.New(color.FgCyan)
	nightColor    = color.New(color.FgHiBlack)
	currentColor  = color.New(color.FgHiWhite, color.Bold, color.ReverseVideo)
	dstColor      = color.New(color.FgRed, color.Bold)
	dateColor     = color.New(color.FgMagenta)
)

// renderGrids prints one aligned 48-cell row per configured zone. Every
// row is anchored to the same home anchor hour, so columns line up across
// zones; fractional-offset zones carry a :15/:30/:45 marker in the header
// instead of a fractional cell shift, which a character grid can't show.
func renderGrids(w io.Writer, ctrl *appstate.Controller, travel *timetravel.Travel, now time.Time, noColor bool, logger *slog.Logger) {
	color.NoColor = noColor

	state := ctrl.State()
	if len(state.Timezones) == 0 {
		fmt.Fprintln(w, "no timezones configured; add one with -add")
		return
	}

	home := ctrl.HomeZone()
	homeID := state.Timezones[0].ID
	anchor := hourgrid.AnchorHour(home, now, travel.Hours())

	if travel.Hours() != 0 {
		fmt.Fprintf(w, "time travel: %+.1f hours\n\n", travel.Hours())
	}

	for _, entry := range state.Timezones {
		loc, err := time.LoadLocation(entry.ID)
		if err != nil {
			logger.Warn("skipping zone that failed to load", "id", entry.ID, "error", err)
			continue
		}

		diff, err := tzoffset.FromHome(entry.ID, homeID, now)
		if err != nil {
			logger.Warn("skipping zone with unknown offset", "id", entry.ID, "error", err)
			continue
		}

		cells := hourgrid.Generate(loc, home, anchor, now, state.Use24Hour)
		printHeader(w, entry, diff, cells[0].MinuteOffset, now.In(loc), state.Use24Hour)
		printRow(w, cells)
	}
}

func printHeader(w io.Writer, entry appstate.TimezoneEntry, diffMinutes, minuteOffset int, local time.Time, use24h bool) {
	clockLayout := "3:04 PM"
	if use24h {
		clockLayout = "15:04"
	}
	skew := ""
	if minuteOffset != 0 {
		skew = fmt.Sprintf(" [:%02d]", minuteOffset)
	}
	fmt.Fprintf(w, "%-24s %8s  %s  %s%s\n",
		entry.DisplayName(), local.Format(clockLayout), local.Format("Mon Jan 2"),
		tzoffset.FormatFromHome(diffMinutes), skew)
}

func printRow(w io.Writer, cells []hourgrid.Cell) {
	for _, c := range cells {
		text := fmt.Sprintf("%3s", c.Display)
		if c.ShowDate {
			text = fmt.Sprintf("%3s", c.Time.Format("2"))
		}

		var styled string
		switch {
		case c.IsCurrent:
			styled = currentColor.Sprint(text)
		case c.ShowDate:
			styled = dateColor.Sprint(text)
		case c.Period == hourgrid.Day:
			styled = dayColor.Sprint(text)
		case c.Period == hourgrid.Twilight:
			styled = twilightColor.Sprint(text)
		default:
			styled = nightColor.Sprint(text)
		}

		mark := " "
		if c.IsDSTTransition {
			mark = dstColor.Sprint("*")
		}
		fmt.Fprint(w, styled, mark)
	}
	fmt.Fprintln(w)
}
