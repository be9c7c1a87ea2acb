package calendar

import (
	"fmt"
	"log/slog"
	"sort"

	"divradar/internal/config"
)

// Resolver merges the static baseline with dynamic confirmed overrides into
// a Calendar. It holds no state beyond its tolerance setting; every Resolve
// call computes a fresh result from its inputs.
type Resolver struct {
	toleranceDays int
}

func NewResolver(cfg config.CalendarConfig) *Resolver {
	return &Resolver{toleranceDays: cfg.CycleToleranceDays}
}

// Resolve produces the merged calendar. Per instrument, each confirmed date
// replaces the static prediction that falls within the cycle tolerance of
// it; confirmed dates with no corresponding prediction are appended as new
// events. A malformed override record fails only that instrument's merge:
// the instrument falls back to static-only and a Warning is recorded.
// Instruments known only to the override store are still included.
func (r *Resolver) Resolve(base Baseline, overrides OverrideSet) (Calendar, []Warning) {
	cal := make(Calendar, len(base))
	var warnings []Warning

	for _, code := range unionCodes(base, overrides) {
		events, ws := r.resolveInstrument(code, base[code], overrides[code])
		cal[code] = events
		warnings = append(warnings, ws...)
	}

	return cal, warnings
}

func (r *Resolver) resolveInstrument(code string, staticDates []string, records map[string]OverrideRecord) ([]Event, []Warning) {
	var warnings []Warning

	events := make([]Event, 0, len(staticDates))
	for _, ds := range staticDates {
		d, err := ParseDate(ds)
		if err != nil {
			// The baseline is code-versioned; a bad entry here is a bug, but
			// it still degrades to skipping the one date rather than erroring.
			warnings = append(warnings, Warning{
				Instrument: code,
				Reason:     fmt.Sprintf("baseline date %q unparsable, skipped", ds),
			})
			continue
		}
		events = append(events, Event{Instrument: code, Date: d, Source: SourceStaticPredicted})
	}

	confirmed, ws := collectConfirmed(code, records)
	if len(ws) > 0 {
		// Static-only fallback for this instrument.
		slog.Warn("override merge failed, using static-only calendar", "instrument", code)
		sortEvents(events)
		return dedupe(events), append(warnings, ws...)
	}

	for _, ce := range confirmed {
		events = r.apply(events, ce)
	}

	sortEvents(events)
	return dedupe(events), warnings
}

// apply merges one confirmed event into the working event list: replace the
// nearest static prediction within the cycle tolerance, or a prior event on
// the exact same date, otherwise append.
func (r *Resolver) apply(events []Event, ce Event) []Event {
	// Exact-date collision: the confirmed entry wins regardless of source.
	for i, ev := range events {
		if ev.Date.Equal(ce.Date) {
			events[i] = ce
			return events
		}
	}

	best := -1
	bestDist := r.toleranceDays + 1
	for i, ev := range events {
		if ev.Source != SourceStaticPredicted {
			continue
		}
		dist := DaysBetween(ev.Date, ce.Date)
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}

	if best >= 0 {
		events[best] = ce
		return events
	}
	return append(events, ce)
}

// collectConfirmed validates and expands every override record for one
// instrument. Any invalid record fails the whole instrument (warnings
// returned non-empty), matching the static-only fallback contract.
func collectConfirmed(code string, records map[string]OverrideRecord) ([]Event, []Warning) {
	if len(records) == 0 {
		return nil, nil
	}

	years := make([]string, 0, len(records))
	for year := range records {
		years = append(years, year)
	}
	sort.Strings(years)

	var confirmed []Event
	for _, year := range years {
		events, err := records[year].confirmedEvents(code)
		if err != nil {
			return nil, []Warning{{
				Instrument: code,
				Reason:     fmt.Sprintf("override record for %s rejected: %v", year, err),
			}}
		}
		confirmed = append(confirmed, events...)
	}
	sortEvents(confirmed)
	return confirmed, nil
}

func unionCodes(base Baseline, overrides OverrideSet) []string {
	seen := make(map[string]struct{}, len(base)+len(overrides))
	for code := range base {
		seen[code] = struct{}{}
	}
	for code := range overrides {
		seen[code] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func sortEvents(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
}

// dedupe removes exact-date duplicates from a sorted event list, preferring
// the dynamic-confirmed entry.
func dedupe(events []Event) []Event {
	if len(events) < 2 {
		return events
	}
	out := events[:1]
	for _, ev := range events[1:] {
		last := &out[len(out)-1]
		if !ev.Date.Equal(last.Date) {
			out = append(out, ev)
			continue
		}
		if ev.Source == SourceDynamicConfirmed {
			*last = ev
		}
	}
	return out
}
