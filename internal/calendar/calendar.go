// Package calendar resolves the layered ex-dividend calendar: a static,
// code-versioned baseline of predicted dates merged with dynamic confirmed
// overrides supplied at runtime.
package calendar

import (
	"sort"
	"time"
)

// Source tags where a resolved event came from.
type Source string

const (
	SourceStaticPredicted  Source = "static-predicted"
	SourceDynamicConfirmed Source = "dynamic-confirmed"
)

// Event is one scheduled distribution date for an instrument. Date is
// date-only, normalized to midnight UTC. UpdatedAt and Note are provenance
// carried from the override store and are zero for static predictions.
type Event struct {
	Instrument string    `json:"instrument"`
	Date       time.Time `json:"date"`
	Source     Source    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
	Note       string    `json:"note,omitempty"`
}

// Calendar maps an instrument code to its resolved events, sorted ascending
// by date with no duplicate dates per instrument. It is rebuilt on every
// Resolve call and never mutated afterwards.
type Calendar map[string][]Event

// Warning records a recoverable validation problem scoped to one instrument.
type Warning struct {
	Instrument string `json:"instrument"`
	Reason     string `json:"reason"`
}

// Instruments returns the instrument codes in sorted order.
func (c Calendar) Instruments() []string {
	codes := make([]string, 0, len(c))
	for code := range c {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Dates is the legacy flattened view: instrument code to date strings,
// without source or provenance. It is derived from the resolved events on
// every call so it can never drift from them.
func (c Calendar) Dates() map[string][]string {
	flat := make(map[string][]string, len(c))
	for code, events := range c {
		dates := make([]string, 0, len(events))
		for _, ev := range events {
			dates = append(dates, ev.Date.Format(DateLayout))
		}
		flat[code] = dates
	}
	return flat
}

// DateLayout is the wire format for all calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DateOnly truncates t to its calendar date at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole civil days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)) / (24 * time.Hour))
}
