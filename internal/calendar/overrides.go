package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// OverrideRecord holds one instrument-year of confirmed distribution data.
// PaymentDates, when present, runs parallel to ExDividendDates.
type OverrideRecord struct {
	ExDividendDates []string `json:"ex_dividend_dates"`
	PaymentDates    []string `json:"payment_dates,omitempty"`
	LastUpdated     string   `json:"last_updated,omitempty"`
	Note            string   `json:"note,omitempty"`
}

// OverrideSet maps instrument code -> year -> record. It is the mutable,
// human-edited layer on top of the baseline.
type OverrideSet map[string]map[string]OverrideRecord

// LoadOverrides reads the override store at path as a single atomic snapshot:
// the whole file is read before any of it is parsed, so a resolve never sees
// a half-applied edit. A missing file yields an empty set, not an error.
func LoadOverrides(path string) (OverrideSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return OverrideSet{}, nil
		}
		return nil, fmt.Errorf("reading override store: %w", err)
	}

	var set OverrideSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing override store: %w", err)
	}
	return set, nil
}

// confirmedEvents validates the record and expands it into events for the
// given instrument. Any malformed date or parallel-array length mismatch
// rejects the whole record.
func (r OverrideRecord) confirmedEvents(instrument string) ([]Event, error) {
	if len(r.PaymentDates) > 0 && len(r.PaymentDates) != len(r.ExDividendDates) {
		return nil, fmt.Errorf("payment_dates length %d does not match ex_dividend_dates length %d",
			len(r.PaymentDates), len(r.ExDividendDates))
	}

	var updatedAt time.Time
	if r.LastUpdated != "" {
		// Provenance only; an unparsable timestamp is dropped, not fatal.
		if t, err := time.Parse(time.RFC3339, r.LastUpdated); err == nil {
			updatedAt = t
		}
	}

	for _, ps := range r.PaymentDates {
		if _, err := ParseDate(ps); err != nil {
			return nil, fmt.Errorf("malformed payment date %q: %w", ps, err)
		}
	}

	events := make([]Event, 0, len(r.ExDividendDates))
	for _, ds := range r.ExDividendDates {
		d, err := ParseDate(ds)
		if err != nil {
			return nil, fmt.Errorf("malformed ex-dividend date %q: %w", ds, err)
		}
		events = append(events, Event{
			Instrument: instrument,
			Date:       d,
			Source:     SourceDynamicConfirmed,
			UpdatedAt:  updatedAt,
			Note:       r.Note,
		})
	}
	return events, nil
}
