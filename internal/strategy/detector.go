package strategy

import (
	"fmt"
	"log/slog"
	"time"

	"divradar/internal/calendar"
	"divradar/internal/config"
)

// Detector evaluates every resolved event date against the entry and exit
// windows. It is a pure function of its inputs: no state survives a call,
// and identical inputs always produce the identical opportunity list.
type Detector struct {
	cfg config.WindowConfig
}

func NewDetector(cfg config.WindowConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Detect returns every open window across the calendar for the given
// evaluation date. Instruments with no metadata entry are skipped, since
// their priority and return figures cannot be attached; their events stay in
// the calendar but never reach the output. The two window predicates are
// mutually exclusive for any single event date: BUY requires the event in
// the past, PREPARE_SELL requires it today or in the future.
func (d *Detector) Detect(cal calendar.Calendar, meta MetaTable, today time.Time) []Opportunity {
	today = calendar.DateOnly(today)

	var opps []Opportunity
	for _, code := range cal.Instruments() {
		m, ok := meta[code]
		if !ok {
			slog.Warn("instrument has calendar events but no metadata, excluded from detection",
				"instrument", code, "events", len(cal[code]))
			continue
		}

		for _, ev := range cal[code] {
			if opp, open := d.evaluate(m, ev, today); open {
				opps = append(opps, opp)
			}
		}
	}
	return opps
}

func (d *Detector) evaluate(m InstrumentMeta, ev calendar.Event, today time.Time) (Opportunity, bool) {
	daysAfter := calendar.DaysBetween(ev.Date, today)

	if daysAfter >= 1 && daysAfter <= d.cfg.BuyWindowDays {
		confidence := ConfidenceMedium
		if daysAfter <= d.cfg.HighConfidenceDays {
			confidence = ConfidenceHigh
		}
		return Opportunity{
			Instrument:        m.Code,
			Action:            ActionBuy,
			EventDate:         ev.Date.Format(calendar.DateLayout),
			DaysFromEvent:     daysAfter,
			Confidence:        confidence,
			ExpectedReturnPct: m.ExpectedReturnPct,
			SuccessRate:       m.SuccessRate,
			Reason:            fmt.Sprintf("day %d after ex-dividend, entry window open through day %d", daysAfter, d.cfg.BuyWindowDays),
		}, true
	}

	daysTo := -daysAfter
	if daysTo >= 0 && daysTo <= d.cfg.PrepareSellDays {
		return Opportunity{
			Instrument:        m.Code,
			Action:            ActionPrepareSell,
			EventDate:         ev.Date.Format(calendar.DateLayout),
			DaysFromEvent:     daysAfter,
			ExpectedReturnPct: m.ExpectedReturnPct,
			SuccessRate:       m.SuccessRate,
			Reason:            fmt.Sprintf("%d days to ex-dividend, prepare to exit positions", daysTo),
		}, true
	}

	return Opportunity{}, false
}
