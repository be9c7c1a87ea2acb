package strategy

import (
	"reflect"
	"testing"
	"time"

	"divradar/internal/calendar"
	"divradar/internal/config"
)

func newWindowConfig() config.WindowConfig {
	return config.WindowConfig{
		BuyWindowDays:      7,
		HighConfidenceDays: 3,
		PrepareSellDays:    3,
	}
}

func testMeta() MetaTable {
	return MetaTable{
		"A": {Code: "A", Name: "Instrument A", Priority: 1, ExpectedReturnPct: 9.43, SuccessRate: 0.625},
		"B": {Code: "B", Name: "Instrument B", Priority: 2, ExpectedReturnPct: 6.26, SuccessRate: 0.50},
		"C": {Code: "C", Name: "Instrument C", Priority: 3, ExpectedReturnPct: 5.56, SuccessRate: 0.526},
	}
}

func calendarWith(events map[string][]string) calendar.Calendar {
	cal := make(calendar.Calendar)
	for code, dates := range events {
		for _, ds := range dates {
			d, err := calendar.ParseDate(ds)
			if err != nil {
				panic(err)
			}
			cal[code] = append(cal[code], calendar.Event{
				Instrument: code,
				Date:       d,
				Source:     calendar.SourceStaticPredicted,
			})
		}
	}
	return cal
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDetect_BuyHighConfidence(t *testing.T) {
	d := NewDetector(newWindowConfig())
	cal := calendarWith(map[string][]string{"A": {"2025-07-15"}})

	opps := d.Detect(cal, testMeta(), mustDate(t, "2025-07-16"))

	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	opp := opps[0]
	if opp.Action != ActionBuy {
		t.Errorf("expected BUY, got %s", opp.Action)
	}
	if opp.Confidence != ConfidenceHigh {
		t.Errorf("expected high confidence, got %q", opp.Confidence)
	}
	if opp.DaysFromEvent != 1 {
		t.Errorf("expected day offset 1, got %d", opp.DaysFromEvent)
	}
	if opp.ExpectedReturnPct != 9.43 || opp.SuccessRate != 0.625 {
		t.Errorf("metadata not carried through verbatim: %+v", opp)
	}
}

func TestDetect_BuyMediumConfidence(t *testing.T) {
	d := NewDetector(newWindowConfig())
	cal := calendarWith(map[string][]string{"A": {"2025-07-15"}})

	opps := d.Detect(cal, testMeta(), mustDate(t, "2025-07-20"))

	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	if opps[0].Confidence != ConfidenceMedium {
		t.Errorf("expected medium confidence at day 5, got %q", opps[0].Confidence)
	}
}

func TestDetect_WindowClosedAfterDaySeven(t *testing.T) {
	d := NewDetector(newWindowConfig())
	cal := calendarWith(map[string][]string{"A": {"2025-07-15"}})

	opps := d.Detect(cal, testMeta(), mustDate(t, "2025-07-24"))

	if len(opps) != 0 {
		t.Errorf("expected no opportunities at day 9, got %d", len(opps))
	}
}

func TestDetect_PrepareSell(t *testing.T) {
	d := NewDetector(newWindowConfig())
	cal := calendarWith(map[string][]string{"B": {"2025-11-21"}})

	opps := d.Detect(cal, testMeta(), mustDate(t, "2025-11-19"))

	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	opp := opps[0]
	if opp.Action != ActionPrepareSell {
		t.Errorf("expected PREPARE_SELL, got %s", opp.Action)
	}
	if opp.DaysFromEvent != -2 {
		t.Errorf("expected offset -2 (2 days to event), got %d", opp.DaysFromEvent)
	}
	if opp.Confidence != ConfidenceNone {
		t.Errorf("PREPARE_SELL must carry no confidence tier, got %q", opp.Confidence)
	}
}

func TestDetect_PrepareSellOnEventDay(t *testing.T) {
	d := NewDetector(newWindowConfig())
	cal := calendarWith(map[string][]string{"B": {"2025-11-21"}})

	opps := d.Detect(cal, testMeta(), mustDate(t, "2025-11-21"))

	if len(opps) != 1 || opps[0].Action != ActionPrepareSell {
		t.Fatalf("expected PREPARE_SELL on the event day itself, got %+v", opps)
	}
}

func TestDetect_WindowsMutuallyExclusive(t *testing.T) {
	d := NewDetector(newWindowConfig())
	cal := calendarWith(map[string][]string{"A": {"2025-07-15"}})

	// Sweep a generous range around the event; no single day may produce
	// both actions for the one event date.
	for offset := -15; offset <= 15; offset++ {
		today := mustDate(t, "2025-07-15").AddDate(0, 0, offset)
		opps := d.Detect(cal, testMeta(), today)
		if len(opps) > 1 {
			t.Fatalf("offset %d: one event produced %d opportunities", offset, len(opps))
		}
	}
}

func TestDetect_MultipleEventsBothWindowsOpen(t *testing.T) {
	d := NewDetector(newWindowConfig())
	// One event just past, one imminent: both windows open at once.
	cal := calendarWith(map[string][]string{"A": {"2025-07-14", "2025-07-18"}})

	opps := d.Detect(cal, testMeta(), mustDate(t, "2025-07-16"))

	if len(opps) != 2 {
		t.Fatalf("expected 2 opportunities from 2 events, got %d", len(opps))
	}
	actions := map[Action]bool{}
	for _, opp := range opps {
		actions[opp.Action] = true
	}
	if !actions[ActionBuy] || !actions[ActionPrepareSell] {
		t.Errorf("expected one BUY and one PREPARE_SELL, got %+v", opps)
	}
}

func TestDetect_UnknownInstrumentSkipped(t *testing.T) {
	d := NewDetector(newWindowConfig())
	cal := calendarWith(map[string][]string{
		"A": {"2025-07-15"},
		"Z": {"2025-07-15"}, // no metadata
	})

	opps := d.Detect(cal, testMeta(), mustDate(t, "2025-07-16"))

	if len(opps) != 1 {
		t.Fatalf("expected only the known instrument, got %d opportunities", len(opps))
	}
	if opps[0].Instrument != "A" {
		t.Errorf("expected instrument A, got %s", opps[0].Instrument)
	}
}

func TestDetect_EmptyCalendar(t *testing.T) {
	d := NewDetector(newWindowConfig())

	opps := d.Detect(calendar.Calendar{}, testMeta(), mustDate(t, "2025-07-16"))

	if len(opps) != 0 {
		t.Errorf("expected no opportunities for empty calendar, got %d", len(opps))
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := NewDetector(newWindowConfig())
	cal := calendarWith(map[string][]string{
		"A": {"2025-07-14"},
		"B": {"2025-07-15"},
		"C": {"2025-07-13", "2025-07-18"},
	})
	today := mustDate(t, "2025-07-16")

	first := d.Detect(cal, testMeta(), today)
	second := d.Detect(cal, testMeta(), today)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical output lists")
	}
	if len(first) == 0 {
		t.Fatal("scenario should produce opportunities")
	}
}

func TestDetect_TimeOfDayIgnored(t *testing.T) {
	d := NewDetector(newWindowConfig())
	cal := calendarWith(map[string][]string{"A": {"2025-07-15"}})

	morning := mustDate(t, "2025-07-16")
	evening := morning.Add(23*time.Hour + 59*time.Minute)

	if !reflect.DeepEqual(d.Detect(cal, testMeta(), morning), d.Detect(cal, testMeta(), evening)) {
		t.Error("evaluation must depend only on the calendar date")
	}
}
