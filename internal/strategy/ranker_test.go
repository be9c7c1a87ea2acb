package strategy

import (
	"testing"
)

func TestRank_OrdersByPriority(t *testing.T) {
	meta := testMeta()
	// Input deliberately out of priority order.
	opps := []Opportunity{
		{Instrument: "C", Action: ActionBuy, DaysFromEvent: 2, Confidence: ConfidenceHigh},
		{Instrument: "A", Action: ActionBuy, DaysFromEvent: 2, Confidence: ConfidenceHigh},
	}

	result := Rank(opps, meta)

	if len(result.Opportunities) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(result.Opportunities))
	}
	if result.Opportunities[0].Instrument != "A" {
		t.Errorf("priority 1 instrument must rank first, got %s", result.Opportunities[0].Instrument)
	}
}

func TestRank_CloserToEventFirstWithinPriority(t *testing.T) {
	meta := testMeta()
	opps := []Opportunity{
		{Instrument: "A", Action: ActionBuy, EventDate: "2025-07-10", DaysFromEvent: 6, Confidence: ConfidenceMedium},
		{Instrument: "A", Action: ActionPrepareSell, EventDate: "2025-07-18", DaysFromEvent: -2},
	}

	result := Rank(opps, meta)

	if result.Opportunities[0].DaysFromEvent != -2 {
		t.Errorf("|offset| 2 should rank before |offset| 6, got %+v", result.Opportunities[0])
	}
}

func TestRank_InstrumentCodeTieBreak(t *testing.T) {
	meta := MetaTable{
		"X": {Code: "X", Priority: 1},
		"Y": {Code: "Y", Priority: 1},
	}
	opps := []Opportunity{
		{Instrument: "Y", Action: ActionBuy, DaysFromEvent: 3, Confidence: ConfidenceHigh},
		{Instrument: "X", Action: ActionBuy, DaysFromEvent: 3, Confidence: ConfidenceHigh},
	}

	result := Rank(opps, meta)

	if result.Opportunities[0].Instrument != "X" {
		t.Errorf("equal priority and offset must tie-break on code, got %s first", result.Opportunities[0].Instrument)
	}
}

func TestRank_SummaryCounts(t *testing.T) {
	meta := testMeta()
	opps := []Opportunity{
		{Instrument: "A", Action: ActionBuy, DaysFromEvent: 1, Confidence: ConfidenceHigh},
		{Instrument: "B", Action: ActionBuy, DaysFromEvent: 5, Confidence: ConfidenceMedium},
		{Instrument: "C", Action: ActionPrepareSell, DaysFromEvent: -1},
	}

	result := Rank(opps, meta)

	s := result.Summary
	if s.BuyCount != 2 {
		t.Errorf("expected 2 BUY, got %d", s.BuyCount)
	}
	if s.PrepareSellCount != 1 {
		t.Errorf("expected 1 PREPARE_SELL, got %d", s.PrepareSellCount)
	}
	if s.HighConfidenceCount != 1 {
		t.Errorf("expected 1 high-confidence BUY, got %d", s.HighConfidenceCount)
	}
}

func TestRank_ContentNeverMutated(t *testing.T) {
	meta := testMeta()
	opp := Opportunity{
		Instrument:        "A",
		Action:            ActionBuy,
		EventDate:         "2025-07-15",
		DaysFromEvent:     1,
		Confidence:        ConfidenceHigh,
		ExpectedReturnPct: 9.43,
		SuccessRate:       0.625,
		Reason:            "day 1 after ex-dividend, entry window open through day 7",
	}

	result := Rank([]Opportunity{opp}, meta)

	if result.Opportunities[0] != opp {
		t.Errorf("ranking altered opportunity content: %+v", result.Opportunities[0])
	}
}

func TestRank_UnknownInstrumentExcluded(t *testing.T) {
	meta := testMeta()
	opps := []Opportunity{
		{Instrument: "A", Action: ActionBuy, DaysFromEvent: 1, Confidence: ConfidenceHigh},
		{Instrument: "ZZ", Action: ActionBuy, DaysFromEvent: 1, Confidence: ConfidenceHigh},
	}

	result := Rank(opps, meta)

	if len(result.Opportunities) != 1 {
		t.Fatalf("expected unknown instrument excluded, got %d opportunities", len(result.Opportunities))
	}
	if result.Summary.BuyCount != 1 {
		t.Errorf("summary must tally the ranked sequence only, got %d", result.Summary.BuyCount)
	}
}

func TestRank_Empty(t *testing.T) {
	result := Rank(nil, testMeta())

	if len(result.Opportunities) != 0 {
		t.Errorf("expected empty result, got %d", len(result.Opportunities))
	}
	if result.Summary != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", result.Summary)
	}
}
