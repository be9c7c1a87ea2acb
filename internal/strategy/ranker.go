package strategy

import (
	"log/slog"
	"sort"
)

// Summary tallies a ranked result. PREPARE_SELL items count only toward
// PrepareSellCount; HighConfidenceCount covers BUY items alone.
type Summary struct {
	BuyCount            int `json:"buy_count"`
	PrepareSellCount    int `json:"prepare_sell_count"`
	HighConfidenceCount int `json:"high_confidence_count"`
}

// RankedResult is the final ordered opportunity set handed to the
// persistence and reporting collaborators.
type RankedResult struct {
	Opportunities []Opportunity `json:"opportunities"`
	Summary       Summary       `json:"summary"`
}

// Rank orders opportunities by instrument priority, then by proximity to the
// event date, then by instrument code for determinism, and tallies the
// summary. Content is never mutated; the only items dropped are ones whose
// instrument has no metadata, which cannot normally occur since the detector
// already excludes those.
func Rank(opps []Opportunity, meta MetaTable) RankedResult {
	ranked := make([]Opportunity, 0, len(opps))
	for _, opp := range opps {
		if _, ok := meta[opp.Instrument]; !ok {
			slog.Warn("opportunity for unknown instrument excluded from ranking", "instrument", opp.Instrument)
			continue
		}
		ranked = append(ranked, opp)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := meta[ranked[i].Instrument].Priority, meta[ranked[j].Instrument].Priority
		if pi != pj {
			return pi < pj
		}
		di, dj := abs(ranked[i].DaysFromEvent), abs(ranked[j].DaysFromEvent)
		if di != dj {
			return di < dj
		}
		return ranked[i].Instrument < ranked[j].Instrument
	})

	var summary Summary
	for _, opp := range ranked {
		switch opp.Action {
		case ActionBuy:
			summary.BuyCount++
			if opp.Confidence == ConfidenceHigh {
				summary.HighConfidenceCount++
			}
		case ActionPrepareSell:
			summary.PrepareSellCount++
		}
	}

	return RankedResult{Opportunities: ranked, Summary: summary}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
