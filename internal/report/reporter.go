package report

import (
	"log/slog"
)

// LogReport logs the run-history report as structured JSON.
func LogReport(r *Report) {
	slog.Info("=== RUN HISTORY REPORT ===",
		"total_runs", r.TotalRuns,
		"first_run", r.FirstRun,
		"last_run", r.LastRun,
		"opportunities", r.TotalOpportunities,
		"buy_signals", r.BuySignals,
		"prepare_sell_signals", r.PrepareSellSignals,
		"high_confidence_share", r.HighConfidenceShare,
		"resolution_warnings", r.WarningCount,
	)

	for code, stats := range r.InstrumentStats {
		slog.Info("instrument history",
			"instrument", code,
			"opportunities", stats.Opportunities,
			"buy_signals", stats.BuySignals,
			"prepare_sell_signals", stats.PrepareSell,
			"high_confidence", stats.HighConfidence,
			"last_seen", stats.LastSeen,
		)
	}
}
