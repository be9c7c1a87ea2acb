package calendar

// Baseline is the static table of predicted ex-dividend dates per instrument,
// derived from historical quarterly periodicity. It is pure data, versioned
// by code change only; confirmed corrections belong in the override store.
type Baseline map[string][]string

// DefaultBaseline returns the current predictions for the tracked ETFs.
//
// 0056 pays mid January/April/July/October, 00878 mid-to-late
// February/May/August/November, 00919 mid March/June/September/December.
// Last reviewed against the 2024 distribution history.
func DefaultBaseline() Baseline {
	return Baseline{
		"0056": {
			"2025-07-15", "2025-10-15",
			"2026-01-15", "2026-04-15",
		},
		"00878": {
			"2025-08-16", "2025-11-21",
			"2026-02-20", "2026-05-19",
		},
		"00919": {
			"2025-09-16", "2025-12-16",
			"2026-03-17", "2026-06-17",
		},
	}
}
