package report

import (
	"database/sql"
	"fmt"
)

// Tracker computes run-history metrics from the database.
type Tracker struct {
	db *sql.DB
}

func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// Report contains the aggregated run history.
type Report struct {
	TotalRuns           int
	FirstRun            string
	LastRun             string
	TotalOpportunities  int
	BuySignals          int
	PrepareSellSignals  int
	HighConfidenceShare float64 // high-confidence BUYs as a share of all BUYs
	WarningCount        int
	InstrumentStats     map[string]InstrumentStats
}

// InstrumentStats contains per-instrument signal history.
type InstrumentStats struct {
	Opportunities  int
	BuySignals     int
	PrepareSell    int
	HighConfidence int
	LastSeen       string
}

// Generate computes the full report.
func (t *Tracker) Generate() (*Report, error) {
	r := &Report{
		InstrumentStats: make(map[string]InstrumentStats),
	}

	if err := t.computeOverall(r); err != nil {
		return nil, fmt.Errorf("computing overall stats: %w", err)
	}
	if err := t.computeInstrumentStats(r); err != nil {
		return nil, fmt.Errorf("computing instrument stats: %w", err)
	}

	return r, nil
}

func (t *Tracker) computeOverall(r *Report) error {
	row := t.db.QueryRow(`
		SELECT COUNT(*), COALESCE(MIN(evaluated_for), ''), COALESCE(MAX(evaluated_for), '')
		FROM runs`)
	if err := row.Scan(&r.TotalRuns, &r.FirstRun, &r.LastRun); err != nil {
		return err
	}

	row = t.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN action = 'BUY' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN action = 'PREPARE_SELL' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN action = 'BUY' AND confidence = 'high' THEN 1 ELSE 0 END), 0)
		FROM opportunities`)
	var highConf int
	if err := row.Scan(&r.TotalOpportunities, &r.BuySignals, &r.PrepareSellSignals, &highConf); err != nil {
		return err
	}
	if r.BuySignals > 0 {
		r.HighConfidenceShare = float64(highConf) / float64(r.BuySignals)
	}

	row = t.db.QueryRow(`SELECT COUNT(*) FROM resolution_warnings`)
	return row.Scan(&r.WarningCount)
}

func (t *Tracker) computeInstrumentStats(r *Report) error {
	rows, err := t.db.Query(`
		SELECT o.instrument, COUNT(*),
		       COALESCE(SUM(CASE WHEN o.action = 'BUY' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN o.action = 'PREPARE_SELL' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN o.action = 'BUY' AND o.confidence = 'high' THEN 1 ELSE 0 END), 0),
		       COALESCE(MAX(r.evaluated_for), '')
		FROM opportunities o
		JOIN runs r ON r.id = o.run_id
		GROUP BY o.instrument`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		var stats InstrumentStats
		if err := rows.Scan(&code, &stats.Opportunities, &stats.BuySignals, &stats.PrepareSell, &stats.HighConfidence, &stats.LastSeen); err != nil {
			return err
		}
		r.InstrumentStats[code] = stats
	}
	return rows.Err()
}
