package store

import (
	"database/sql"
	"fmt"
	"time"

	"divradar/internal/calendar"
	"divradar/internal/strategy"
)

// Repository writes completed analysis runs.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveRun records one evaluation: its summary row, every ranked opportunity
// in rank order, the resolved calendar snapshot it was computed from, and
// any resolution warnings. The whole run is written in a single transaction
// so the history never contains a half-saved run.
func (r *Repository) SaveRun(evaluatedFor string, result strategy.RankedResult, cal calendar.Calendar, warnings []calendar.Warning) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (evaluated_for, buy_count, prepare_sell_count, high_confidence_count)
		VALUES (?, ?, ?, ?)`,
		evaluatedFor, result.Summary.BuyCount, result.Summary.PrepareSellCount, result.Summary.HighConfidenceCount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, opp := range result.Opportunities {
		_, err := tx.Exec(`
			INSERT INTO opportunities (run_id, position, instrument, action, event_date, days_from_event, confidence, expected_return_pct, success_rate, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i+1, opp.Instrument, string(opp.Action), opp.EventDate, opp.DaysFromEvent,
			string(opp.Confidence), opp.ExpectedReturnPct, opp.SuccessRate, opp.Reason,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting opportunity: %w", err)
		}
	}

	for _, code := range cal.Instruments() {
		for _, ev := range cal[code] {
			var updatedAt *string
			if !ev.UpdatedAt.IsZero() {
				s := ev.UpdatedAt.UTC().Format(time.RFC3339)
				updatedAt = &s
			}
			_, err := tx.Exec(`
				INSERT INTO calendar_events (run_id, instrument, event_date, source, updated_at, note)
				VALUES (?, ?, ?, ?, ?, ?)`,
				runID, ev.Instrument, ev.Date.Format(calendar.DateLayout), string(ev.Source), updatedAt, ev.Note,
			)
			if err != nil {
				return 0, fmt.Errorf("inserting calendar event: %w", err)
			}
		}
	}

	for _, w := range warnings {
		_, err := tx.Exec(`
			INSERT INTO resolution_warnings (run_id, instrument, reason)
			VALUES (?, ?, ?)`,
			runID, w.Instrument, w.Reason,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}
