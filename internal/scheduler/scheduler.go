package scheduler

import (
	"context"
	"log/slog"
	"time"

	"divradar/internal/calendar"
	"divradar/internal/config"
	"divradar/internal/publish"
	"divradar/internal/report"
	"divradar/internal/store"
	"divradar/internal/strategy"
)

// Scheduler orchestrates the periodic analysis loop. The core pipeline it
// drives (resolve, detect, rank) is pure; everything stateful — the override
// snapshot, the SQLite history, the remote store — is touched only here.
type Scheduler struct {
	baseline      calendar.Baseline
	overridesPath string
	resolver      *calendar.Resolver
	detector      *strategy.Detector
	meta          strategy.MetaTable
	repo          *store.Repository
	publisher     *publish.Publisher
	tracker       *report.Tracker
	cfg           config.ScheduleConfig
}

// New creates a new Scheduler with all dependencies.
func New(
	baseline calendar.Baseline,
	overridesPath string,
	resolver *calendar.Resolver,
	detector *strategy.Detector,
	meta strategy.MetaTable,
	repo *store.Repository,
	publisher *publish.Publisher,
	tracker *report.Tracker,
	cfg config.ScheduleConfig,
) *Scheduler {
	return &Scheduler{
		baseline:      baseline,
		overridesPath: overridesPath,
		resolver:      resolver,
		detector:      detector,
		meta:          meta,
		repo:          repo,
		publisher:     publisher,
		tracker:       tracker,
		cfg:           cfg,
	}
}

// Run starts the periodic loops and blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler starting",
		"scan_interval", s.cfg.ScanInterval.Duration,
		"report_interval", s.cfg.ReportInterval.Duration,
	)

	// Run first cycle immediately.
	s.RunCycle(ctx, time.Now())

	scanTicker := time.NewTicker(s.cfg.ScanInterval.Duration)
	reportTicker := time.NewTicker(s.cfg.ReportInterval.Duration)
	defer scanTicker.Stop()
	defer reportTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()
		case <-scanTicker.C:
			s.RunCycle(ctx, time.Now())
		case <-reportTicker.C:
			s.RunReport()
		}
	}
}

// RunCycle executes one full evaluation: snapshot the override store,
// resolve the calendar, detect and rank the open windows, persist the run,
// and publish it. Validation problems degrade per instrument and publishing
// failures are logged; nothing here aborts the loop.
func (s *Scheduler) RunCycle(ctx context.Context, today time.Time) strategy.RankedResult {
	evaluatedFor := calendar.DateOnly(today).Format(calendar.DateLayout)
	slog.Info("starting analysis cycle", "evaluated_for", evaluatedFor)

	overrides, err := calendar.LoadOverrides(s.overridesPath)
	if err != nil {
		// Unreadable override store degrades to the static baseline.
		slog.Error("failed to load override store, using baseline only", "error", err)
		overrides = calendar.OverrideSet{}
	}

	cal, warnings := s.resolver.Resolve(s.baseline, overrides)
	for _, w := range warnings {
		slog.Warn("calendar resolution warning", "instrument", w.Instrument, "reason", w.Reason)
	}

	opps := s.detector.Detect(cal, s.meta, today)
	result := strategy.Rank(opps, s.meta)

	slog.Info("analysis cycle evaluated",
		"instruments", len(cal),
		"opportunities", len(result.Opportunities),
		"buy", result.Summary.BuyCount,
		"prepare_sell", result.Summary.PrepareSellCount,
		"high_confidence", result.Summary.HighConfidenceCount,
	)

	runID, err := s.repo.SaveRun(evaluatedFor, result, cal, warnings)
	if err != nil {
		slog.Error("failed to persist run", "error", err)
	} else {
		slog.Info("run persisted", "run_id", runID)
	}

	if s.publisher.Enabled() {
		if err := s.publisher.PublishRun(ctx, evaluatedFor, result); err != nil {
			slog.Error("failed to publish run", "error", err)
		} else {
			slog.Info("run published", "evaluated_for", evaluatedFor)
		}
	}

	return result
}

// RunReport generates and logs the run-history report.
func (s *Scheduler) RunReport() {
	r, err := s.tracker.Generate()
	if err != nil {
		slog.Error("run history report failed", "error", err)
		return
	}
	report.LogReport(r)
}
