package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"divradar/internal/backtest"
	"divradar/internal/calendar"
	"divradar/internal/config"
	"divradar/internal/publish"
	"divradar/internal/report"
	"divradar/internal/scheduler"
	"divradar/internal/store"
	"divradar/internal/strategy"
)

func main() {
	// Parse CLI flags.
	once := flag.Bool("once", false, "Run a single analysis cycle and exit")
	dateStr := flag.String("date", "", "Evaluation date override (YYYY-MM-DD), used with -once")
	replayMode := flag.Bool("replay", false, "Replay the detector over a historical date range")
	replayFrom := flag.String("from", "", "Replay start date (YYYY-MM-DD)")
	replayTo := flag.String("to", "", "Replay end date (YYYY-MM-DD)")
	flag.Parse()

	// Local secrets (Firebase URL) come from .env when present.
	godotenv.Load()

	// Load configuration.
	configPath := "config.toml"
	if p := os.Getenv("DR_CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.General.LogLevel),
	})))

	slog.Info("divradar starting")

	if url := os.Getenv("FIREBASE_URL"); url != "" {
		cfg.Publish.BaseURL = url
	}

	baseline := calendar.DefaultBaseline()
	resolver := calendar.NewResolver(cfg.Calendar)
	detector := strategy.NewDetector(cfg.Windows)
	meta := strategy.MetaFromConfig(cfg.Instruments)

	// Replay mode needs no database or publisher.
	if *replayMode {
		overrides, err := calendar.LoadOverrides(cfg.Calendar.OverridesPath)
		if err != nil {
			slog.Error("failed to load override store", "error", err)
			os.Exit(1)
		}
		cal, warnings := resolver.Resolve(baseline, overrides)
		for _, w := range warnings {
			slog.Warn("calendar resolution warning", "instrument", w.Instrument, "reason", w.Reason)
		}

		runner := backtest.NewRunner(cal, meta, detector)
		if err := runner.Run(*replayFrom, *replayTo); err != nil {
			slog.Error("replay failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Initialize database.
	database, err := store.Open(cfg.General.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := store.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database initialized", "path", cfg.General.DBPath)

	repo := store.NewRepository(database)
	publisher := publish.NewPublisher(cfg.Publish)
	tracker := report.NewTracker(database)

	sched := scheduler.New(
		baseline, cfg.Calendar.OverridesPath, resolver, detector, meta,
		repo, publisher, tracker, cfg.Schedule,
	)

	if *once {
		today := time.Now()
		if *dateStr != "" {
			today, err = calendar.ParseDate(*dateStr)
			if err != nil {
				slog.Error("invalid -date", "error", err)
				os.Exit(1)
			}
		}
		sched.RunCycle(context.Background(), today)
		sched.RunReport()
		return
	}

	// Graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := sched.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	slog.Info("divradar stopped")
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
