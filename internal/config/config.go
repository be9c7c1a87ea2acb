package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	General     GeneralConfig      `toml:"general"`
	Schedule    ScheduleConfig     `toml:"schedule"`
	Calendar    CalendarConfig     `toml:"calendar"`
	Windows     WindowConfig       `toml:"windows"`
	Publish     PublishConfig      `toml:"publish"`
	Instruments []InstrumentConfig `toml:"instrument"`
}

type GeneralConfig struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
}

type ScheduleConfig struct {
	ScanInterval   Duration `toml:"scan_interval"`
	ReportInterval Duration `toml:"report_interval"`
}

type CalendarConfig struct {
	OverridesPath string `toml:"overrides_path"`
	// CycleToleranceDays decides whether a confirmed date corresponds to a
	// predicted one from the same distribution cycle. Cycles are quarterly
	// (~90 days apart) and confirmed dates have historically drifted at most
	// a few days from the prediction, so 10 separates "same cycle" from
	// "adjacent cycle" with margin either way.
	CycleToleranceDays int `toml:"cycle_tolerance_days"`
}

// WindowConfig holds the entry/exit window thresholds. The defaults come from
// the historical backtest over 37 completed distribution cycles: the post
// ex-dividend recovery was strongest in the first 3 trading days and had
// mostly played out after day 7, and positions were historically flattened
// within 3 days of the next ex-dividend date.
type WindowConfig struct {
	BuyWindowDays      int `toml:"buy_window_days"`
	HighConfidenceDays int `toml:"high_confidence_days"`
	PrepareSellDays    int `toml:"prepare_sell_days"`
}

type PublishConfig struct {
	Enabled bool     `toml:"enabled"`
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// InstrumentConfig is the immutable reference data for one tracked ETF.
type InstrumentConfig struct {
	Code              string  `toml:"code"`
	Name              string  `toml:"name"`
	Priority          int     `toml:"priority"`
	ExpectedReturnPct float64 `toml:"expected_return_pct"`
	SuccessRate       float64 `toml:"success_rate"`
}

// Duration wraps time.Duration for TOML unmarshaling.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Load reads the TOML config at path on top of the defaults. A missing file
// is not an error: the defaults describe a fully working setup, matching the
// degrade-don't-crash policy used everywhere else in this system.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DBPath:   "./data/divradar.db",
			LogLevel: "info",
		},
		Schedule: ScheduleConfig{
			ScanInterval:   Duration{6 * time.Hour},
			ReportInterval: Duration{24 * time.Hour},
		},
		Calendar: CalendarConfig{
			OverridesPath:      "./data/dynamic_dividend.json",
			CycleToleranceDays: 10,
		},
		Windows: WindowConfig{
			BuyWindowDays:      7,
			HighConfidenceDays: 3,
			PrepareSellDays:    3,
		},
		Publish: PublishConfig{
			Enabled: false,
			Timeout: Duration{10 * time.Second},
		},
		Instruments: []InstrumentConfig{
			{
				Code:              "0056",
				Name:              "Yuanta Taiwan High Dividend ETF",
				Priority:          1,
				ExpectedReturnPct: 9.43,
				SuccessRate:       0.625,
			},
			{
				Code:              "00878",
				Name:              "Cathay Sustainable High Dividend ETF",
				Priority:          3,
				ExpectedReturnPct: 5.56,
				SuccessRate:       0.526,
			},
			{
				Code:              "00919",
				Name:              "Capital TIP Select High Dividend ETF",
				Priority:          2,
				ExpectedReturnPct: 6.26,
				SuccessRate:       0.50,
			},
		},
	}
}
