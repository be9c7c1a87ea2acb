package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    evaluated_for TEXT NOT NULL,
    buy_count INTEGER NOT NULL,
    prepare_sell_count INTEGER NOT NULL,
    high_confidence_count INTEGER NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_runs_evaluated_for ON runs(evaluated_for);

CREATE TABLE IF NOT EXISTS opportunities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id),
    position INTEGER NOT NULL,
    instrument TEXT NOT NULL,
    action TEXT NOT NULL,
    event_date TEXT NOT NULL,
    days_from_event INTEGER NOT NULL,
    confidence TEXT,
    expected_return_pct REAL NOT NULL,
    success_rate REAL NOT NULL,
    reason TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_opportunities_run ON opportunities(run_id);
CREATE INDEX IF NOT EXISTS idx_opportunities_instrument ON opportunities(instrument);

CREATE TABLE IF NOT EXISTS calendar_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id),
    instrument TEXT NOT NULL,
    event_date TEXT NOT NULL,
    source TEXT NOT NULL,
    updated_at TEXT,
    note TEXT
);
CREATE INDEX IF NOT EXISTS idx_calendar_events_run ON calendar_events(run_id);

CREATE TABLE IF NOT EXISTS resolution_warnings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id),
    instrument TEXT NOT NULL,
    reason TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resolution_warnings_run ON resolution_warnings(run_id);
`
