package ledger

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	mode TEXT NOT NULL,
	entry_price REAL NOT NULL,
	quantity REAL NOT NULL,
	rsi_entry REAL,
	macd_entry TEXT NOT NULL DEFAULT '{}',
	bb_entry TEXT NOT NULL DEFAULT '{}',
	volume_ratio REAL,
	ai_confidence REAL,
	ai_reasoning TEXT NOT NULL DEFAULT '',
	entry_fee REAL NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'OPEN',
	exit_price REAL,
	pnl_percent REAL,
	pnl_krw REAL,
	exit_reason TEXT,
	exit_timestamp DATETIME,
	holding_minutes INTEGER,
	exit_fee REAL
);

CREATE TABLE IF NOT EXISTS learning_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id INTEGER NOT NULL REFERENCES trades(id),
	created DATETIME NOT NULL,
	entry_features TEXT NOT NULL DEFAULT '{}',
	exit_features TEXT NOT NULL DEFAULT '{}',
	market_conditions TEXT NOT NULL DEFAULT '{}',
	outcome TEXT NOT NULL DEFAULT '{}',
	patterns TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS risk_events (
	event_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	kind TEXT NOT NULL,
	symbol TEXT NOT NULL DEFAULT '',
	severity TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);
CREATE INDEX IF NOT EXISTS idx_learning_trade ON learning_data(trade_id);
CREATE INDEX IF NOT EXISTS idx_risk_events_time ON risk_events(time);
`
