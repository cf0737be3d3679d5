package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	exchange TEXT NOT NULL,
	segment TEXT NOT NULL,
	broker TEXT NOT NULL DEFAULT '',
	quantity INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL,
	stop_loss REAL NOT NULL DEFAULT 0,
	target REAL NOT NULL DEFAULT 0,
	open_time DATETIME NOT NULL,
	close_time DATETIME,
	notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);
CREATE INDEX IF NOT EXISTS idx_trades_open ON trades(exit_price) WHERE exit_price IS NULL;
`
