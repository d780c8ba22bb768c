package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS message (
	id        INTEGER PRIMARY KEY,
	folder    TEXT NOT NULL,
	sent      INTEGER NOT NULL CHECK(sent IN (0, 1)),
	subject   TEXT,
	timestamp INTEGER NOT NULL,
	sender    TEXT NOT NULL,
	receiver  TEXT NOT NULL,
	text      TEXT NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE message ADD COLUMN fetched_at DATETIME NOT NULL DEFAULT '1970-01-01 00:00:00';

CREATE INDEX IF NOT EXISTS idx_message_sender ON message(sender);
CREATE INDEX IF NOT EXISTS idx_message_receiver ON message(receiver);
CREATE INDEX IF NOT EXISTS idx_message_folder ON message(folder);

CREATE TABLE IF NOT EXISTS sync_runs (
	id             TEXT PRIMARY KEY,
	folders        TEXT NOT NULL,
	pages          INTEGER NOT NULL DEFAULT 0,
	scanned        INTEGER NOT NULL DEFAULT 0,
	new_count      INTEGER NOT NULL DEFAULT 0,
	moved_count    INTEGER NOT NULL DEFAULT 0,
	restored_count INTEGER NOT NULL DEFAULT 0,
	started_at     DATETIME NOT NULL,
	finished_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_finished ON sync_runs(finished_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
