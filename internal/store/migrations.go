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

CREATE TABLE IF NOT EXISTS exports (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	version     TEXT NOT NULL DEFAULT '',
	rule_count  INTEGER NOT NULL DEFAULT 0,
	point_count INTEGER NOT NULL DEFAULT 0,
	exported_at DATETIME NOT NULL,
	body        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exports_exported_at ON exports(exported_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
