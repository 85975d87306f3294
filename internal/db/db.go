package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS qc_docs (
    id            INTEGER PRIMARY KEY,
    seq           INTEGER NOT NULL,
    name          TEXT NOT NULL,
    lot           TEXT NOT NULL,
    level         TEXT,
    assay         TEXT,
    position      TEXT,
    target_mean   REAL,
    target_sd     REAL CHECK(target_sd >= 0 OR target_sd IS NULL),
    expires_on    TEXT,
    selected      INTEGER NOT NULL DEFAULT 0 CHECK(selected IN (0,1)),
    registered_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE TABLE IF NOT EXISTS operation_logs (
    id         INTEGER PRIMARY KEY,
    operator   TEXT NOT NULL,
    action     TEXT NOT NULL,
    detail     TEXT,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_qc_docs_seq ON qc_docs(seq);
CREATE INDEX IF NOT EXISTS idx_operation_logs_created_at ON operation_logs(created_at DESC);
`

// Open opens or creates the SQLite database and initializes the schema.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}
