package db

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is recorded in schema_version after the schema is applied.
const SchemaVersion = 1

// SchemaSQL is the complete schema for the outcome ledger.
//
// This is the single source of truth for the database schema. Tests load it
// through GetSchemaSQL() instead of declaring their own tables, so a
// repository that references a missing column fails immediately.
//
// The ledger is append-only: rows are written when a mission resolution is
// announced and are never read back into the simulation.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Runs (one row per simulate invocation)
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	scenario TEXT NOT NULL,
	seed INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Mission outcomes (append-only)
CREATE TABLE IF NOT EXISTS mission_outcomes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT,
	quest_id TEXT NOT NULL,
	party_id TEXT NOT NULL,
	grade TEXT NOT NULL CHECK(grade IN ('critical_success', 'success', 'partial_success', 'fail')),
	success_chance REAL NOT NULL,
	roll_value REAL NOT NULL,
	gold INTEGER NOT NULL DEFAULT 0,
	reputation INTEGER NOT NULL DEFAULT 0,
	items TEXT,
	injury_count INTEGER NOT NULL DEFAULT 0,
	fatigue_delta INTEGER NOT NULL DEFAULT 0,
	resolved_day INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_mission_outcomes_quest ON mission_outcomes(quest_id);
CREATE INDEX IF NOT EXISTS idx_mission_outcomes_run ON mission_outcomes(run_id);
`

// InitSchema applies SchemaSQL and records the schema version. It is safe
// to call on an existing ledger.
func InitSchema(conn *sql.DB) error {
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	var current int
	if err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}

	if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
