package persistence

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL,
		severity TEXT NOT NULL,
		source_ip TEXT NOT NULL,
		dest_ip TEXT NOT NULL DEFAULT '',
		protocol TEXT NOT NULL DEFAULT '',
		score REAL NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at);`,
	`CREATE TABLE IF NOT EXISTS blocks (
		ip TEXT PRIMARY KEY,
		reason TEXT NOT NULL DEFAULT '',
		trusted INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_created_at ON blocks(created_at);`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return nil
}
