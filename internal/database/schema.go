// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// createSchema creates the activity_snapshots table and its index.
// DuckDB has no AUTOINCREMENT; ids come from an explicit sequence.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS activity_snapshots_id_seq`,
		`CREATE TABLE IF NOT EXISTS activity_snapshots (
			id BIGINT PRIMARY KEY DEFAULT nextval('activity_snapshots_id_seq'),
			app TEXT NOT NULL,
			window_title TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			timestamp BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_snapshots_timestamp
			ON activity_snapshots (timestamp)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
