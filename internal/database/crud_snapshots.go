// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/models"
)

// InsertSnapshot persists one activity snapshot. Snapshots are
// immutable once written; there is no update path.
func (db *DB) InsertSnapshot(ctx context.Context, s *models.ActivitySnapshot) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := `INSERT INTO activity_snapshots (app, window_title, url, timestamp, created_at)
		VALUES (?, ?, ?, ?, ?)`

	if _, err := db.conn.ExecContext(ctx, query,
		s.App, s.WindowTitle, s.URL, s.Timestamp, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// RecentSnapshots returns the last n snapshots by timestamp descending.
// n is clamped to [1, 1000].
func (db *DB) RecentSnapshots(ctx context.Context, n int) ([]models.ActivitySnapshot, error) {
	if n < 1 {
		n = 1
	}
	if n > 1000 {
		n = 1000
	}

	query := `SELECT id, app, window_title, url, timestamp, created_at
		FROM activity_snapshots
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`

	return db.querySnapshots(ctx, query, n)
}

// SnapshotsSince returns all snapshots with timestamp >= since,
// ascending. Used by statistics and tests.
func (db *DB) SnapshotsSince(ctx context.Context, since int64) ([]models.ActivitySnapshot, error) {
	query := `SELECT id, app, window_title, url, timestamp, created_at
		FROM activity_snapshots
		WHERE timestamp >= ?
		ORDER BY timestamp ASC, id ASC`

	return db.querySnapshots(ctx, query, since)
}

func (db *DB) querySnapshots(ctx context.Context, query string, args ...any) ([]models.ActivitySnapshot, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []models.ActivitySnapshot
	for rows.Next() {
		var s models.ActivitySnapshot
		if err := rows.Scan(&s.ID, &s.App, &s.WindowTitle, &s.URL, &s.Timestamp, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot rows: %w", err)
	}
	return out, nil
}

// Stats returns total row count and the oldest/newest timestamps.
// Zero timestamps mean the table is empty.
func (db *DB) Stats(ctx context.Context) (models.SnapshotStats, error) {
	var stats models.SnapshotStats

	query := `SELECT COUNT(*), COALESCE(MIN(timestamp), 0), COALESCE(MAX(timestamp), 0)
		FROM activity_snapshots`

	if err := db.conn.QueryRowContext(ctx, query).
		Scan(&stats.Total, &stats.OldestTS, &stats.NewestTS); err != nil {
		return stats, fmt.Errorf("failed to query snapshot stats: %w", err)
	}
	return stats, nil
}

// Cleanup deletes snapshots older than the given number of days,
// returning the number of rows removed. Idempotent.
func (db *DB) Cleanup(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().Unix() - int64(days)*86400
	return db.CleanupBefore(ctx, cutoff)
}

// CleanupBefore deletes snapshots with timestamp < cutoff.
func (db *DB) CleanupBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM activity_snapshots WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up snapshots: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, nil //nolint:nilerr // driver may not report affected rows; deletion succeeded
	}
	if removed > 0 {
		logging.Info().Int64("removed", removed).Int64("cutoff", cutoff).Msg("retention sweep removed snapshots")
	}
	return removed, nil
}
