// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package models

import "time"

// ActivitySnapshot represents one foreground-window observation taken
// at a sampling tick.
//
// Snapshots are immutable once persisted. App is the process executable
// name and is treated case-insensitively by the classifiers. URL is
// empty unless App is a known browser and best-effort extraction from
// the window title succeeded.
type ActivitySnapshot struct {
	ID          int64  `json:"id,omitempty"`
	App         string `json:"app"`
	WindowTitle string `json:"window_title"`
	URL         string `json:"url"`
	// Timestamp is seconds since epoch at capture time.
	Timestamp int64     `json:"timestamp"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SnapshotStats summarizes the persisted snapshot table.
type SnapshotStats struct {
	Total    int64 `json:"total"`
	OldestTS int64 `json:"oldest_ts"`
	NewestTS int64 `json:"newest_ts"`
}
