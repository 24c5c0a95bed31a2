// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package database provides the embedded DuckDB store for activity
snapshots.

One table, activity_snapshots, holds every foreground-window
observation the sampler captures, indexed on timestamp. The table has a
single writer (the sampler goroutine) and arbitrary readers
(statistics, retention cleanup); readers keep their transactions short.

Retention is time-bounded: Cleanup deletes rows older than the
configured number of days and is idempotent.
*/
package database
