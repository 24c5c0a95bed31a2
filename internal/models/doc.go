// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package models defines the data structures shared across the Moyuban
behavior pipeline.

Key Components:

  - ActivitySnapshot: One foreground-window observation captured at a
    sampling tick; the only persisted model.
  - AppCategory / DomainCategory / ContentMode / BehaviorTrend: closed
    classification sets used by the analyzer.
  - BehaviorInfo: The analyzer's per-snapshot output (mode, duration in
    state, trend). Derived, never persisted.
  - DanmakuEvent: A candidate message queued by the event engine,
    ordered by priority then arrival.
  - Tone: The stylistic axis of the template banks.

All enum-like types are string-backed so they read naturally in logs,
rule files, and the database.
*/
package models
