// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package behavior turns activity snapshots into BehaviorInfo: a content
mode, the time spent in the current (app, mode) state, and a trend
label when the state qualifies for a danmaku event.

The analyzer is single-writer: only the sampler goroutine calls
Analyze, so the internal state carries no lock. State transitions are
monotonic; snapshots with non-increasing timestamps are tolerated
(duration clamps at zero) but never rewind the state.
*/
package behavior
