// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package engine holds the candidate-event pipeline between the behavior
analyzer and message materialization.

A BehaviorInfo with a non-none trend passes a probability gate, gets a
priority from its trend, and lands in a thread-safe priority queue.
Consumption pops in priority order (arrival sequence breaks ties, so
ordering is total and reproducible), asks the cooldown manager for
admission, jitters the emission timestamp, and records the emission.

Dropped candidates are counted, never retried; the next qualifying
snapshot produces a fresh one.
*/
package engine
