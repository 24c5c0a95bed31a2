// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package sampler runs the periodic sampling loop that drives the whole
pipeline: probe the foreground window, persist the snapshot, analyze
behavior, feed the event engine, and materialize at most one message
per tick.

The sampler is a suture.Service. It owns the only goroutine that
touches the behavior analyzer, so the analyzer needs no locking. A
probe failure skips the tick; a persistence failure is logged and
analysis proceeds, since classification only needs the in-memory
snapshot.
*/
package sampler
