// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package orchestrator is the engine's single public surface. It owns
every pipeline component — store, classifiers, analyzer, event engine,
template bank, sampler — and the supervisor tree that keeps the
background services running.

The host process interacts through four calls: Start, Stop,
PullNextMessage, and ReloadConfig. Messages wait in a small bounded
queue; when the host pulls too slowly the oldest message is dropped,
because stale danmaku is worse than no danmaku.
*/
package orchestrator
