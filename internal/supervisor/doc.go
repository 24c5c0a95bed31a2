// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

// Package supervisor builds the suture tree that keeps the engine's
// background services alive. Services implement suture.Service
// (Serve(ctx) plus String()) and are grouped into a pipeline layer and
// a maintenance layer for failure isolation.
package supervisor
