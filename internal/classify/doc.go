// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package classify maps process names to app categories and URLs to
domain categories with content modes.

Rule tables are loaded from JSON files (or the embedded defaults) and
are immutable after load. Hot reload swaps a whole table atomically;
readers never see a partially updated table. Classification is
deterministic and total: unknown inputs map to "other"/"unknown"
rather than erroring.
*/
package classify
