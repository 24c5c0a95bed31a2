// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

// Package logging provides centralized zerolog-based structured logging
// for Moyuban.
//
// The engine runs inside a desktop overlay process, so logs default to
// console format on stderr; the host can switch to JSON for log shipping.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "console"})
//
//	logging.Info().Str("app", "Code.exe").Msg("snapshot captured")
//	logging.Error().Err(err).Msg("persist failed")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// chain is silently dropped by zerolog.
//
// The package also exposes an slog adapter (NewSlogLogger) so that
// suture's supervisor events are routed through zerolog.
package logging
