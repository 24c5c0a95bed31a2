// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

// Package config loads and validates Moyuban's configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: MOYUBAN_* overrides
//
// The behavior engine reads exactly one configuration surface from the
// host (the behavior_recognition section plus database, rule file and
// logging settings). Unknown keys are ignored; out-of-range numeric
// values are clamped and logged at load time. Hot reload through the
// orchestrator uses strict validation instead: an invalid snapshot is
// rejected as a whole and the prior configuration stays active.
//
// Config is immutable after Load and safe for concurrent reads.
package config
