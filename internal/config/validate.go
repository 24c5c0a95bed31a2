// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/moyuban/moyuban/internal/logging"
)

// ErrInvalid marks configuration validation failures so callers can
// distinguish them from I/O errors.
var ErrInvalid = errors.New("invalid configuration")

// validate is shared; validator instances cache struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Clamp forces out-of-range numeric fields back into their documented
// ranges, logging each adjustment. Used on host-supplied files where a
// single bad knob should not take the whole overlay down.
func (c *Config) Clamp() {
	b := &c.Behavior
	b.CollectionInterval = clampInt("behavior_recognition.collection_interval", b.CollectionInterval, 1, 60)
	b.TriggerProbability = clampFloat("behavior_recognition.trigger_probability", b.TriggerProbability, 0.0, 1.0)
	b.JitterRangeSec = clampInt("behavior_recognition.jitter_range_sec", b.JitterRangeSec, 0, 30)
	b.GlobalCooldown = clampInt("behavior_recognition.global_cooldown", b.GlobalCooldown, 0, 86400)
	b.CategoryCooldown = clampInt("behavior_recognition.category_cooldown", b.CategoryCooldown, 0, 86400)
	b.ToneCooldown = clampInt("behavior_recognition.tone_cooldown", b.ToneCooldown, 0, 86400)
	b.RetentionDays = clampInt("behavior_recognition.retention_days", b.RetentionDays, 1, 3650)

	if c.Database.Threads < 0 {
		logging.Warn().Int("threads", c.Database.Threads).Msg("database.threads negative, using 0 (auto)")
		c.Database.Threads = 0
	}
}

// Validate strictly checks the configuration. Unlike Clamp it never
// mutates; hot reload rejects the snapshot as a whole on any error so
// the prior configuration stays active.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Database.MaxMemory == "" {
		return fmt.Errorf("%w: database.max_memory must not be empty", ErrInvalid)
	}
	return nil
}

func clampInt(field string, v, lo, hi int) int {
	if v < lo {
		logging.Warn().Str("field", field).Int("value", v).Int("min", lo).Msg("config value below range, clamped")
		return lo
	}
	if v > hi {
		logging.Warn().Str("field", field).Int("value", v).Int("max", hi).Msg("config value above range, clamped")
		return hi
	}
	return v
}

func clampFloat(field string, v, lo, hi float64) float64 {
	if v < lo {
		logging.Warn().Str("field", field).Float64("value", v).Float64("min", lo).Msg("config value below range, clamped")
		return lo
	}
	if v > hi {
		logging.Warn().Str("field", field).Float64("value", v).Float64("max", hi).Msg("config value above range, clamped")
		return hi
	}
	return v
}
