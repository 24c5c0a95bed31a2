// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package config

import "time"

// Config holds all engine configuration loaded from defaults, the
// optional YAML config file, and MOYUBAN_* environment variables.
type Config struct {
	Behavior BehaviorConfig `koanf:"behavior_recognition"`
	Database DatabaseConfig `koanf:"database"`
	Rules    RulesConfig    `koanf:"rules"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// BehaviorConfig is the behavior_recognition section — the one surface
// the core reads from its host.
type BehaviorConfig struct {
	// Enabled is the master switch for the sampling pipeline.
	Enabled bool `koanf:"enabled"`

	// CollectionInterval is the sampling period in seconds (1..60).
	CollectionInterval int `koanf:"collection_interval" validate:"min=1,max=60"`

	// TriggerProbability gates event admission, 0.0..1.0.
	TriggerProbability float64 `koanf:"trigger_probability" validate:"min=0,max=1"`

	// JitterRangeSec is the half-width of the uniform jitter applied to
	// emission timestamps, 0..30 seconds.
	JitterRangeSec int `koanf:"jitter_range_sec" validate:"min=0,max=30"`

	// GlobalCooldown is the minimum seconds between any two emissions.
	GlobalCooldown int `koanf:"global_cooldown" validate:"min=0"`

	// CategoryCooldown is the minimum seconds between emissions of the
	// same category.
	CategoryCooldown int `koanf:"category_cooldown" validate:"min=0"`

	// ToneCooldown is the minimum seconds between emissions of the same
	// tone.
	ToneCooldown int `koanf:"tone_cooldown" validate:"min=0"`

	// RetentionDays bounds how long activity snapshots are kept.
	RetentionDays int `koanf:"retention_days" validate:"min=1"`
}

// CollectionIntervalDuration returns the sampling period as a Duration.
func (b BehaviorConfig) CollectionIntervalDuration() time.Duration {
	return time.Duration(b.CollectionInterval) * time.Second
}

// DatabaseConfig holds the embedded DuckDB settings.
type DatabaseConfig struct {
	// Path is the single database file. Empty means in-memory (tests).
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB's memory use, e.g. "256MB".
	MaxMemory string `koanf:"max_memory"`

	// Threads limits DuckDB worker threads. 0 = runtime.NumCPU().
	// A desktop overlay should stay small, hence the default of 1.
	Threads int `koanf:"threads"`
}

// RulesConfig points at the rule and template files. Empty paths fall
// back to the embedded defaults shipped with the binary.
type RulesConfig struct {
	AppRulesPath    string `koanf:"app_rules_path"`
	DomainRulesPath string `koanf:"domain_rules_path"`
	TemplatesPath   string `koanf:"templates_path"`
}

// LoggingConfig holds log level and output format.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config with all default values applied. These match
// the documented defaults of the behavior_recognition section.
func Default() *Config {
	return &Config{
		Behavior: BehaviorConfig{
			Enabled:            true,
			CollectionInterval: 5,
			TriggerProbability: 0.4,
			JitterRangeSec:     5,
			GlobalCooldown:     30,
			CategoryCooldown:   60,
			ToneCooldown:       120,
			RetentionDays:      30,
		},
		Database: DatabaseConfig{
			Path:      "data/moyuban.duckdb",
			MaxMemory: "256MB",
			Threads:   1,
		},
		Rules: RulesConfig{
			AppRulesPath:    "",
			DomainRulesPath: "",
			TemplatesPath:   "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}
