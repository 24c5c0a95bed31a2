// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where the config file is searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"moyuban.yaml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "MOYUBAN_CONFIG"

// envPrefix namespaces all environment overrides.
const envPrefix = "MOYUBAN_"

// Load loads configuration with layered sources:
//  1. Defaults from Default()
//  2. Optional YAML config file
//  3. MOYUBAN_* environment variables (highest priority)
//
// Out-of-range numeric fields are clamped and logged, then the result
// is validated. Unknown keys in the file or environment are ignored.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path
// skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Clamp()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or empty.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sectionPrefixes maps flattened env var section prefixes to their
// koanf path prefix. Needed because behavior_recognition itself
// contains underscores.
var sectionPrefixes = []struct {
	env  string
	path string
}{
	{"behavior_recognition_", "behavior_recognition."},
	{"database_", "database."},
	{"rules_", "rules."},
	{"logging_", "logging."},
}

// envTransform maps environment variable names to koanf paths:
//
//	MOYUBAN_BEHAVIOR_RECOGNITION_TRIGGER_PROBABILITY -> behavior_recognition.trigger_probability
//	MOYUBAN_DATABASE_PATH                            -> database.path
//
// Variables outside the known sections are dropped.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	for _, sp := range sectionPrefixes {
		if strings.HasPrefix(key, sp.env) {
			return sp.path + strings.TrimPrefix(key, sp.env)
		}
	}
	return ""
}
