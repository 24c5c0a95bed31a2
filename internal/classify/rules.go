// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package classify

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/moyuban/moyuban/internal/models"
)

//go:embed app_rules.json
var defaultAppRules []byte

//go:embed domain_rules.json
var defaultDomainRules []byte

// appRulesFile is the on-disk shape: category -> process names.
type appRulesFile map[string][]string

// DomainRule is one entry of the domain rule file.
type DomainRule struct {
	Category    models.DomainCategory `json:"category"`
	Mode        models.ContentMode    `json:"mode"`
	Description string                `json:"description,omitempty"`
}

// domainRulesFile is the on-disk shape of the domain rule file.
type domainRulesFile struct {
	Domains   map[string]DomainRule `json:"domains"`
	Wildcards map[string]DomainRule `json:"wildcards"`
}

// loadRuleBytes reads path if non-empty, otherwise returns the
// embedded fallback.
func loadRuleBytes(path string, embedded []byte) ([]byte, error) {
	if path == "" {
		return embedded, nil
	}
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}
	return raw, nil
}

// parseAppRules decodes and validates the app rule document.
func parseAppRules(raw []byte) (appRulesFile, error) {
	var doc appRulesFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse app rules: %w", err)
	}
	for category := range doc {
		if !validAppCategory(models.AppCategory(category)) {
			return nil, fmt.Errorf("app rules: unknown category %q", category)
		}
	}
	return doc, nil
}

// parseDomainRules decodes and validates the domain rule document.
func parseDomainRules(raw []byte) (*domainRulesFile, error) {
	var doc domainRulesFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse domain rules: %w", err)
	}
	for domain, rule := range doc.Domains {
		if err := validateDomainRule(domain, rule); err != nil {
			return nil, err
		}
	}
	for pattern, rule := range doc.Wildcards {
		if len(pattern) < 3 || pattern[:2] != "*." {
			return nil, fmt.Errorf("domain rules: wildcard %q must start with *.", pattern)
		}
		if err := validateDomainRule(pattern, rule); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

func validateDomainRule(key string, rule DomainRule) error {
	if !validDomainCategory(rule.Category) {
		return fmt.Errorf("domain rules: %s has unknown category %q", key, rule.Category)
	}
	if !validContentMode(rule.Mode) {
		return fmt.Errorf("domain rules: %s has unknown mode %q", key, rule.Mode)
	}
	return nil
}

func validAppCategory(c models.AppCategory) bool {
	switch c {
	case models.AppBrowser, models.AppIDE, models.AppOffice, models.AppIM,
		models.AppVideo, models.AppPlayer, models.AppGame, models.AppTool,
		models.AppSystem, models.AppOther:
		return true
	}
	return false
}

func validDomainCategory(c models.DomainCategory) bool {
	switch c {
	case models.DomainCode, models.DomainDoc, models.DomainVideo,
		models.DomainSocial, models.DomainShopping, models.DomainSearch,
		models.DomainAI, models.DomainEmail, models.DomainOther:
		return true
	}
	return false
}

func validContentMode(m models.ContentMode) bool {
	switch m {
	case models.ModeProduction, models.ModeConsumption, models.ModeNeutral, models.ModeUnknown:
		return true
	}
	return false
}
