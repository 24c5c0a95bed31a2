// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package classify

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/models"
)

// appRuleTable is the immutable, lookup-optimized form of the app
// rules. Replaced wholesale on reload.
type appRuleTable struct {
	// exact maps lowercased process name -> category.
	exact map[string]models.AppCategory

	// known holds lowercased process names with the .exe suffix
	// stripped, sorted for deterministic substring fallback.
	known []knownApp
}

type knownApp struct {
	name     string
	category models.AppCategory
}

// AppClassifier maps process names to app categories.
type AppClassifier struct {
	table atomic.Pointer[appRuleTable]
}

// NewAppClassifier loads the rule table from path, or the embedded
// defaults when path is empty.
func NewAppClassifier(path string) (*AppClassifier, error) {
	c := &AppClassifier{}
	if err := c.Reload(path); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the rule table atomically. On error the previous
// table stays active.
func (c *AppClassifier) Reload(path string) error {
	raw, err := loadRuleBytes(path, defaultAppRules)
	if err != nil {
		return err
	}
	doc, err := parseAppRules(raw)
	if err != nil {
		return err
	}

	table := buildAppTable(doc)
	c.table.Store(table)
	logging.Debug().Int("rules", len(table.exact)).Msg("app rules loaded")
	return nil
}

func buildAppTable(doc appRulesFile) *appRuleTable {
	table := &appRuleTable{exact: make(map[string]models.AppCategory)}
	for category, names := range doc {
		cat := models.AppCategory(category)
		for _, name := range names {
			lower := strings.ToLower(name)
			table.exact[lower] = cat
			table.known = append(table.known, knownApp{
				name:     strings.TrimSuffix(lower, ".exe"),
				category: cat,
			})
		}
	}
	// Longer names first so the substring fallback prefers the most
	// specific match; ties broken lexically for determinism.
	sort.Slice(table.known, func(i, j int) bool {
		if len(table.known[i].name) != len(table.known[j].name) {
			return len(table.known[i].name) > len(table.known[j].name)
		}
		return table.known[i].name < table.known[j].name
	})
	return table
}

// Classify maps a process name to its category. Lookup is
// case-insensitive exact first, then substring containment against
// known names with the .exe suffix stripped. Unknown maps to AppOther.
func (c *AppClassifier) Classify(processName string) models.AppCategory {
	table := c.table.Load()
	if table == nil || processName == "" {
		return models.AppOther
	}

	lower := strings.ToLower(processName)
	if cat, ok := table.exact[lower]; ok {
		return cat
	}

	stripped := strings.TrimSuffix(lower, ".exe")
	if cat, ok := table.exact[stripped]; ok {
		return cat
	}
	for _, k := range table.known {
		// Very short names ("et", "qq") stay exact-only; substring
		// containment on them would misfire constantly.
		if len(k.name) < 3 {
			continue
		}
		if strings.Contains(stripped, k.name) {
			return k.category
		}
	}
	return models.AppOther
}

// DefaultMode returns the content mode implied by an app category
// alone, used when neither domain nor title yields a mode.
func DefaultMode(appType models.AppCategory) models.ContentMode {
	switch appType {
	case models.AppIDE, models.AppOffice:
		return models.ModeProduction
	case models.AppVideo, models.AppPlayer, models.AppGame:
		return models.ModeConsumption
	case models.AppIM, models.AppTool, models.AppSystem:
		return models.ModeNeutral
	default:
		return models.ModeUnknown
	}
}
