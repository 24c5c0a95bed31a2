// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package classify

import (
	"net/url"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/models"
)

// domainRuleTable is the immutable lookup form of the domain rules.
type domainRuleTable struct {
	exact map[string]DomainRule

	// wildcards hold suffixes (the pattern minus "*."), longest first
	// so the most specific suffix wins deterministically.
	wildcards []wildcardRule
}

type wildcardRule struct {
	suffix string
	rule   DomainRule
}

// DomainClassifier maps URLs to domain categories and content modes.
type DomainClassifier struct {
	table atomic.Pointer[domainRuleTable]
}

// NewDomainClassifier loads the rule table from path, or the embedded
// defaults when path is empty.
func NewDomainClassifier(path string) (*DomainClassifier, error) {
	c := &DomainClassifier{}
	if err := c.Reload(path); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the rule table atomically. On error the previous
// table stays active.
func (c *DomainClassifier) Reload(path string) error {
	raw, err := loadRuleBytes(path, defaultDomainRules)
	if err != nil {
		return err
	}
	doc, err := parseDomainRules(raw)
	if err != nil {
		return err
	}

	table := &domainRuleTable{exact: doc.Domains}
	for pattern, rule := range doc.Wildcards {
		table.wildcards = append(table.wildcards, wildcardRule{
			suffix: strings.TrimPrefix(pattern, "*."),
			rule:   rule,
		})
	}
	sort.Slice(table.wildcards, func(i, j int) bool {
		if len(table.wildcards[i].suffix) != len(table.wildcards[j].suffix) {
			return len(table.wildcards[i].suffix) > len(table.wildcards[j].suffix)
		}
		return table.wildcards[i].suffix < table.wildcards[j].suffix
	})

	c.table.Store(table)
	logging.Debug().
		Int("domains", len(table.exact)).
		Int("wildcards", len(table.wildcards)).
		Msg("domain rules loaded")
	return nil
}

// ExtractDomain parses the URL authority and strips a leading "www.".
// Returns empty on parse failure.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// Classify maps a URL to (category, mode): exact match on the
// extracted domain first, then the wildcard scan. Unknown maps to
// (DomainOther, ModeUnknown).
func (c *DomainClassifier) Classify(rawURL string) (models.DomainCategory, models.ContentMode) {
	domain := ExtractDomain(rawURL)
	return c.ClassifyDomain(domain)
}

// ClassifyDomain is Classify for an already-extracted domain.
func (c *DomainClassifier) ClassifyDomain(domain string) (models.DomainCategory, models.ContentMode) {
	table := c.table.Load()
	if table == nil || domain == "" {
		return models.DomainOther, models.ModeUnknown
	}

	if rule, ok := table.exact[domain]; ok {
		return rule.Category, rule.Mode
	}
	for _, w := range table.wildcards {
		if domain == w.suffix || strings.HasSuffix(domain, "."+w.suffix) {
			return w.rule.Category, w.rule.Mode
		}
	}
	return models.DomainOther, models.ModeUnknown
}
