// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/models"
)

//go:embed templates.json
var defaultBank []byte

// ErrNoTemplate means the bank carries nothing for a category.
var ErrNoTemplate = errors.New("no template for category")

// placeholderPattern matches {variable} placeholders in templates.
var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// bankFile is the on-disk shape: category -> tone -> templates.
type bankFile map[string]map[string][]string

// bank is the immutable parsed form, swapped atomically on reload.
type bank struct {
	byCategory map[models.BehaviorTrend]map[models.Tone][]string
	// tonesOf lists, per category, the tones that actually carry
	// templates. Sorted so fallback selection is a stable distribution.
	tonesOf map[models.BehaviorTrend][]models.Tone
	total   int
}

// BankStats summarizes the loaded bank.
type BankStats struct {
	Categories int                          `json:"categories"`
	Templates  int                          `json:"templates"`
	ByCategory map[models.BehaviorTrend]int `json:"by_category"`
}

// Store holds the active template bank. Safe for concurrent use.
type Store struct {
	bank atomic.Pointer[bank]

	// mu guards rng only; rand.Rand is not goroutine-safe.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStore loads the bank from path, or the embedded defaults when
// path is empty.
func NewStore(path string) (*Store, error) {
	s := &Store{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // selection, not crypto
	}
	if err := s.Reload(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the bank from path (embedded defaults when empty).
// On any error the previous bank stays active.
func (s *Store) Reload(path string) error {
	raw := defaultBank
	if path != "" {
		var err error
		raw, err = os.ReadFile(path) //nolint:gosec // path comes from operator config
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}
	}

	b, err := parseBank(raw)
	if err != nil {
		return err
	}

	s.bank.Store(b)
	logging.Info().
		Int("categories", len(b.byCategory)).
		Int("templates", b.total).
		Msg("template bank loaded")
	return nil
}

// Pick selects a template for (category, tone) uniformly at random.
// When the category has no templates for the tone it falls back to a
// random tone the category does carry; the returned tone is the one
// actually used.
func (s *Store) Pick(category models.BehaviorTrend, tone models.Tone) (string, models.Tone, error) {
	b := s.bank.Load()
	byTone, ok := b.byCategory[category]
	if !ok || len(byTone) == 0 {
		return "", tone, fmt.Errorf("%w: %s", ErrNoTemplate, category)
	}

	list := byTone[tone]
	if len(list) == 0 {
		tones := b.tonesOf[category]
		fallback := tones[s.intn(len(tones))]
		logging.Warn().
			Str("category", string(category)).
			Str("requested_tone", string(tone)).
			Str("fallback_tone", string(fallback)).
			Msg("tone missing in template bank, falling back")
		tone = fallback
		list = byTone[tone]
	}

	return list[s.intn(len(list))], tone, nil
}

// Render substitutes {placeholder} occurrences with context values.
// A placeholder absent from the context is an error; the caller skips
// the emission rather than showing a raw placeholder.
func Render(template string, context map[string]string) (string, error) {
	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		value, ok := context[key]
		if !ok || value == "" {
			if missing == "" {
				missing = key
			}
			return m
		}
		return value
	})
	if missing != "" {
		return "", fmt.Errorf("template references unknown variable %q", missing)
	}
	return out, nil
}

// Materialize renders a queued event into display text using the
// event's category and the given tone. Returns the tone actually used
// after any fallback.
func (s *Store) Materialize(event *models.DanmakuEvent, tone models.Tone) (string, models.Tone, error) {
	template, used, err := s.Pick(event.Category, tone)
	if err != nil {
		return "", used, err
	}
	text, err := Render(template, event.Context)
	if err != nil {
		logging.Warn().
			Err(err).
			Str("category", string(event.Category)).
			Msg("template render failed, skipping emission")
		return "", used, err
	}
	return text, used, nil
}

// Stats reports template counts for the active bank.
func (s *Store) Stats() BankStats {
	b := s.bank.Load()
	stats := BankStats{
		Categories: len(b.byCategory),
		Templates:  b.total,
		ByCategory: make(map[models.BehaviorTrend]int, len(b.byCategory)),
	}
	for category, byTone := range b.byCategory {
		for _, list := range byTone {
			stats.ByCategory[category] += len(list)
		}
	}
	return stats
}

func (s *Store) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// parseBank decodes and validates a bank document. Every category and
// tone must belong to the closed sets, every placeholder to the
// context schema, and no template may be blank.
func parseBank(raw []byte) (*bank, error) {
	var doc bankFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template bank: %w", err)
	}

	b := &bank{
		byCategory: make(map[models.BehaviorTrend]map[models.Tone][]string, len(doc)),
		tonesOf:    make(map[models.BehaviorTrend][]models.Tone, len(doc)),
	}
	for rawCategory, byTone := range doc {
		category := models.BehaviorTrend(rawCategory)
		if !emittable(category) {
			return nil, fmt.Errorf("template bank: unknown category %q", rawCategory)
		}
		for rawTone, list := range byTone {
			tone := models.Tone(rawTone)
			if !validTone(tone) {
				return nil, fmt.Errorf("template bank: %s has unknown tone %q", rawCategory, rawTone)
			}
			for _, template := range list {
				if strings.TrimSpace(template) == "" {
					return nil, fmt.Errorf("template bank: %s/%s contains a blank template", rawCategory, rawTone)
				}
				if err := validatePlaceholders(template); err != nil {
					return nil, fmt.Errorf("template bank: %s/%s: %w", rawCategory, rawTone, err)
				}
			}
			if len(list) == 0 {
				continue
			}
			if b.byCategory[category] == nil {
				b.byCategory[category] = make(map[models.Tone][]string)
			}
			b.byCategory[category][tone] = list
			b.tonesOf[category] = append(b.tonesOf[category], tone)
			b.total += len(list)
		}
	}
	for _, tones := range b.tonesOf {
		slices.Sort(tones)
	}
	return b, nil
}

// validatePlaceholders checks each {variable} against the context
// schema, and rejects stray braces that would render literally.
func validatePlaceholders(template string) error {
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !slices.Contains(models.ContextKeys, match[1]) {
			return fmt.Errorf("placeholder %q is not a context variable", match[1])
		}
	}
	stripped := placeholderPattern.ReplaceAllString(template, "")
	if strings.ContainsAny(stripped, "{}") {
		return fmt.Errorf("malformed placeholder braces in %q", template)
	}
	return nil
}

func emittable(t models.BehaviorTrend) bool {
	return slices.Contains(models.EmittableTrends, t)
}

func validTone(t models.Tone) bool {
	return slices.Contains(models.Tones, t)
}
