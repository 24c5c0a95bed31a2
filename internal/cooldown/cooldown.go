// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

// Package cooldown is the thread-safe admission oracle for danmaku
// emissions. Three tiers are enforced together: a global floor between
// any two emissions, a per-category floor, and a per-tone floor. All
// operations are O(1) under one lock, and the critical sections do no
// I/O.
package cooldown

import (
	"sync"
	"time"

	"github.com/moyuban/moyuban/internal/models"
)

// Scope selects what Reset clears.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeGlobal   Scope = "global"
	ScopeCategory Scope = "category"
	ScopeTone     Scope = "tone"
)

// Config holds the three cooldown thresholds.
type Config struct {
	Global   time.Duration
	Category time.Duration
	Tone     time.Duration
}

// DefaultConfig returns the documented defaults (30s, 60s, 120s).
func DefaultConfig() Config {
	return Config{
		Global:   30 * time.Second,
		Category: 60 * time.Second,
		Tone:     2 * time.Minute,
	}
}

// Stats are the manager's admission counters.
type Stats struct {
	TotalChecks       int64 `json:"total_checks"`
	Allowed           int64 `json:"allowed"`
	BlockedByGlobal   int64 `json:"blocked_by_global"`
	BlockedByCategory int64 `json:"blocked_by_category"`
	BlockedByTone     int64 `json:"blocked_by_tone"`
}

// Remaining reports the wait left per tier; zero means clear.
type Remaining struct {
	Global   time.Duration `json:"global"`
	Category time.Duration `json:"category"`
	Tone     time.Duration `json:"tone"`
}

// Manager tracks emission timestamps per tier.
type Manager struct {
	mu sync.Mutex

	cfg Config

	lastGlobal     time.Time
	lastByCategory map[models.BehaviorTrend]time.Time
	lastByTone     map[models.Tone]time.Time

	stats Stats

	// now is injectable for tests.
	now func() time.Time
}

// New creates a manager with the given thresholds.
func New(cfg Config) *Manager {
	return &Manager{
		cfg:            cfg,
		lastByCategory: make(map[models.BehaviorTrend]time.Time),
		lastByTone:     make(map[models.Tone]time.Time),
		now:            time.Now,
	}
}

// CanShow reports whether an emission of (category, tone) is admissible
// now. Elapsed time exactly equal to a threshold admits.
func (m *Manager) CanShow(category models.BehaviorTrend, tone models.Tone) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.stats.TotalChecks++

	if !m.lastGlobal.IsZero() && now.Sub(m.lastGlobal) < m.cfg.Global {
		m.stats.BlockedByGlobal++
		return false
	}
	if last, ok := m.lastByCategory[category]; ok && now.Sub(last) < m.cfg.Category {
		m.stats.BlockedByCategory++
		return false
	}
	if last, ok := m.lastByTone[tone]; ok && now.Sub(last) < m.cfg.Tone {
		m.stats.BlockedByTone++
		return false
	}

	m.stats.Allowed++
	return true
}

// Record marks an emission of (category, tone) at the current time.
// Recording twice at the same instant is idempotent.
func (m *Manager) Record(category models.BehaviorTrend, tone models.Tone) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.lastGlobal = now
	m.lastByCategory[category] = now
	m.lastByTone[tone] = now
}

// RemainingFor returns the wait left per tier for (category, tone).
func (m *Manager) RemainingFor(category models.BehaviorTrend, tone models.Tone) Remaining {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var r Remaining
	if !m.lastGlobal.IsZero() {
		r.Global = clampDur(m.cfg.Global - now.Sub(m.lastGlobal))
	}
	if last, ok := m.lastByCategory[category]; ok {
		r.Category = clampDur(m.cfg.Category - now.Sub(last))
	}
	if last, ok := m.lastByTone[tone]; ok {
		r.Tone = clampDur(m.cfg.Tone - now.Sub(last))
	}
	return r
}

// Reset clears recorded timestamps in the given scope. Counters are
// kept.
func (m *Manager) Reset(scope Scope) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch scope {
	case ScopeGlobal:
		m.lastGlobal = time.Time{}
	case ScopeCategory:
		m.lastByCategory = make(map[models.BehaviorTrend]time.Time)
	case ScopeTone:
		m.lastByTone = make(map[models.Tone]time.Time)
	case ScopeAll:
		m.lastGlobal = time.Time{}
		m.lastByCategory = make(map[models.BehaviorTrend]time.Time)
		m.lastByTone = make(map[models.Tone]time.Time)
	}
}

// UpdateConfig replaces thresholds. Negative values leave the
// corresponding threshold unchanged.
func (m *Manager) UpdateConfig(global, category, tone time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if global >= 0 {
		m.cfg.Global = global
	}
	if category >= 0 {
		m.cfg.Category = category
	}
	if tone >= 0 {
		m.cfg.Tone = tone
	}
}

// Cleanup drops category and tone entries older than maxAge to bound
// memory. Idempotent.
func (m *Manager) Cleanup(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	for category, last := range m.lastByCategory {
		if last.Before(cutoff) {
			delete(m.lastByCategory, category)
		}
	}
	for tone, last := range m.lastByTone {
		if last.Before(cutoff) {
			delete(m.lastByTone, tone)
		}
	}
}

// StatsSnapshot returns a copy of the admission counters.
func (m *Manager) StatsSnapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func clampDur(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
