// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package behavior

import (
	"strings"

	"github.com/moyuban/moyuban/internal/classify"
	"github.com/moyuban/moyuban/internal/models"
)

// Analyzer derives BehaviorInfo from a snapshot stream. Not safe for
// concurrent use; exactly one goroutine (the sampler) feeds it.
type Analyzer struct {
	apps       *classify.AppClassifier
	domains    *classify.DomainClassifier
	thresholds Thresholds

	// Current (app, mode) state.
	currentApp     string
	currentMode    models.ContentMode
	stateStartTime int64

	// priorStateMode is the mode held before the current state began.
	// moyu_start keys off it: consumption right after production.
	priorStateMode models.ContentMode

	// Previous snapshot's app and mode, for switch detection.
	prevApp  string
	prevMode models.ContentMode

	lastSnapshot *models.ActivitySnapshot
}

// NewAnalyzer creates an analyzer over the given classifiers.
func NewAnalyzer(apps *classify.AppClassifier, domains *classify.DomainClassifier, thresholds Thresholds) *Analyzer {
	return &Analyzer{
		apps:           apps,
		domains:        domains,
		thresholds:     thresholds,
		currentMode:    models.ModeUnknown,
		priorStateMode: models.ModeUnknown,
		prevMode:       models.ModeUnknown,
	}
}

// SetThresholds replaces the trend boundaries; used by config reload.
func (a *Analyzer) SetThresholds(t Thresholds) {
	a.thresholds = t
}

// Analyze classifies one snapshot and returns its BehaviorInfo.
func (a *Analyzer) Analyze(s *models.ActivitySnapshot) *models.BehaviorInfo {
	appType := a.apps.Classify(s.App)

	domain := classify.ExtractDomain(s.URL)
	domainCategory, domainMode := a.domains.ClassifyDomain(domain)

	mode := a.determineMode(s, appType, domainMode)
	duration := a.trackDuration(s, mode)
	trend := a.detectTrend(s, mode, duration)

	a.prevApp = s.App
	a.prevMode = mode
	a.lastSnapshot = s

	return &models.BehaviorInfo{
		App:               s.App,
		AppType:           appType,
		URL:               s.URL,
		Domain:            domain,
		DomainCategory:    domainCategory,
		Mode:              mode,
		ActiveDurationSec: duration,
		Trend:             trend,
		Timestamp:         s.Timestamp,
	}
}

// determineMode applies the strict priority chain: domain rule, title
// lexicon, app default, unknown.
func (a *Analyzer) determineMode(s *models.ActivitySnapshot, appType models.AppCategory, domainMode models.ContentMode) models.ContentMode {
	if s.URL != "" && domainMode != models.ModeUnknown {
		return domainMode
	}

	if s.WindowTitle != "" {
		title := strings.ToLower(s.WindowTitle)
		for _, token := range productionTitleTokens {
			if strings.Contains(title, token) {
				return models.ModeProduction
			}
		}
		for _, token := range consumptionTitleTokens {
			if strings.Contains(title, token) {
				return models.ModeConsumption
			}
		}
	}

	if mode := classify.DefaultMode(appType); mode != models.ModeUnknown {
		return mode
	}
	return models.ModeUnknown
}

// trackDuration returns seconds spent in the current (app, mode)
// state, resetting the state when either axis changes. Duration clamps
// at zero for non-increasing timestamps; the state is never rewound.
func (a *Analyzer) trackDuration(s *models.ActivitySnapshot, mode models.ContentMode) int64 {
	if s.App == a.currentApp && mode == a.currentMode {
		d := s.Timestamp - a.stateStartTime
		if d < 0 {
			d = 0
		}
		return d
	}

	a.priorStateMode = a.currentMode
	a.currentApp = s.App
	a.currentMode = mode
	a.stateStartTime = s.Timestamp
	return 0
}

// detectTrend evaluates the trend rules in priority order; first match
// wins.
func (a *Analyzer) detectTrend(s *models.ActivitySnapshot, mode models.ContentMode, duration int64) models.BehaviorTrend {
	t := a.thresholds

	if mode == models.ModeProduction && duration >= t.FocusSteadySec {
		return models.TrendFocusSteady
	}
	if mode == models.ModeConsumption && duration >= t.MoyuStartSec && a.priorStateMode == models.ModeProduction {
		return models.TrendMoyuStart
	}
	if mode == models.ModeConsumption && duration >= t.MoyuSteadySec {
		return models.TrendMoyuSteady
	}
	if a.lastSnapshot != nil {
		if mode != a.prevMode && duration < t.ModeSwitchWindowSec {
			return models.TrendModeSwitch
		}
		if s.App != a.prevApp && duration < t.TaskSwitchWindowSec {
			return models.TrendTaskSwitch
		}
	}
	return models.TrendNone
}
