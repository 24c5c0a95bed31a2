// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package behavior

import (
	"testing"

	"github.com/moyuban/moyuban/internal/classify"
	"github.com/moyuban/moyuban/internal/models"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	apps, err := classify.NewAppClassifier("")
	if err != nil {
		t.Fatalf("app classifier: %v", err)
	}
	domains, err := classify.NewDomainClassifier("")
	if err != nil {
		t.Fatalf("domain classifier: %v", err)
	}
	return NewAnalyzer(apps, domains, DefaultThresholds())
}

func snap(app, title, url string, ts int64) *models.ActivitySnapshot {
	return &models.ActivitySnapshot{App: app, WindowTitle: title, URL: url, Timestamp: ts}
}

func TestModeDeterminationPriority(t *testing.T) {
	tests := []struct {
		name string
		s    *models.ActivitySnapshot
		want models.ContentMode
	}{
		{
			name: "domain rule wins over title",
			s:    snap("chrome.exe", "写代码 - bilibili", "https://bilibili.com/video/BV1", 0),
			want: models.ModeConsumption,
		},
		{
			name: "title production token",
			s:    snap("chrome.exe", "Editing README", "", 0),
			want: models.ModeProduction,
		},
		{
			name: "title consumption token cjk",
			s:    snap("explorer.exe", "热门视频推荐", "", 0),
			want: models.ModeConsumption,
		},
		{
			name: "app default when title silent",
			s:    snap("Code.exe", "untitled", "", 0),
			want: models.ModeProduction,
		},
		{
			name: "unknown app unknown title",
			s:    snap("mystery.exe", "hello", "", 0),
			want: models.ModeUnknown,
		},
		{
			name: "unknown domain falls through to title",
			s:    snap("chrome.exe", "watch this", "https://unknown-site.example/x", 0),
			want: models.ModeConsumption,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(t)
			info := a.Analyze(tt.s)
			if info.Mode != tt.want {
				t.Errorf("mode = %q, want %q", info.Mode, tt.want)
			}
		})
	}
}

func TestDurationTracking(t *testing.T) {
	a := newTestAnalyzer(t)

	info := a.Analyze(snap("Code.exe", "main.go", "", 1000))
	if info.ActiveDurationSec != 0 {
		t.Errorf("first snapshot duration = %d, want 0", info.ActiveDurationSec)
	}

	info = a.Analyze(snap("Code.exe", "main.go", "", 1060))
	if info.ActiveDurationSec != 60 {
		t.Errorf("same state duration = %d, want 60", info.ActiveDurationSec)
	}

	// App change resets both axes.
	info = a.Analyze(snap("chrome.exe", "github.com - Chrome", "https://github.com/x", 1120))
	if info.ActiveDurationSec != 0 {
		t.Errorf("after app change duration = %d, want 0", info.ActiveDurationSec)
	}
}

func TestDurationNeverNegative(t *testing.T) {
	a := newTestAnalyzer(t)

	a.Analyze(snap("Code.exe", "main.go", "", 1000))
	info := a.Analyze(snap("Code.exe", "main.go", "", 900)) // clock went backwards
	if info.ActiveDurationSec != 0 {
		t.Errorf("non-increasing timestamp duration = %d, want clamped 0", info.ActiveDurationSec)
	}

	// State was not rewound: a later snapshot measures from the
	// original state start.
	info = a.Analyze(snap("Code.exe", "main.go", "", 1100))
	if info.ActiveDurationSec != 100 {
		t.Errorf("duration after clock recovery = %d, want 100", info.ActiveDurationSec)
	}
}

func TestFocusSteadyAtThreshold(t *testing.T) {
	a := newTestAnalyzer(t)

	// Production snapshots at t=0,60,...,1260.
	var last *models.BehaviorInfo
	for ts := int64(0); ts <= 1260; ts += 60 {
		last = a.Analyze(snap("Code.exe", "main.py - VSCode", "", ts))
		if ts < 1200 && last.Trend == models.TrendFocusSteady {
			t.Fatalf("focus_steady fired early at t=%d", ts)
		}
	}
	if last.Trend != models.TrendFocusSteady {
		t.Errorf("trend at t=1260 = %q, want focus_steady", last.Trend)
	}

	// Exactly at the boundary.
	b := newTestAnalyzer(t)
	b.Analyze(snap("Code.exe", "main.py - VSCode", "", 0))
	info := b.Analyze(snap("Code.exe", "main.py - VSCode", "", 1200))
	if info.Trend != models.TrendFocusSteady {
		t.Errorf("trend at exactly 20min = %q, want focus_steady", info.Trend)
	}
}

func TestMoyuOnsetScenario(t *testing.T) {
	a := newTestAnalyzer(t)

	// 10 production snapshots.
	for ts := int64(0); ts < 600; ts += 60 {
		info := a.Analyze(snap("Code.exe", "main.py - VSCode", "", ts))
		if info.Mode != models.ModeProduction {
			t.Fatalf("expected production at t=%d, got %q", ts, info.Mode)
		}
	}

	// Switch to bilibili: first consumption snapshot is a mode switch.
	info := a.Analyze(snap("chrome.exe", "bilibili", "https://bilibili.com/video/BV1", 600))
	if info.Mode != models.ModeConsumption {
		t.Fatalf("mode = %q, want consumption", info.Mode)
	}
	if info.DomainCategory != models.DomainVideo {
		t.Errorf("domain category = %q, want video", info.DomainCategory)
	}
	if info.Trend != models.TrendModeSwitch {
		t.Errorf("first consumption trend = %q, want mode_switch", info.Trend)
	}

	// Under three minutes: no moyu yet.
	info = a.Analyze(snap("chrome.exe", "bilibili", "https://bilibili.com/video/BV1", 700))
	if info.Trend != models.TrendNone {
		t.Errorf("trend at 100s consumption = %q, want none", info.Trend)
	}

	// At >= 180 s of consumption following production: moyu_start.
	info = a.Analyze(snap("chrome.exe", "bilibili", "https://bilibili.com/video/BV1", 780))
	if info.Trend != models.TrendMoyuStart {
		t.Errorf("trend at 180s consumption = %q, want moyu_start", info.Trend)
	}
}

func TestMoyuSteadyWithoutPriorProduction(t *testing.T) {
	a := newTestAnalyzer(t)

	// Consumption from a cold start: moyu_start must not fire (prior
	// mode was not production), but moyu_steady does at 15 min.
	var last *models.BehaviorInfo
	for ts := int64(0); ts <= 900; ts += 60 {
		last = a.Analyze(snap("chrome.exe", "bilibili", "https://bilibili.com/video/BV1", ts))
		if last.Trend == models.TrendMoyuStart {
			t.Fatalf("moyu_start fired without prior production at t=%d", ts)
		}
	}
	if last.Trend != models.TrendMoyuSteady {
		t.Errorf("trend at 15min consumption = %q, want moyu_steady", last.Trend)
	}
}

func TestTaskSwitch(t *testing.T) {
	a := newTestAnalyzer(t)

	a.Analyze(snap("Code.exe", "main.go", "", 0))
	a.Analyze(snap("Code.exe", "main.go", "", 60))

	// Same mode, different app, young state.
	info := a.Analyze(snap("cursor.exe", "main.go", "", 70))
	if info.Trend != models.TrendTaskSwitch {
		t.Errorf("trend = %q, want task_switch", info.Trend)
	}
}

func TestThresholdOverride(t *testing.T) {
	a := newTestAnalyzer(t)
	th := DefaultThresholds()
	th.FocusSteadySec = 10
	a.SetThresholds(th)

	a.Analyze(snap("Code.exe", "main.go", "", 0))
	info := a.Analyze(snap("Code.exe", "main.go", "", 10))
	if info.Trend != models.TrendFocusSteady {
		t.Errorf("trend with lowered threshold = %q, want focus_steady", info.Trend)
	}
}
