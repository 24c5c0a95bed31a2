// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/moyuban/moyuban/internal/config"
	"github.com/moyuban/moyuban/internal/models"
)

// scriptedProber replays a fixed snapshot sequence.
type scriptedProber struct {
	snapshots []*models.ActivitySnapshot
	calls     int
}

func (p *scriptedProber) Probe(_ context.Context) *models.ActivitySnapshot {
	if p.calls >= len(p.snapshots) {
		p.calls++
		return nil
	}
	s := p.snapshots[p.calls]
	p.calls++
	return s
}

// testConfig is deterministic: in-memory store, certain trigger, no
// jitter, no cooldowns.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Path = ""
	cfg.Behavior.TriggerProbability = 1.0
	cfg.Behavior.JitterRangeSec = 0
	cfg.Behavior.GlobalCooldown = 0
	cfg.Behavior.CategoryCooldown = 0
	cfg.Behavior.ToneCooldown = 0
	return cfg
}

func newTestOrchestrator(t *testing.T, cfg *config.Config, snapshots []*models.ActivitySnapshot) *Orchestrator {
	t.Helper()
	o, err := NewWithProber(cfg, &scriptedProber{snapshots: snapshots})
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	t.Cleanup(func() {
		if err := o.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return o
}

func TestEndToEndFocusSteady(t *testing.T) {
	// Two production snapshots twenty minutes apart: the second tick
	// crosses the focus threshold and must surface one message.
	o := newTestOrchestrator(t, testConfig(), []*models.ActivitySnapshot{
		{App: "Code.exe", WindowTitle: "main.py - VSCode", Timestamp: 0},
		{App: "Code.exe", WindowTitle: "main.py - VSCode", Timestamp: 1200},
	})

	ctx := context.Background()
	if m := o.RunOnce(ctx); m != nil {
		t.Fatalf("first tick produced %+v, want nothing", m)
	}

	m := o.RunOnce(ctx)
	if m == nil {
		t.Fatal("second tick produced no message")
	}
	if m.Event.Category != models.TrendFocusSteady {
		t.Errorf("category = %q, want focus_steady", m.Event.Category)
	}
	if m.Tone != models.ToneGuli {
		t.Errorf("tone = %q, want 鼓励", m.Tone)
	}
	if m.Text == "" {
		t.Error("message text is empty")
	}

	stats, err := o.SnapshotStats(ctx)
	if err != nil {
		t.Fatalf("snapshot stats: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("persisted snapshots = %d, want 2", stats.Total)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), nil)

	if err := o.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := o.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if !o.Stats().Running {
		t.Error("stats must report running")
	}

	if err := o.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := o.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if o.Stats().Running {
		t.Error("stats must report stopped")
	}
}

func TestRestartAfterStop(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), nil)

	if err := o.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := o.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := o.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := o.Stop(); err != nil {
		t.Fatalf("final stop: %v", err)
	}
}

func TestReloadRejectsInvalidConfig(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), nil)

	bad := testConfig()
	bad.Behavior.CollectionInterval = 0
	if err := o.ReloadConfig(bad); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("reload error = %v, want ErrInvalid", err)
	}

	if err := o.ReloadConfig(nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("nil reload error = %v, want ErrInvalid", err)
	}
}

func TestReloadHotSwapsTriggerProbability(t *testing.T) {
	// Alternating production/consumption snapshots: every tick after
	// the first is a mode switch and thus a candidate event.
	snapshots := []*models.ActivitySnapshot{
		{App: "Code.exe", WindowTitle: "main.go", Timestamp: 0},
		{App: "chrome.exe", WindowTitle: "bilibili", URL: "https://bilibili.com/video/BV1", Timestamp: 10},
		{App: "Code.exe", WindowTitle: "main.go", Timestamp: 20},
		{App: "chrome.exe", WindowTitle: "bilibili", URL: "https://bilibili.com/video/BV1", Timestamp: 30},
		{App: "Code.exe", WindowTitle: "main.go", Timestamp: 40},
	}
	cfg := testConfig()
	cfg.Behavior.TriggerProbability = 0.0
	o := newTestOrchestrator(t, cfg, snapshots)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if m := o.RunOnce(ctx); m != nil {
			t.Fatalf("tick %d with probability 0 produced %+v", i, m)
		}
	}

	next := testConfig()
	next.Behavior.TriggerProbability = 1.0
	if err := o.ReloadConfig(next); err != nil {
		t.Fatalf("reload: %v", err)
	}

	var got *models.DanmakuMessage
	for i := 0; i < 2 && got == nil; i++ {
		got = o.RunOnce(ctx)
	}
	if got == nil {
		t.Fatal("no message after raising trigger probability to 1.0")
	}
	if got.Event.Category != models.TrendModeSwitch {
		t.Errorf("category = %q, want mode_switch", got.Event.Category)
	}
}

func TestReloadDisablesPipeline(t *testing.T) {
	snapshots := []*models.ActivitySnapshot{
		{App: "Code.exe", WindowTitle: "main.py - VSCode", Timestamp: 0},
		{App: "Code.exe", WindowTitle: "main.py - VSCode", Timestamp: 1200},
	}
	o := newTestOrchestrator(t, testConfig(), snapshots)

	next := testConfig()
	next.Behavior.Enabled = false
	if err := o.ReloadConfig(next); err != nil {
		t.Fatalf("reload: %v", err)
	}

	ctx := context.Background()
	o.RunOnce(ctx)
	if m := o.RunOnce(ctx); m != nil {
		t.Errorf("disabled pipeline produced %+v", m)
	}

	stats, err := o.SnapshotStats(ctx)
	if err != nil {
		t.Fatalf("snapshot stats: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("disabled pipeline persisted %d snapshots", stats.Total)
	}
}

func TestPullNextMessageEmpty(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), nil)
	if m := o.PullNextMessage(); m != nil {
		t.Errorf("pull on idle orchestrator = %+v, want nil", m)
	}
}

func TestStatsAggregation(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), []*models.ActivitySnapshot{
		{App: "Code.exe", WindowTitle: "main.py - VSCode", Timestamp: 0},
		{App: "Code.exe", WindowTitle: "main.py - VSCode", Timestamp: 1200},
	})

	ctx := context.Background()
	o.RunOnce(ctx)
	o.RunOnce(ctx)

	stats := o.Stats()
	if stats.Engine.Enqueued != 1 || stats.Engine.Emitted != 1 {
		t.Errorf("engine stats = %+v, want one enqueued and emitted", stats.Engine)
	}
	if stats.Cooldown.Allowed != 1 {
		t.Errorf("cooldown allowed = %d, want 1", stats.Cooldown.Allowed)
	}
	if stats.TemplateBank.Templates == 0 {
		t.Error("template bank stats empty")
	}
}
