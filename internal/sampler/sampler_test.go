// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package sampler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moyuban/moyuban/internal/behavior"
	"github.com/moyuban/moyuban/internal/classify"
	"github.com/moyuban/moyuban/internal/cooldown"
	"github.com/moyuban/moyuban/internal/engine"
	"github.com/moyuban/moyuban/internal/models"
	"github.com/moyuban/moyuban/internal/templates"
)

// scriptedProber replays a fixed snapshot sequence; nil entries model
// probe failures.
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

// recordingStore counts inserts and can fail on demand.
type recordingStore struct {
	inserts int
	err     error
}

func (s *recordingStore) InsertSnapshot(_ context.Context, _ *models.ActivitySnapshot) error {
	s.inserts++
	return s.err
}

type harness struct {
	sampler  *Sampler
	prober   *scriptedProber
	store    *recordingStore
	messages []*models.DanmakuMessage
}

func newHarness(t *testing.T, snapshots []*models.ActivitySnapshot, thresholds behavior.Thresholds) *harness {
	t.Helper()

	apps, err := classify.NewAppClassifier("")
	if err != nil {
		t.Fatalf("app classifier: %v", err)
	}
	domains, err := classify.NewDomainClassifier("")
	if err != nil {
		t.Fatalf("domain classifier: %v", err)
	}
	bank, err := templates.NewStore("")
	if err != nil {
		t.Fatalf("template bank: %v", err)
	}

	h := &harness{
		prober: &scriptedProber{snapshots: snapshots},
		store:  &recordingStore{},
	}
	analyzer := behavior.NewAnalyzer(apps, domains, thresholds)
	eng := engine.New(cooldown.New(cooldown.Config{}), 1.0, 0)
	h.sampler = New(h.prober, h.store, analyzer, eng, bank, 5*time.Second,
		func(m *models.DanmakuMessage) { h.messages = append(h.messages, m) })
	return h
}

func TestTickEmitsMessageOnTrend(t *testing.T) {
	th := behavior.DefaultThresholds()
	th.FocusSteadySec = 5

	h := newHarness(t, []*models.ActivitySnapshot{
		{App: "Code.exe", WindowTitle: "main.go - VSCode", Timestamp: 1000},
		{App: "Code.exe", WindowTitle: "main.go - VSCode", Timestamp: 1005},
	}, th)

	ctx := context.Background()
	h.sampler.Tick(ctx)
	if len(h.messages) != 0 {
		t.Fatalf("first tick emitted %d messages, want 0", len(h.messages))
	}

	h.sampler.Tick(ctx)
	if len(h.messages) != 1 {
		t.Fatalf("second tick emitted %d messages, want 1", len(h.messages))
	}

	msg := h.messages[0]
	if msg.Event.Category != models.TrendFocusSteady {
		t.Errorf("category = %q, want focus_steady", msg.Event.Category)
	}
	if msg.Tone != models.ToneGuli {
		t.Errorf("tone = %q, want default 鼓励", msg.Tone)
	}
	if msg.Text == "" {
		t.Error("materialized text is empty")
	}
	if h.store.inserts != 2 {
		t.Errorf("inserts = %d, want 2", h.store.inserts)
	}
}

func TestTickSkipsOnProbeFailure(t *testing.T) {
	h := newHarness(t, []*models.ActivitySnapshot{nil}, behavior.DefaultThresholds())

	h.sampler.Tick(context.Background())

	if h.store.inserts != 0 {
		t.Errorf("probe failure must not persist, inserts = %d", h.store.inserts)
	}
	if len(h.messages) != 0 {
		t.Errorf("probe failure emitted %d messages", len(h.messages))
	}
}

func TestTickProceedsOnStoreFailure(t *testing.T) {
	th := behavior.DefaultThresholds()
	th.FocusSteadySec = 5

	h := newHarness(t, []*models.ActivitySnapshot{
		{App: "Code.exe", WindowTitle: "main.go - VSCode", Timestamp: 1000},
		{App: "Code.exe", WindowTitle: "main.go - VSCode", Timestamp: 1005},
	}, th)
	h.store.err = errors.New("disk full")

	ctx := context.Background()
	h.sampler.Tick(ctx)
	h.sampler.Tick(ctx)

	if len(h.messages) != 1 {
		t.Errorf("analysis must survive persistence failure, got %d messages", len(h.messages))
	}
}

func TestDisabledTickDoesNothing(t *testing.T) {
	h := newHarness(t, []*models.ActivitySnapshot{
		{App: "Code.exe", WindowTitle: "main.go", Timestamp: 1000},
	}, behavior.DefaultThresholds())

	h.sampler.SetEnabled(false)
	h.sampler.Tick(context.Background())

	if h.prober.calls != 0 {
		t.Errorf("disabled sampler probed %d times", h.prober.calls)
	}

	h.sampler.SetEnabled(true)
	h.sampler.Tick(context.Background())
	if h.prober.calls != 1 {
		t.Errorf("re-enabled sampler probed %d times, want 1", h.prober.calls)
	}
}

func TestServeStopsWithinInterval(t *testing.T) {
	h := newHarness(t, nil, behavior.DefaultThresholds())
	h.sampler.SetInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.sampler.Serve(ctx) }()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	h := newHarness(t, nil, behavior.DefaultThresholds())

	h.sampler.SetInterval(0)
	if got := h.sampler.intervalDur(); got != 5*time.Second {
		t.Errorf("interval = %v, want unchanged 5s", got)
	}
	h.sampler.SetInterval(2 * time.Second)
	if got := h.sampler.intervalDur(); got != 2*time.Second {
		t.Errorf("interval = %v, want 2s", got)
	}
}
