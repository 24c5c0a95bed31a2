// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTick(t *testing.T) {
	before := testutil.ToFloat64(SamplerTicks.WithLabelValues("ok"))
	RecordTick("ok")
	after := testutil.ToFloat64(SamplerTicks.WithLabelValues("ok"))
	if after != before+1 {
		t.Errorf("ok ticks = %v, want %v", after, before+1)
	}
}

func TestRecordSnapshotWrite(t *testing.T) {
	okBefore := testutil.ToFloat64(SnapshotWrites.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(SnapshotWrites.WithLabelValues("error"))

	RecordSnapshotWrite(nil)
	RecordSnapshotWrite(errors.New("disk full"))

	if got := testutil.ToFloat64(SnapshotWrites.WithLabelValues("ok")); got != okBefore+1 {
		t.Errorf("ok writes = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(SnapshotWrites.WithLabelValues("error")); got != errBefore+1 {
		t.Errorf("error writes = %v, want %v", got, errBefore+1)
	}
}

func TestRecordEvent(t *testing.T) {
	before := testutil.ToFloat64(DanmakuEvents.WithLabelValues("moyu_start", OutcomeEmitted))
	RecordEvent("moyu_start", OutcomeEmitted)
	after := testutil.ToFloat64(DanmakuEvents.WithLabelValues("moyu_start", OutcomeEmitted))
	if after != before+1 {
		t.Errorf("emitted events = %v, want %v", after, before+1)
	}
}

func TestObserveProbeDoesNotPanic(t *testing.T) {
	ObserveProbe(3 * time.Millisecond)
	ObserveProbe(0)
}

func TestGauges(t *testing.T) {
	EventQueueDepth.Set(4)
	if got := testutil.ToFloat64(EventQueueDepth); got != 4 {
		t.Errorf("event queue depth = %v, want 4", got)
	}
	OutputQueueDepth.Set(2)
	if got := testutil.ToFloat64(OutputQueueDepth); got != 2 {
		t.Errorf("output queue depth = %v, want 2", got)
	}
}
